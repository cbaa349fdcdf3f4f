package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentProfile struct {
	StudentProfileID uuid.UUID `gorm:"column:student_profile_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_profile_id"`

	StudentUserID uuid.UUID `gorm:"column:student_user_id;type:uuid;not null;uniqueIndex" json:"student_user_id"`

	StudentAcademicLevelID *uuid.UUID `gorm:"column:student_academic_level_id;type:uuid" json:"student_academic_level_id,omitempty"`
	StudentLearningGoals   string     `gorm:"column:student_learning_goals;type:text;not null;default:''" json:"student_learning_goals"`

	// Set when a parent attaches this student as their child.
	StudentParentID *uuid.UUID `gorm:"column:student_parent_id;type:uuid;index" json:"student_parent_id,omitempty"`

	CreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	UpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentProfile) TableName() string { return "student_profiles" }
