package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Read-only reference data: subjects and education levels.

type Subject struct {
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`

	SubjectName     string `gorm:"column:subject_name;type:varchar(120);not null;uniqueIndex" json:"subject_name"`
	SubjectIsActive bool   `gorm:"column:subject_is_active;not null;default:true" json:"subject_is_active"`

	CreatedAt time.Time      `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	UpdatedAt time.Time      `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (Subject) TableName() string { return "subjects" }

type EducationLevel struct {
	EducationLevelID uuid.UUID `gorm:"column:education_level_id;type:uuid;default:gen_random_uuid();primaryKey" json:"education_level_id"`

	EducationLevelName     string `gorm:"column:education_level_name;type:varchar(120);not null;uniqueIndex" json:"education_level_name"`
	EducationLevelIsActive bool   `gorm:"column:education_level_is_active;not null;default:true" json:"education_level_is_active"`

	CreatedAt time.Time      `gorm:"column:education_level_created_at;autoCreateTime" json:"education_level_created_at"`
	UpdatedAt time.Time      `gorm:"column:education_level_updated_at;autoUpdateTime" json:"education_level_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:education_level_deleted_at;index" json:"education_level_deleted_at,omitempty"`
}

func (EducationLevel) TableName() string { return "education_levels" }
