package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentProfile struct {
	ParentProfileID uuid.UUID `gorm:"column:parent_profile_id;type:uuid;default:gen_random_uuid();primaryKey" json:"parent_profile_id"`

	ParentUserID uuid.UUID `gorm:"column:parent_user_id;type:uuid;not null;uniqueIndex" json:"parent_user_id"`

	CreatedAt time.Time      `gorm:"column:parent_created_at;autoCreateTime" json:"parent_created_at"`
	UpdatedAt time.Time      `gorm:"column:parent_updated_at;autoUpdateTime" json:"parent_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:parent_deleted_at;index" json:"parent_deleted_at,omitempty"`
}

func (ParentProfile) TableName() string { return "parent_profiles" }
