package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	UserRoleStudent = "student"
	UserRoleTutor   = "tutor"
	UserRoleParent  = "parent"
	UserRoleAdmin   = "admin"
)

// Account verification status. Only "active" accounts may be scheduled.
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusRejected = "rejected"
)

/* ===================== Model ===================== */

type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`

	UserFullName     string `gorm:"column:user_full_name;type:varchar(120);not null" json:"user_full_name"`
	UserEmail        string `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`
	UserPasswordHash string `gorm:"column:user_password_hash;not null" json:"-"`
	UserRole         string `gorm:"column:user_role;type:varchar(16);not null;default:'student'" json:"user_role"`
	UserStatus       string `gorm:"column:user_status;type:varchar(16);not null;default:'pending'" json:"user_status"`
	UserPhotoURL     *string `gorm:"column:user_photo_url" json:"user_photo_url,omitempty"`

	CreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) IsActive() bool { return u.UserStatus == UserStatusActive }
