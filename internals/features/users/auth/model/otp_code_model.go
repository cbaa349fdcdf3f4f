package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	OTPPurposeVerifyEmail   = "verify_email"
	OTPPurposeResetPassword = "reset_password"
)

// OTPCode is one issued one-time code. Codes are stored hashed and expire;
// the cleanup scheduler reaps consumed/expired rows.
type OTPCode struct {
	OTPID uuid.UUID `gorm:"column:otp_id;type:uuid;default:gen_random_uuid();primaryKey" json:"otp_id"`

	OTPUserID   uuid.UUID `gorm:"column:otp_user_id;type:uuid;not null;index" json:"otp_user_id"`
	OTPCodeHash string    `gorm:"column:otp_code_hash;not null" json:"-"`
	OTPPurpose  string    `gorm:"column:otp_purpose;type:varchar(32);not null" json:"otp_purpose"`

	OTPExpiresAt  time.Time  `gorm:"column:otp_expires_at;not null;index" json:"otp_expires_at"`
	OTPConsumedAt *time.Time `gorm:"column:otp_consumed_at" json:"otp_consumed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:otp_created_at;autoCreateTime" json:"otp_created_at"`
}

func (OTPCode) TableName() string { return "otp_codes" }
