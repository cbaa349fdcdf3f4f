package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TutorStatusUnverified = "unverified"
	TutorStatusPending    = "pending"
	TutorStatusApproved   = "approved"
	TutorStatusRejected   = "rejected"
)

type TutorProfile struct {
	TutorProfileID uuid.UUID `gorm:"column:tutor_profile_id;type:uuid;default:gen_random_uuid();primaryKey" json:"tutor_profile_id"`

	TutorUserID uuid.UUID `gorm:"column:tutor_user_id;type:uuid;not null;uniqueIndex" json:"tutor_user_id"`

	TutorBio             string `gorm:"column:tutor_bio;type:text;not null;default:''" json:"tutor_bio"`
	TutorQualifications  string `gorm:"column:tutor_qualifications;type:text;not null;default:''" json:"tutor_qualifications"`
	TutorExperienceYears int    `gorm:"column:tutor_experience_years;not null;default:0" json:"tutor_experience_years"`
	TutorLocation        string `gorm:"column:tutor_location;type:varchar(120);not null;default:''" json:"tutor_location"`

	// Aggregates maintained by the review/rating paths. The review mean and
	// the session-rating mean are tracked separately.
	TutorAverageRating        float64 `gorm:"column:tutor_average_rating;not null;default:0;check:tutor_average_rating >= 0 AND tutor_average_rating <= 5" json:"tutor_average_rating"`
	TutorSessionRatingAverage float64 `gorm:"column:tutor_session_rating_average;not null;default:0;check:tutor_session_rating_average >= 0 AND tutor_session_rating_average <= 5" json:"tutor_session_rating_average"`
	TutorTotalSessions        int     `gorm:"column:tutor_total_sessions;not null;default:0" json:"tutor_total_sessions"`

	TutorIsVerified    bool   `gorm:"column:tutor_is_verified;not null;default:false" json:"tutor_is_verified"`
	TutorProfileStatus string `gorm:"column:tutor_profile_status;type:varchar(20);not null;default:'unverified'" json:"tutor_profile_status"`

	// Published commercial terms, one row per education level taught.
	Levels []TutorAcademicLevel `gorm:"foreignKey:LevelTutorID;references:TutorProfileID" json:"levels,omitempty"`

	CreatedAt time.Time      `gorm:"column:tutor_created_at;autoCreateTime" json:"tutor_created_at"`
	UpdatedAt time.Time      `gorm:"column:tutor_updated_at;autoUpdateTime" json:"tutor_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:tutor_deleted_at;index" json:"tutor_deleted_at,omitempty"`
}

func (TutorProfile) TableName() string { return "tutor_profiles" }

// TutorAcademicLevel carries the tutor's published terms for one education level:
// hourly rate, discount, and the per-level session cap used by the scheduler.
type TutorAcademicLevel struct {
	LevelID uuid.UUID `gorm:"column:level_id;type:uuid;default:gen_random_uuid();primaryKey" json:"level_id"`

	LevelTutorID          uuid.UUID `gorm:"column:level_tutor_id;type:uuid;not null;index:idx_tutor_level,unique" json:"level_tutor_id"`
	LevelEducationLevelID uuid.UUID `gorm:"column:level_education_level_id;type:uuid;not null;index:idx_tutor_level,unique" json:"level_education_level_id"`

	LevelHourlyRate           float64  `gorm:"column:level_hourly_rate;not null;check:level_hourly_rate >= 0" json:"level_hourly_rate"`
	LevelTotalSessionsPerMonth int     `gorm:"column:level_total_sessions_per_month;not null;default:0" json:"level_total_sessions_per_month"`
	LevelDiscount             float64  `gorm:"column:level_discount;not null;default:0;check:level_discount >= 0 AND level_discount <= 100" json:"level_discount"`
	LevelMonthlyRate          *float64 `gorm:"column:level_monthly_rate" json:"level_monthly_rate,omitempty"`

	CreatedAt time.Time `gorm:"column:level_created_at;autoCreateTime" json:"level_created_at"`
	UpdatedAt time.Time `gorm:"column:level_updated_at;autoUpdateTime" json:"level_updated_at"`
}

func (TutorAcademicLevel) TableName() string { return "tutor_academic_levels" }
