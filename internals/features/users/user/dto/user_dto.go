package dto

import (
	"github.com/google/uuid"

	usermodel "tutorlink_backend/internals/features/users/user/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=student tutor parent"`

	// Student-only fields.
	AcademicLevelID *uuid.UUID `json:"academic_level_id,omitempty"`
	LearningGoals   string     `json:"learning_goals,omitempty" validate:"omitempty,max=1000"`

	// Tutor-only fields.
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Qualifications  string `json:"qualifications,omitempty" validate:"omitempty,max=2000"`
	ExperienceYears int    `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	Location        string `json:"location,omitempty" validate:"omitempty,max=120"`
}

type UpdateTutorProfileRequest struct {
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Qualifications  *string `json:"qualifications,omitempty" validate:"omitempty,max=2000"`
	ExperienceYears *int    `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=120"`
}

type UpsertLevelTermsRequest struct {
	EducationLevelID       uuid.UUID `json:"education_level_id" validate:"required"`
	HourlyRate             float64   `json:"hourly_rate" validate:"min=0"`
	TotalSessionsPerMonth  int       `json:"total_sessions_per_month" validate:"min=0"`
	Discount               float64   `json:"discount" validate:"min=0,max=100"`
	MonthlyRate            *float64  `json:"monthly_rate,omitempty" validate:"omitempty,min=0"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type MeResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	PhotoURL string    `json:"photo_url,omitempty"`

	StudentProfile *usermodel.StudentProfile `json:"student_profile,omitempty"`
	TutorProfile   *usermodel.TutorProfile   `json:"tutor_profile,omitempty"`
	ParentProfile  *usermodel.ParentProfile  `json:"parent_profile,omitempty"`
}
