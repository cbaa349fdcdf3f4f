package dto

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type UpdateProfileRequest struct {
	MinimumNoticeHours  *int    `json:"minimum_notice_hours,omitempty" validate:"omitempty,min=0,max=168"`
	MaximumAdvanceDays  *int    `json:"maximum_advance_days,omitempty" validate:"omitempty,min=1,max=365"`
	SessionDurations    []int64 `json:"session_durations,omitempty" validate:"omitempty,dive,min=15,max=480"`
	IsAcceptingBookings *bool   `json:"is_accepting_bookings,omitempty"`
}

type UpsertWindowRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	Enabled   bool   `json:"enabled"`
}

type AddBlackoutRequest struct {
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
	Reason string    `json:"reason,omitempty" validate:"omitempty,max=200"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type SlotsResponse struct {
	TutorID         uuid.UUID   `json:"tutor_id"`
	Date            string      `json:"date"`
	DurationMinutes int         `json:"duration_minutes"`
	Slots           []time.Time `json:"slots"`
}
