package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

/* =========================================================
   Models
========================================================= */

// AvailabilityProfile holds one tutor's booking policy.
type AvailabilityProfile struct {
	AvailabilityID uuid.UUID `gorm:"column:availability_id;type:uuid;default:gen_random_uuid();primaryKey" json:"availability_id"`

	AvailabilityTutorID uuid.UUID `gorm:"column:availability_tutor_id;type:uuid;not null;uniqueIndex" json:"availability_tutor_id"`

	AvailabilityMinimumNoticeHours int `gorm:"column:availability_minimum_notice_hours;not null;default:2" json:"availability_minimum_notice_hours"`
	AvailabilityMaximumAdvanceDays int `gorm:"column:availability_maximum_advance_days;not null;default:30" json:"availability_maximum_advance_days"`

	AvailabilitySessionDurations pq.Int64Array `gorm:"column:availability_session_durations;type:integer[]" json:"availability_session_durations"`

	AvailabilityIsAcceptingBookings bool `gorm:"column:availability_is_accepting_bookings;not null;default:true" json:"availability_is_accepting_bookings"`

	CreatedAt time.Time `gorm:"column:availability_created_at;autoCreateTime" json:"availability_created_at"`
	UpdatedAt time.Time `gorm:"column:availability_updated_at;autoUpdateTime" json:"availability_updated_at"`
}

func (AvailabilityProfile) TableName() string { return "availability_profiles" }

// AvailabilityWindow is one recurring weekly slot band. Weekday follows
// time.Weekday numbering, Sunday = 0. Times are "HH:MM" in UTC.
type AvailabilityWindow struct {
	WindowID uuid.UUID `gorm:"column:window_id;type:uuid;default:gen_random_uuid();primaryKey" json:"window_id"`

	WindowTutorID uuid.UUID `gorm:"column:window_tutor_id;type:uuid;not null;index:idx_window_tutor_day" json:"window_tutor_id"`
	WindowWeekday int       `gorm:"column:window_weekday;not null;index:idx_window_tutor_day;check:window_weekday >= 0 AND window_weekday <= 6" json:"window_weekday"`

	WindowStartTime string `gorm:"column:window_start_time;type:varchar(5);not null" json:"window_start_time"`
	WindowEndTime   string `gorm:"column:window_end_time;type:varchar(5);not null" json:"window_end_time"`

	WindowEnabled bool `gorm:"column:window_enabled;not null;default:true" json:"window_enabled"`

	CreatedAt time.Time `gorm:"column:window_created_at;autoCreateTime" json:"window_created_at"`
	UpdatedAt time.Time `gorm:"column:window_updated_at;autoUpdateTime" json:"window_updated_at"`
}

func (AvailabilityWindow) TableName() string { return "availability_windows" }

// AvailabilityBlackout removes a concrete date range from the calendar.
type AvailabilityBlackout struct {
	BlackoutID uuid.UUID `gorm:"column:blackout_id;type:uuid;default:gen_random_uuid();primaryKey" json:"blackout_id"`

	BlackoutTutorID uuid.UUID `gorm:"column:blackout_tutor_id;type:uuid;not null;index" json:"blackout_tutor_id"`

	BlackoutStart  time.Time `gorm:"column:blackout_start;not null" json:"blackout_start"`
	BlackoutEnd    time.Time `gorm:"column:blackout_end;not null" json:"blackout_end"`
	BlackoutReason string    `gorm:"column:blackout_reason;type:varchar(200);not null;default:''" json:"blackout_reason"`
	BlackoutActive bool      `gorm:"column:blackout_active;not null;default:true" json:"blackout_active"`

	CreatedAt time.Time `gorm:"column:blackout_created_at;autoCreateTime" json:"blackout_created_at"`
	UpdatedAt time.Time `gorm:"column:blackout_updated_at;autoUpdateTime" json:"blackout_updated_at"`
}

func (AvailabilityBlackout) TableName() string { return "availability_blackouts" }

/* =========================================================
   Calendar — pure booking-rule evaluation
========================================================= */

const SlotStepMinutes = 30

// Calendar bundles one tutor's full availability picture for rule checks.
type Calendar struct {
	Profile   AvailabilityProfile
	Windows   []AvailabilityWindow
	Blackouts []AvailabilityBlackout
}

func parseClock(s string) (h, m int, err error) {
	if _, err = fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("bad clock value %q: %w", s, err)
	}
	return h, m, nil
}

// clockMinutes converts a UTC instant to minutes past midnight.
func clockMinutes(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

func (c *Calendar) allowsDuration(durationMinutes int) bool {
	if len(c.Profile.AvailabilitySessionDurations) == 0 {
		return true
	}
	for _, d := range c.Profile.AvailabilitySessionDurations {
		if int(d) == durationMinutes {
			return true
		}
	}
	return false
}

// IsAvailable reports whether a session of the given length may start at the
// given instant: bookings open, notice and advance bounds respected, duration
// offered, the whole span inside one enabled window, and no active blackout
// overlapping it (half-open comparison on both sides).
func (c *Calendar) IsAvailable(now, at time.Time, durationMinutes int) bool {
	if !c.Profile.AvailabilityIsAcceptingBookings {
		return false
	}
	if durationMinutes <= 0 || !c.allowsDuration(durationMinutes) {
		return false
	}

	now, at = now.UTC(), at.UTC()
	if at.Before(now.Add(time.Duration(c.Profile.AvailabilityMinimumNoticeHours) * time.Hour)) {
		return false
	}
	if at.After(now.AddDate(0, 0, c.Profile.AvailabilityMaximumAdvanceDays)) {
		return false
	}

	end := at.Add(time.Duration(durationMinutes) * time.Minute)

	startMin := clockMinutes(at)
	endMin := startMin + durationMinutes
	inWindow := false
	for _, w := range c.Windows {
		if !w.WindowEnabled || w.WindowWeekday != int(at.Weekday()) {
			continue
		}
		wh, wm, err := parseClock(w.WindowStartTime)
		if err != nil {
			continue
		}
		eh, em, err := parseClock(w.WindowEndTime)
		if err != nil {
			continue
		}
		if startMin >= wh*60+wm && endMin <= eh*60+em {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return false
	}

	for _, b := range c.Blackouts {
		if !b.BlackoutActive {
			continue
		}
		if b.BlackoutStart.Before(end) && b.BlackoutEnd.After(at) {
			return false
		}
	}
	return true
}

// Slots enumerates the bookable start times on one calendar date for the
// given duration, stepping every 30 minutes across the day's windows.
func (c *Calendar) Slots(now, date time.Time, durationMinutes int) []time.Time {
	date = date.UTC()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	slots := []time.Time{}
	for _, w := range c.Windows {
		if !w.WindowEnabled || w.WindowWeekday != int(day.Weekday()) {
			continue
		}
		wh, wm, err := parseClock(w.WindowStartTime)
		if err != nil {
			continue
		}
		eh, em, err := parseClock(w.WindowEndTime)
		if err != nil {
			continue
		}
		for cur := wh*60 + wm; cur+durationMinutes <= eh*60+em; cur += SlotStepMinutes {
			start := day.Add(time.Duration(cur) * time.Minute)
			if c.IsAvailable(now, start, durationMinutes) {
				slots = append(slots, start)
			}
		}
	}
	return slots
}
