package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/availability/model"
)

var (
	ErrWindowNotOwned   = errors.New("availability window does not belong to this tutor")
	ErrBlackoutNotOwned = errors.New("blackout does not belong to this tutor")
	ErrBadClockRange    = errors.New("window end must be after window start")
)

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

/* =========================================================
   Profile
========================================================= */

// EnsureProfile returns the tutor's booking policy, creating the default one
// on first touch: 2h notice, 30 days advance, 30/60/90/120 minute sessions,
// Mon-Fri 09:00-17:00 windows enabled.
func (s *AvailabilityService) EnsureProfile(tx *gorm.DB, tutorID uuid.UUID) (*model.AvailabilityProfile, error) {
	var profile model.AvailabilityProfile
	err := tx.First(&profile, "availability_tutor_id = ?", tutorID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = model.AvailabilityProfile{
		AvailabilityTutorID:             tutorID,
		AvailabilityMinimumNoticeHours:  2,
		AvailabilityMaximumAdvanceDays:  30,
		AvailabilitySessionDurations:    pq.Int64Array{30, 60, 90, 120},
		AvailabilityIsAcceptingBookings: true,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}

	windows := make([]model.AvailabilityWindow, 0, 7)
	for weekday := 0; weekday <= 6; weekday++ {
		enabled := weekday >= 1 && weekday <= 5
		windows = append(windows, model.AvailabilityWindow{
			WindowTutorID:   tutorID,
			WindowWeekday:   weekday,
			WindowStartTime: "09:00",
			WindowEndTime:   "17:00",
			WindowEnabled:   enabled,
		})
	}
	if err := tx.Create(&windows).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadCalendar gathers the tutor's full availability picture.
func (s *AvailabilityService) LoadCalendar(tx *gorm.DB, tutorID uuid.UUID) (*model.Calendar, error) {
	profile, err := s.EnsureProfile(tx, tutorID)
	if err != nil {
		return nil, err
	}

	var windows []model.AvailabilityWindow
	if err := tx.
		Where("window_tutor_id = ?", tutorID).
		Order("window_weekday ASC, window_start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}

	var blackouts []model.AvailabilityBlackout
	if err := tx.
		Where("blackout_tutor_id = ? AND blackout_active = TRUE", tutorID).
		Find(&blackouts).Error; err != nil {
		return nil, err
	}

	return &model.Calendar{Profile: *profile, Windows: windows, Blackouts: blackouts}, nil
}

type ProfileUpdate struct {
	MinimumNoticeHours  *int
	MaximumAdvanceDays  *int
	SessionDurations    []int64
	IsAcceptingBookings *bool
}

func (s *AvailabilityService) UpdateProfile(tutorID uuid.UUID, in ProfileUpdate) (*model.AvailabilityProfile, error) {
	profile, err := s.EnsureProfile(s.DB, tutorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.MinimumNoticeHours != nil {
		updates["availability_minimum_notice_hours"] = *in.MinimumNoticeHours
	}
	if in.MaximumAdvanceDays != nil {
		updates["availability_maximum_advance_days"] = *in.MaximumAdvanceDays
	}
	if in.SessionDurations != nil {
		updates["availability_session_durations"] = pq.Int64Array(in.SessionDurations)
	}
	if in.IsAcceptingBookings != nil {
		updates["availability_is_accepting_bookings"] = *in.IsAcceptingBookings
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.DB.Model(profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	return profile, s.DB.First(profile, "availability_id = ?", profile.AvailabilityID).Error
}

/* =========================================================
   Windows
========================================================= */

func validateClockRange(start, end string) error {
	var sh, sm, eh, em int
	if _, err := fmt.Sscanf(start, "%02d:%02d", &sh, &sm); err != nil {
		return fmt.Errorf("bad start time %q", start)
	}
	if _, err := fmt.Sscanf(end, "%02d:%02d", &eh, &em); err != nil {
		return fmt.Errorf("bad end time %q", end)
	}
	if eh*60+em <= sh*60+sm {
		return ErrBadClockRange
	}
	return nil
}

func (s *AvailabilityService) UpsertWindow(tutorID uuid.UUID, weekday int, start, end string, enabled bool) (*model.AvailabilityWindow, error) {
	if err := validateClockRange(start, end); err != nil {
		return nil, err
	}
	if _, err := s.EnsureProfile(s.DB, tutorID); err != nil {
		return nil, err
	}

	var window model.AvailabilityWindow
	err := s.DB.First(&window,
		"window_tutor_id = ? AND window_weekday = ? AND window_start_time = ?",
		tutorID, weekday, start).Error
	switch {
	case err == nil:
		window.WindowEndTime = end
		window.WindowEnabled = enabled
		return &window, s.DB.Save(&window).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		window = model.AvailabilityWindow{
			WindowTutorID:   tutorID,
			WindowWeekday:   weekday,
			WindowStartTime: start,
			WindowEndTime:   end,
			WindowEnabled:   enabled,
		}
		return &window, s.DB.Create(&window).Error
	default:
		return nil, err
	}
}

func (s *AvailabilityService) DeleteWindow(tutorID, windowID uuid.UUID) error {
	var window model.AvailabilityWindow
	if err := s.DB.First(&window, "window_id = ?", windowID).Error; err != nil {
		return err
	}
	if window.WindowTutorID != tutorID {
		return ErrWindowNotOwned
	}
	return s.DB.Delete(&window).Error
}

/* =========================================================
   Blackouts
========================================================= */

func (s *AvailabilityService) AddBlackout(tutorID uuid.UUID, start, end time.Time, reason string) (*model.AvailabilityBlackout, error) {
	if !end.After(start) {
		return nil, ErrBadClockRange
	}
	if _, err := s.EnsureProfile(s.DB, tutorID); err != nil {
		return nil, err
	}

	blackout := model.AvailabilityBlackout{
		BlackoutTutorID: tutorID,
		BlackoutStart:   start.UTC(),
		BlackoutEnd:     end.UTC(),
		BlackoutReason:  reason,
		BlackoutActive:  true,
	}
	return &blackout, s.DB.Create(&blackout).Error
}

func (s *AvailabilityService) RemoveBlackout(tutorID, blackoutID uuid.UUID) error {
	var blackout model.AvailabilityBlackout
	if err := s.DB.First(&blackout, "blackout_id = ?", blackoutID).Error; err != nil {
		return err
	}
	if blackout.BlackoutTutorID != tutorID {
		return ErrBlackoutNotOwned
	}
	return s.DB.Model(&blackout).Update("blackout_active", false).Error
}
