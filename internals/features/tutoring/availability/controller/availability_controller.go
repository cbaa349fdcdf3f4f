package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/availability/dto"
	svc "tutorlink_backend/internals/features/tutoring/availability/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
)

type AvailabilityController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.AvailabilityService
}

func NewAvailabilityController(db *gorm.DB, service *svc.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
	}
}

func (h *AvailabilityController) tutorProfile(c *fiber.Ctx) (*usermodel.TutorProfile, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var tutor usermodel.TutorProfile
	if err := h.DB.WithContext(c.Context()).
		First(&tutor, "tutor_user_id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Tutor profile not found")
	}
	return &tutor, nil
}

/* =========================================================
   Tutor-owned settings
========================================================= */

// GET /api/u/tutor/availability
func (h *AvailabilityController) GetMyAvailability(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	cal, err := h.Service.LoadCalendar(h.DB.WithContext(c.Context()), tutor.TutorProfileID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Availability fetched", fiber.Map{
		"profile":   cal.Profile,
		"windows":   cal.Windows,
		"blackouts": cal.Blackouts,
	})
}

// PATCH /api/u/tutor/availability
func (h *AvailabilityController) UpdateMyAvailability(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	profile, err := h.Service.UpdateProfile(tutor.TutorProfileID, svc.ProfileUpdate{
		MinimumNoticeHours:  req.MinimumNoticeHours,
		MaximumAdvanceDays:  req.MaximumAdvanceDays,
		SessionDurations:    req.SessionDurations,
		IsAcceptingBookings: req.IsAcceptingBookings,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Availability updated", profile)
}

// PUT /api/u/tutor/availability/windows
func (h *AvailabilityController) UpsertWindow(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	var req dto.UpsertWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	window, err := h.Service.UpsertWindow(tutor.TutorProfileID, req.Weekday, req.StartTime, req.EndTime, req.Enabled)
	if err != nil {
		if errors.Is(err, svc.ErrBadClockRange) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Window saved", window)
}

// DELETE /api/u/tutor/availability/windows/:id
func (h *AvailabilityController) DeleteWindow(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	windowID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Service.DeleteWindow(tutor.TutorProfileID, windowID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Window not found")
		case errors.Is(err, svc.ErrWindowNotOwned):
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this window")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Window deleted", nil)
}

// POST /api/u/tutor/availability/blackouts
func (h *AvailabilityController) AddBlackout(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	var req dto.AddBlackoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	blackout, err := h.Service.AddBlackout(tutor.TutorProfileID, req.Start, req.End, req.Reason)
	if err != nil {
		if errors.Is(err, svc.ErrBadClockRange) {
			return fiber.NewError(fiber.StatusBadRequest, "blackout end must be after start")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Blackout added", blackout)
}

// DELETE /api/u/tutor/availability/blackouts/:id
func (h *AvailabilityController) RemoveBlackout(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	blackoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Service.RemoveBlackout(tutor.TutorProfileID, blackoutID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Blackout not found")
		case errors.Is(err, svc.ErrBlackoutNotOwned):
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this blackout")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Blackout removed", nil)
}

/* =========================================================
   Public slot lookup
========================================================= */

// GET /api/u/tutors/:id/slots?date=2026-09-01&duration=60
func (h *AvailabilityController) GetTutorSlots(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutor id")
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	duration, err := strconv.Atoi(c.Query("duration", "60"))
	if err != nil || duration <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid duration")
	}

	var tutor usermodel.TutorProfile
	if err := h.DB.WithContext(c.Context()).
		Select("tutor_profile_id").
		First(&tutor, "tutor_profile_id = ?", tutorID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Tutor not found")
	}

	cal, err := h.Service.LoadCalendar(h.DB.WithContext(c.Context()), tutorID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC()
	return helper.Success(c, "Slots fetched", dto.SlotsResponse{
		TutorID:         tutorID,
		Date:            date.Format("2006-01-02"),
		DurationMinutes: duration,
		Slots:           cal.Slots(now, date, duration),
	})
}
