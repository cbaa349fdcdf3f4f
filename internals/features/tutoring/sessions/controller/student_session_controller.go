package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/sessions/dto"
	"tutorlink_backend/internals/features/tutoring/sessions/model"
	svc "tutorlink_backend/internals/features/tutoring/sessions/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
)

/* =======================================================================
   Student-side session endpoints: respond, propose, rate.
======================================================================= */

type StudentSessionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.SessionService
}

func NewStudentSessionController(db *gorm.DB, service *svc.SessionService) *StudentSessionController {
	return &StudentSessionController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
	}
}

func (h *StudentSessionController) studentProfile(c *fiber.Ctx) (*usermodel.StudentProfile, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var profile usermodel.StudentProfile
	if err := h.DB.WithContext(c.Context()).
		First(&profile, "student_user_id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student profile not found")
	}
	return &profile, nil
}

// GET /api/u/sessions
func (h *StudentSessionController) GetMySessions(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}

	var memberships []model.SessionStudent
	if err := h.DB.WithContext(c.Context()).
		Where("participant_student_id = ?", profile.StudentProfileID).
		Find(&memberships).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if len(memberships) == 0 {
		return helper.Success(c, "Sessions fetched", []dto.SessionResponse{})
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.ParticipantSessionID)
	}

	var sessions []model.Session
	if err := h.DB.WithContext(c.Context()).
		Preload("Students").
		Where("session_id IN ?", ids).
		Order("session_date DESC").
		Find(&sessions).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.FromModel(&sessions[i]))
	}
	return helper.Success(c, "Sessions fetched", out)
}

// PATCH /api/u/sessions/:id/respond
func (h *StudentSessionController) Respond(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := h.Service.Respond(sessionID, profile.StudentProfileID, req.Status, req.Note)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Response recorded", dto.FromModel(session))
}

// POST /api/u/sessions/:id/propose
func (h *StudentSessionController) ProposeTime(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.ProposeTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := h.Service.ProposeTime(sessionID, profile.StudentProfileID, req.ProposedDate)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Alternate time proposed", dto.FromModel(session))
}

// POST /api/u/sessions/:id/rate
func (h *StudentSessionController) RateSession(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := h.Service.Rate(sessionID, profile.StudentProfileID, req.Rating, req.Feedback)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Rating saved", dto.FromModel(session))
}
