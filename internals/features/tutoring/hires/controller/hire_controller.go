package controller

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/hires/dto"
	"tutorlink_backend/internals/features/tutoring/hires/model"
	svc "tutorlink_backend/internals/features/tutoring/hires/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
	"tutorlink_backend/internals/services/mailer"
)

type HireController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.HireService
	Mailer    mailer.Mailer
}

func NewHireController(db *gorm.DB, service *svc.HireService, m mailer.Mailer) *HireController {
	return &HireController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
		Mailer:    m,
	}
}

/* =========================================================
   Student endpoints
========================================================= */

// POST /api/u/hires
func (h *HireController) RequestHire(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var profile usermodel.StudentProfile
	if err := h.DB.WithContext(c.Context()).
		First(&profile, "student_user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Student profile not found")
	}

	var req dto.RequestHireRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hire, err := h.Service.RequestHire(profile.StudentProfileID, req.TutorID, req.SubjectID, req.AcademicLevelID)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrHireAlreadyOpen):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, svc.ErrLevelNotOffered):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	h.notifyTutor(hire)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Hire request sent", dto.FromModel(hire))
}

// GET /api/u/hires
func (h *HireController) GetMyHires(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var profile usermodel.StudentProfile
	if err := h.DB.WithContext(c.Context()).
		First(&profile, "student_user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Student profile not found")
	}

	var hires []model.HireRequest
	if err := h.DB.WithContext(c.Context()).
		Where("hire_student_id = ?", profile.StudentProfileID).
		Order("hire_created_at DESC").
		Find(&hires).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.HireResponse, 0, len(hires))
	for i := range hires {
		out = append(out, dto.FromModel(&hires[i]))
	}
	return helper.Success(c, "Hire requests fetched", out)
}

/* =========================================================
   Tutor endpoints
========================================================= */

// GET /api/u/tutor/hires
func (h *HireController) GetIncomingHires(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}

	status := c.Query("status")
	q := h.DB.WithContext(c.Context()).
		Where("hire_tutor_id = ?", tutor.TutorProfileID)
	if status != "" {
		q = q.Where("hire_status = ?", status)
	}

	var hires []model.HireRequest
	if err := q.Order("hire_created_at DESC").Find(&hires).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.HireResponse, 0, len(hires))
	for i := range hires {
		out = append(out, dto.FromModel(&hires[i]))
	}
	return helper.Success(c, "Hire requests fetched", out)
}

// PATCH /api/u/tutor/hires/:id
func (h *HireController) RespondToHire(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	hireID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RespondHireRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hire, err := h.Service.RespondToHire(hireID, tutor.TutorProfileID, req.Action == "accept")
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Hire request not found")
		case errors.Is(err, svc.ErrHireNotOwned):
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this hire request")
		case errors.Is(err, svc.ErrHireAlreadyDecided):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	h.notifyStudent(hire)
	return helper.Success(c, "Hire request updated", dto.FromModel(hire))
}

/* =========================================================
   Internals
========================================================= */

func (h *HireController) tutorProfile(c *fiber.Ctx) (*usermodel.TutorProfile, error) {
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

func (h *HireController) notifyTutor(hire *model.HireRequest) {
	var tutor usermodel.TutorProfile
	if err := h.DB.First(&tutor, "tutor_profile_id = ?", hire.HireTutorID).Error; err != nil {
		return
	}
	var user usermodel.User
	if err := h.DB.First(&user, "user_id = ?", tutor.TutorUserID).Error; err != nil {
		return
	}
	h.Mailer.Send(mailer.Message{
		To:      []string{user.UserEmail},
		Subject: "New hire request",
		HTML:    "<p>You have a new hire request waiting for your response.</p>",
	})
}

func (h *HireController) notifyStudent(hire *model.HireRequest) {
	var profile usermodel.StudentProfile
	if err := h.DB.First(&profile, "student_profile_id = ?", hire.HireStudentID).Error; err != nil {
		return
	}
	var user usermodel.User
	if err := h.DB.First(&user, "user_id = ?", profile.StudentUserID).Error; err != nil {
		return
	}
	h.Mailer.Send(mailer.Message{
		To:      []string{user.UserEmail},
		Subject: "Hire request " + hire.HireStatus,
		HTML:    fmt.Sprintf("<p>Your hire request has been %s.</p>", hire.HireStatus),
	})
}
