package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/users/user/dto"
	"tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
)

/* =======================================================================
   Tutor profile settings and the public tutor catalog. The per-level terms
   managed here are the source of rate, discount and session cap for
   entitlement issuance and scheduling.
======================================================================= */

type TutorController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTutorController(db *gorm.DB) *TutorController {
	return &TutorController{DB: db, Validator: validator.New()}
}

func (h *TutorController) myProfile(c *fiber.Ctx) (*model.TutorProfile, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var tutor model.TutorProfile
	if err := h.DB.WithContext(c.Context()).
		First(&tutor, "tutor_user_id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Tutor profile not found")
	}
	return &tutor, nil
}

/* =========================================================
   Own profile
========================================================= */

// PATCH /api/u/tutor/profile
func (h *TutorController) UpdateMyProfile(c *fiber.Ctx) error {
	tutor, err := h.myProfile(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["tutor_bio"] = *req.Bio
	}
	if req.Qualifications != nil {
		updates["tutor_qualifications"] = *req.Qualifications
	}
	if req.ExperienceYears != nil {
		updates["tutor_experience_years"] = *req.ExperienceYears
	}
	if req.Location != nil {
		updates["tutor_location"] = *req.Location
	}
	if len(updates) > 0 {
		if err := h.DB.WithContext(c.Context()).Model(tutor).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Profile updated", tutor)
}

/* =========================================================
   Per-level terms
========================================================= */

// PUT /api/u/tutor/levels — upsert terms for one education level.
func (h *TutorController) UpsertLevelTerms(c *fiber.Ctx) error {
	tutor, err := h.myProfile(c)
	if err != nil {
		return err
	}

	var req dto.UpsertLevelTermsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var terms model.TutorAcademicLevel
	err = h.DB.WithContext(c.Context()).
		First(&terms, "level_tutor_id = ? AND level_education_level_id = ?",
			tutor.TutorProfileID, req.EducationLevelID).Error
	switch {
	case err == nil:
		terms.LevelHourlyRate = req.HourlyRate
		terms.LevelTotalSessionsPerMonth = req.TotalSessionsPerMonth
		terms.LevelDiscount = req.Discount
		terms.LevelMonthlyRate = req.MonthlyRate
		if err := h.DB.WithContext(c.Context()).Save(&terms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		terms = model.TutorAcademicLevel{
			LevelTutorID:               tutor.TutorProfileID,
			LevelEducationLevelID:      req.EducationLevelID,
			LevelHourlyRate:            req.HourlyRate,
			LevelTotalSessionsPerMonth: req.TotalSessionsPerMonth,
			LevelDiscount:              req.Discount,
			LevelMonthlyRate:           req.MonthlyRate,
		}
		if err := h.DB.WithContext(c.Context()).Create(&terms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Level terms saved", terms)
}

// GET /api/u/tutor/levels
func (h *TutorController) GetMyLevelTerms(c *fiber.Ctx) error {
	tutor, err := h.myProfile(c)
	if err != nil {
		return err
	}
	var terms []model.TutorAcademicLevel
	if err := h.DB.WithContext(c.Context()).
		Where("level_tutor_id = ?", tutor.TutorProfileID).
		Find(&terms).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Level terms fetched", terms)
}

// DELETE /api/u/tutor/levels/:id
func (h *TutorController) DeleteLevelTerms(c *fiber.Ctx) error {
	tutor, err := h.myProfile(c)
	if err != nil {
		return err
	}
	levelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.DB.WithContext(c.Context()).
		Where("level_id = ? AND level_tutor_id = ?", levelID, tutor.TutorProfileID).
		Delete(&model.TutorAcademicLevel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Level terms not found")
	}
	return helper.Success(c, "Level terms deleted", nil)
}

/* =========================================================
   Public catalog
========================================================= */

// GET /api/u/tutors — browse approved tutors with their published terms.
func (h *TutorController) ListTutors(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).Model(&model.TutorProfile{}).
		Where("tutor_profile_status = ?", model.TutorStatusApproved)
	if location := c.Query("location"); location != "" {
		q = q.Where("tutor_location ILIKE ?", "%"+location+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var tutors []model.TutorProfile
	if err := q.Preload("Levels").
		Order("tutor_average_rating DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&tutors).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Tutors fetched", fiber.Map{
		"data":       tutors,
		"pagination": helper.BuildPagination(total, paging, len(tutors)),
	})
}

// GET /api/u/tutors/:id
func (h *TutorController) GetTutor(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutor id")
	}
	var tutor model.TutorProfile
	if err := h.DB.WithContext(c.Context()).Preload("Levels").
		First(&tutor, "tutor_profile_id = ?", tutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Tutor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Tutor fetched", tutor)
}
