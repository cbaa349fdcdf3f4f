package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/catalog/model"
	helper "tutorlink_backend/internals/helpers"
)

type LookupController struct {
	DB *gorm.DB
}

func NewLookupController(db *gorm.DB) *LookupController {
	return &LookupController{DB: db}
}

// GET /api/u/subjects
func (h *LookupController) GetSubjects(c *fiber.Ctx) error {
	var subjects []model.Subject
	if err := h.DB.WithContext(c.Context()).
		Where("subject_is_active = TRUE").
		Order("subject_name ASC").
		Find(&subjects).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Subjects fetched", subjects)
}

// GET /api/u/education-levels
func (h *LookupController) GetEducationLevels(c *fiber.Ctx) error {
	var levels []model.EducationLevel
	if err := h.DB.WithContext(c.Context()).
		Where("education_level_is_active = TRUE").
		Order("education_level_name ASC").
		Find(&levels).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Education levels fetched", levels)
}
