package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/reviews/dto"
	svc "tutorlink_backend/internals/features/tutoring/reviews/service"
	helper "tutorlink_backend/internals/helpers"
)

type ReviewController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.ReviewService
}

func NewReviewController(db *gorm.DB, service *svc.ReviewService) *ReviewController {
	return &ReviewController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
	}
}

// PUT /api/u/reviews — create or update the caller's review of a tutor.
func (h *ReviewController) UpsertReview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role := helper.GetRoleFromToken(c)

	var req dto.UpsertReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	review, err := h.Service.UpsertReview(userID, req.TutorID, role, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrNoHireRelationship):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, svc.ErrUnknownReviewer):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Reviewer profile not found")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Review saved", dto.FromModel(review))
}

// GET /api/u/tutors/:id/reviews
func (h *ReviewController) GetTutorReviews(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutor id")
	}
	reviews, err := h.Service.ListForTutor(tutorID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.FromModel(&reviews[i]))
	}
	return helper.Success(c, "Reviews fetched", out)
}
