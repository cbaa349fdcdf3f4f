package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorlink_backend/internals/features/tutoring/reviews/model"
)

type UpsertReviewRequest struct {
	TutorID uuid.UUID `json:"tutor_id" validate:"required"`
	Rating  float64   `json:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type ReviewResponse struct {
	ReviewID           uuid.UUID `json:"review_id"`
	ReviewTutorID      uuid.UUID `json:"review_tutor_id"`
	ReviewReviewerID   uuid.UUID `json:"review_reviewer_id"`
	ReviewReviewerRole string    `json:"review_reviewer_role"`
	ReviewRating       float64   `json:"review_rating"`
	ReviewComment      string    `json:"review_comment,omitempty"`
	CreatedAt          time.Time `json:"review_created_at"`
	UpdatedAt          time.Time `json:"review_updated_at"`
}

func FromModel(r *model.TutorReview) ReviewResponse {
	return ReviewResponse{
		ReviewID:           r.ReviewID,
		ReviewTutorID:      r.ReviewTutorID,
		ReviewReviewerID:   r.ReviewReviewerID,
		ReviewReviewerRole: r.ReviewReviewerRole,
		ReviewRating:       r.ReviewRating,
		ReviewComment:      r.ReviewComment,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
