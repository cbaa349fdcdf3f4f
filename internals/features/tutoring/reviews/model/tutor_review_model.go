package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewerRoleStudent = "student"
	ReviewerRoleParent  = "parent"
)

// TutorReview is a standalone review, not tied to any session. One row per
// (reviewer, tutor); re-reviewing updates in place.
type TutorReview struct {
	ReviewID uuid.UUID `gorm:"column:review_id;type:uuid;default:gen_random_uuid();primaryKey" json:"review_id"`

	ReviewTutorID    uuid.UUID `gorm:"column:review_tutor_id;type:uuid;not null;index:idx_review_reviewer_tutor,unique" json:"review_tutor_id"`
	ReviewReviewerID uuid.UUID `gorm:"column:review_reviewer_id;type:uuid;not null;index:idx_review_reviewer_tutor,unique" json:"review_reviewer_id"`

	ReviewReviewerRole string `gorm:"column:review_reviewer_role;type:varchar(16);not null" json:"review_reviewer_role"`

	ReviewRating  float64 `gorm:"column:review_rating;not null;check:review_rating >= 1 AND review_rating <= 5" json:"review_rating"`
	ReviewComment string  `gorm:"column:review_comment;type:text;not null;default:''" json:"review_comment"`

	CreatedAt time.Time      `gorm:"column:review_created_at;autoCreateTime" json:"review_created_at"`
	UpdatedAt time.Time      `gorm:"column:review_updated_at;autoUpdateTime" json:"review_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:review_deleted_at;index" json:"review_deleted_at,omitempty"`
}

func (TutorReview) TableName() string { return "tutor_reviews" }

// MeanRating folds review ratings into the published figure, one decimal.
func MeanRating(reviews []TutorReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reviews {
		sum += r.ReviewRating
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}
