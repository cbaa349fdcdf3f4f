package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	hiremodel "tutorlink_backend/internals/features/tutoring/hires/model"
	"tutorlink_backend/internals/features/tutoring/reviews/model"
	usermodel "tutorlink_backend/internals/features/users/user/model"
)

var (
	ErrNoHireRelationship = errors.New("no accepted hire relationship with this tutor")
	ErrUnknownReviewer    = errors.New("reviewer must be a student or a parent")
)

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

// UpsertReview creates or updates the reviewer's review of a tutor, then
// recomputes the tutor's published average. A student must have an accepted
// hire with the tutor; a parent qualifies through any of their children.
func (s *ReviewService) UpsertReview(reviewerUserID, tutorID uuid.UUID, role string, rating float64, comment string) (*model.TutorReview, error) {
	if err := s.checkRelationship(reviewerUserID, tutorID, role); err != nil {
		return nil, err
	}

	var review model.TutorReview
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&review,
			"review_reviewer_id = ? AND review_tutor_id = ?", reviewerUserID, tutorID).Error
		switch {
		case err == nil:
			review.ReviewRating = rating
			review.ReviewComment = comment
			review.UpdatedAt = time.Now().UTC()
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = model.TutorReview{
				ReviewTutorID:      tutorID,
				ReviewReviewerID:   reviewerUserID,
				ReviewReviewerRole: role,
				ReviewRating:       rating,
				ReviewComment:      comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return s.refreshTutorAverage(tx, tutorID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForTutor returns a tutor's reviews, newest first.
func (s *ReviewService) ListForTutor(tutorID uuid.UUID) ([]model.TutorReview, error) {
	var reviews []model.TutorReview
	err := s.DB.
		Where("review_tutor_id = ?", tutorID).
		Order("review_created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) checkRelationship(reviewerUserID, tutorID uuid.UUID, role string) error {
	switch role {
	case model.ReviewerRoleStudent:
		var profile usermodel.StudentProfile
		if err := s.DB.First(&profile, "student_user_id = ?", reviewerUserID).Error; err != nil {
			return err
		}
		return s.requireAcceptedHire(tutorID, profile.StudentProfileID)
	case model.ReviewerRoleParent:
		var parent usermodel.ParentProfile
		if err := s.DB.First(&parent, "parent_user_id = ?", reviewerUserID).Error; err != nil {
			return err
		}
		var children []usermodel.StudentProfile
		if err := s.DB.
			Where("student_parent_id = ?", parent.ParentProfileID).
			Find(&children).Error; err != nil {
			return err
		}
		for _, child := range children {
			if err := s.requireAcceptedHire(tutorID, child.StudentProfileID); err == nil {
				return nil
			}
		}
		return ErrNoHireRelationship
	default:
		return ErrUnknownReviewer
	}
}

func (s *ReviewService) requireAcceptedHire(tutorID, studentID uuid.UUID) error {
	var count int64
	if err := s.DB.Model(&hiremodel.HireRequest{}).
		Where("hire_student_id = ? AND hire_tutor_id = ? AND hire_status = ?",
			studentID, tutorID, hiremodel.HireStatusAccepted).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNoHireRelationship
	}
	return nil
}

// refreshTutorAverage recomputes the profile-level mean of all review
// ratings for the tutor.
func (s *ReviewService) refreshTutorAverage(tx *gorm.DB, tutorID uuid.UUID) error {
	var reviews []model.TutorReview
	if err := tx.
		Where("review_tutor_id = ?", tutorID).
		Find(&reviews).Error; err != nil {
		return err
	}
	return tx.Model(&usermodel.TutorProfile{}).
		Where("tutor_profile_id = ?", tutorID).
		Update("tutor_average_rating", model.MeanRating(reviews)).Error
}
