package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	entsvc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	"tutorlink_backend/internals/features/tutoring/hires/model"
	usermodel "tutorlink_backend/internals/features/users/user/model"
)

var (
	ErrHireAlreadyOpen    = errors.New("a pending or accepted hire request already exists for this tutor")
	ErrHireAlreadyDecided = errors.New("hire request has already been decided")
	ErrHireNotOwned       = errors.New("hire request does not belong to this tutor")
	ErrLevelNotOffered    = errors.New("tutor does not offer this academic level")
)

type HireService struct {
	DB           *gorm.DB
	Entitlements *entsvc.EntitlementService
}

func NewHireService(db *gorm.DB, entitlements *entsvc.EntitlementService) *HireService {
	return &HireService{DB: db, Entitlements: entitlements}
}

/* =========================================================
   Student side
========================================================= */

// RequestHire opens (or reopens) a hire request against a tutor. A pending or
// accepted request for the pair blocks a new one; a rejected request is
// resubmitted in place rather than duplicated.
func (s *HireService) RequestHire(studentID, tutorID, subjectID, levelID uuid.UUID) (*model.HireRequest, error) {
	// The level must be one the tutor has published terms for.
	var terms usermodel.TutorAcademicLevel
	if err := s.DB.
		First(&terms, "level_tutor_id = ? AND level_education_level_id = ?", tutorID, levelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotOffered
		}
		return nil, err
	}

	var hire model.HireRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.HireRequest
		err := tx.
			Where("hire_student_id = ? AND hire_tutor_id = ?", studentID, tutorID).
			Order("hire_created_at DESC").
			First(&existing).Error
		switch {
		case err == nil:
			if model.DispositionFor(&existing) != model.RequestResubmit {
				return ErrHireAlreadyOpen
			}
			// Resubmit in place: same row, back to pending with fresh terms.
			// Stale duplicates for the pair (historical data drift) are purged.
			if err := tx.
				Where("hire_student_id = ? AND hire_tutor_id = ? AND hire_id <> ?",
					studentID, tutorID, existing.HireID).
				Delete(&model.HireRequest{}).Error; err != nil {
				return err
			}
			existing.Resubmit(subjectID, levelID, time.Now().UTC())
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			hire = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			hire = model.HireRequest{
				HireStudentID:       studentID,
				HireTutorID:         tutorID,
				HireSubjectID:       subjectID,
				HireAcademicLevelID: levelID,
				HireStatus:          model.HireStatusPending,
				HireRequestedAt:     time.Now().UTC(),
			}
			return tx.Create(&hire).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &hire, nil
}

/* =========================================================
   Tutor side
========================================================= */

// RespondToHire decides a pending request. Accepting issues a pending
// entitlement from the tutor's published terms in the same transaction; an
// already-existing entitlement for the tuple is tolerated rather than
// failing the acceptance.
func (s *HireService) RespondToHire(hireID, tutorID uuid.UUID, accept bool) (*model.HireRequest, error) {
	var hire model.HireRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&hire, "hire_id = ?", hireID).Error; err != nil {
			return err
		}
		if hire.HireTutorID != tutorID {
			return ErrHireNotOwned
		}
		if !hire.CanDecide() {
			return ErrHireAlreadyDecided
		}

		hire.Decide(accept)
		if err := tx.Save(&hire).Error; err != nil {
			return err
		}
		if !accept {
			return nil
		}

		var terms usermodel.TutorAcademicLevel
		if err := tx.First(&terms,
			"level_tutor_id = ? AND level_education_level_id = ?",
			hire.HireTutorID, hire.HireAcademicLevelID).Error; err != nil {
			return err
		}

		_, err := s.Entitlements.IssueForHire(tx,
			hire.HireStudentID, hire.HireTutorID,
			hire.HireSubjectID, hire.HireAcademicLevelID,
			terms, "Issued on hire acceptance")
		if err != nil && !errors.Is(err, entsvc.ErrDuplicateActive) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &hire, nil
}

/* =========================================================
   Gate check
========================================================= */

// HasAcceptedHire reports whether the student↔tutor relationship is open.
func (s *HireService) HasAcceptedHire(tx *gorm.DB, studentID, tutorID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.HireRequest{}).
		Where("hire_student_id = ? AND hire_tutor_id = ? AND hire_status = ?",
			studentID, tutorID, model.HireStatusAccepted).
		Count(&count).Error
	return count > 0, err
}
