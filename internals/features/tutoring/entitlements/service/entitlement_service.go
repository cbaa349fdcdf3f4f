package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
	usermodel "tutorlink_backend/internals/features/users/user/model"
)

var (
	ErrDuplicateActive = errors.New("an active entitlement already exists for this student, tutor, subject and level")
	ErrAlreadyPaid     = errors.New("entitlement is already paid")
	ErrNotExpired      = errors.New("entitlement is not expired")
	ErrNotOwned        = errors.New("entitlement does not belong to this student")
)

type EntitlementService struct {
	DB *gorm.DB
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{DB: db}
}

/* =========================================================
   Issue — side effect of hire acceptance
========================================================= */

// IssueForHire creates a pending entitlement from the tutor's published terms
// for the hired level. Rejected when an authorizing entitlement already
// exists for the same (student, tutor, subject, level) tuple.
func (s *EntitlementService) IssueForHire(
	tx *gorm.DB,
	studentID, tutorID, subjectID, levelID uuid.UUID,
	terms usermodel.TutorAcademicLevel,
	notes string,
) (*model.Entitlement, error) {
	var existing model.Entitlement
	err := tx.
		Where("entitlement_student_id = ? AND entitlement_tutor_id = ? AND entitlement_subject_id = ? AND entitlement_academic_level_id = ?",
			studentID, tutorID, subjectID, levelID).
		Where("entitlement_payment_status IN ?", []string{model.PaymentStatusPending, model.PaymentStatusPaid}).
		Where("entitlement_validity_status <> ?", model.ValidityStatusExpired).
		Order("entitlement_created_at DESC").
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateActive
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ent := model.Entitlement{
		EntitlementStudentID:          studentID,
		EntitlementTutorID:            tutorID,
		EntitlementSubjectID:          subjectID,
		EntitlementAcademicLevelID:    levelID,
		EntitlementPaymentType:        model.PaymentTypeMonthly,
		EntitlementBaseAmount:         terms.LevelHourlyRate,
		EntitlementDiscountPercentage: terms.LevelDiscount,
		EntitlementMonthlyAmount:      terms.LevelMonthlyRate,
		EntitlementTotalSessions:      terms.LevelTotalSessionsPerMonth,
		EntitlementSessionsRemaining:  0, // filled on activation
		EntitlementPaymentStatus:      model.PaymentStatusPending,
		EntitlementValidityStatus:     model.ValidityStatusPending,
		EntitlementRequestNotes:       notes,
		EntitlementCurrency:           "GBP",
	}
	if err := tx.Create(&ent).Error; err != nil {
		return nil, err
	}
	return &ent, nil
}

/* =========================================================
   Gateway-driven transitions
========================================================= */

// Activate is called when the gateway confirms payment. Idempotency guard:
// re-activating an already-paid entitlement is rejected. Opens the fixed
// 30-day validity window and refills the session credits.
func (s *EntitlementService) Activate(id uuid.UUID, gatewayTxID *string, gatewayPayload map[string]interface{}) (*model.Entitlement, error) {
	var ent model.Entitlement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ent, "entitlement_id = ?", id).Error; err != nil {
			return err
		}
		if ent.EntitlementPaymentStatus == model.PaymentStatusPaid {
			return ErrAlreadyPaid
		}

		now := time.Now().UTC()
		end := now.Add(model.ValidityDays * 24 * time.Hour)

		ent.EntitlementPaymentStatus = model.PaymentStatusPaid
		ent.EntitlementValidityStatus = model.ValidityStatusActive
		ent.EntitlementValidityStart = &now
		ent.EntitlementValidityEnd = &end
		ent.EntitlementSessionsRemaining = ent.EntitlementTotalSessions
		ent.EntitlementPaidAt = &now
		ent.EntitlementGatewayTransactionID = gatewayTxID
		if gatewayPayload != nil {
			ent.EntitlementGatewayResponse = gatewayPayload
		}
		return tx.Save(&ent).Error
	})
	if err != nil {
		return nil, err
	}
	return &ent, nil
}

// MarkFailed records a failed checkout. The entitlement stays issuable again
// through a new checkout attempt; nothing else changes.
func (s *EntitlementService) MarkFailed(id uuid.UUID, gatewayPayload map[string]interface{}) error {
	return s.markPaymentStatus(id, model.PaymentStatusFailed, gatewayPayload)
}

// MarkCancelled records a cancelled checkout.
func (s *EntitlementService) MarkCancelled(id uuid.UUID, gatewayPayload map[string]interface{}) error {
	return s.markPaymentStatus(id, model.PaymentStatusCancelled, gatewayPayload)
}

// MarkExpired handles a checkout-expiry signal from the gateway: the
// entitlement is deactivated outright.
func (s *EntitlementService) MarkExpired(id uuid.UUID, gatewayPayload map[string]interface{}) error {
	updates := map[string]interface{}{
		"entitlement_validity_status": model.ValidityStatusExpired,
	}
	if gatewayPayload != nil {
		updates["entitlement_gateway_response"] = datatypes.JSONMap(gatewayPayload)
	}
	return s.DB.Model(&model.Entitlement{}).
		Where("entitlement_id = ?", id).
		Updates(updates).Error
}

func (s *EntitlementService) markPaymentStatus(id uuid.UUID, status string, gatewayPayload map[string]interface{}) error {
	updates := map[string]interface{}{
		"entitlement_payment_status": status,
	}
	if gatewayPayload != nil {
		updates["entitlement_gateway_response"] = datatypes.JSONMap(gatewayPayload)
	}
	return s.DB.Model(&model.Entitlement{}).
		Where("entitlement_id = ? AND entitlement_payment_status <> ?", id, model.PaymentStatusPaid).
		Updates(updates).Error
}

/* =========================================================
   Renewal
========================================================= */

// Renew clones an expired entitlement into a fresh pending one with a full
// session count. Only legal when the source is expired; the original row is
// never mutated.
func (s *EntitlementService) Renew(id, studentID uuid.UUID) (*model.Entitlement, error) {
	var source model.Entitlement
	if err := s.DB.First(&source, "entitlement_id = ?", id).Error; err != nil {
		return nil, err
	}
	if source.EntitlementStudentID != studentID {
		return nil, ErrNotOwned
	}
	if source.EntitlementValidityStatus != model.ValidityStatusExpired {
		return nil, ErrNotExpired
	}

	renewal := source.BuildRenewal()
	renewal.EntitlementRequestNotes = "Renewal of " + source.EntitlementID.String()
	if err := s.DB.Create(&renewal).Error; err != nil {
		return nil, err
	}
	return &renewal, nil
}

/* =========================================================
   Consumption
========================================================= */

// Consume decrements one session credit with a floor at 0. The WHERE guard
// makes the decrement atomic and turns a consume on an exhausted entitlement
// into a silent no-op (tolerated edge case, kept from the observed behavior).
func (s *EntitlementService) Consume(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Entitlement{}).
		Where("entitlement_id = ? AND entitlement_sessions_remaining > 0", id).
		UpdateColumn("entitlement_sessions_remaining", gorm.Expr("entitlement_sessions_remaining - 1")).
		Error
}

/* =========================================================
   Lazy expiry
========================================================= */

// ReconcileExpiry flips a paid-and-active entitlement whose window has lapsed
// to expired. Idempotent; every read path that cares calls it before using
// the stored validity status. The write goes through the caller's tx so a
// reconcile inside a larger transaction stays atomic with its read.
func (s *EntitlementService) ReconcileExpiry(tx *gorm.DB, ent *model.Entitlement, now time.Time) error {
	if ent.EntitlementValidityStatus != model.ValidityStatusActive || !ent.IsExpired(now) {
		return nil
	}
	if err := tx.Model(&model.Entitlement{}).
		Where("entitlement_id = ? AND entitlement_validity_status = ?", ent.EntitlementID, model.ValidityStatusActive).
		Update("entitlement_validity_status", model.ValidityStatusExpired).Error; err != nil {
		return err
	}
	ent.EntitlementValidityStatus = model.ValidityStatusExpired
	return nil
}

/* =========================================================
   Lookup
========================================================= */

// FindAuthorizing returns the most recent entitlement that authorizes session
// creation for the tuple, or nil when none does. Reconciles lazily expired
// rows as a side effect of the read.
func (s *EntitlementService) FindAuthorizing(tx *gorm.DB, studentID, tutorID, subjectID, levelID uuid.UUID, now time.Time) (*model.Entitlement, error) {
	var ent model.Entitlement
	err := tx.
		Where("entitlement_student_id = ? AND entitlement_tutor_id = ? AND entitlement_subject_id = ? AND entitlement_academic_level_id = ?",
			studentID, tutorID, subjectID, levelID).
		Where("entitlement_payment_status = ? AND entitlement_validity_status = ?",
			model.PaymentStatusPaid, model.ValidityStatusActive).
		Order("entitlement_created_at DESC").
		First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.ReconcileExpiry(tx, &ent, now); err != nil {
		return nil, err
	}
	if !ent.IsAuthorizing(now) {
		return nil, nil
	}
	return &ent, nil
}
