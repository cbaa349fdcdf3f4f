package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type CheckoutRequest struct {
	EntitlementID uuid.UUID `json:"entitlement_id" validate:"required"`
	FirstName     string    `json:"first_name" validate:"required"`
	LastName      string    `json:"last_name,omitempty"`
	Email         string    `json:"email" validate:"required,email"`
	Phone         string    `json:"phone,omitempty"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type EntitlementResponse struct {
	EntitlementID uuid.UUID `json:"entitlement_id"`

	EntitlementStudentID       uuid.UUID `json:"entitlement_student_id"`
	EntitlementTutorID         uuid.UUID `json:"entitlement_tutor_id"`
	EntitlementSubjectID       uuid.UUID `json:"entitlement_subject_id"`
	EntitlementAcademicLevelID uuid.UUID `json:"entitlement_academic_level_id"`

	EntitlementPaymentType        string   `json:"entitlement_payment_type"`
	EntitlementBaseAmount         float64  `json:"entitlement_base_amount"`
	EntitlementDiscountPercentage float64  `json:"entitlement_discount_percentage"`
	EntitlementMonthlyAmount      *float64 `json:"entitlement_monthly_amount,omitempty"`

	EntitlementValidityStart *time.Time `json:"entitlement_validity_start,omitempty"`
	EntitlementValidityEnd   *time.Time `json:"entitlement_validity_end,omitempty"`

	EntitlementTotalSessions     int `json:"entitlement_total_sessions"`
	EntitlementSessionsRemaining int `json:"entitlement_sessions_remaining"`

	EntitlementPaymentStatus  string `json:"entitlement_payment_status"`
	EntitlementValidityStatus string `json:"entitlement_validity_status"`
	EntitlementEffectiveStatus string `json:"entitlement_effective_status"`

	EntitlementCurrency string `json:"entitlement_currency"`

	EntitlementIsRenewal     bool       `json:"entitlement_is_renewal"`
	EntitlementRenewedFromID *uuid.UUID `json:"entitlement_renewed_from_id,omitempty"`

	CreatedAt time.Time `json:"entitlement_created_at"`
}

func FromModel(e *model.Entitlement, now time.Time) EntitlementResponse {
	return EntitlementResponse{
		EntitlementID:                 e.EntitlementID,
		EntitlementStudentID:          e.EntitlementStudentID,
		EntitlementTutorID:            e.EntitlementTutorID,
		EntitlementSubjectID:          e.EntitlementSubjectID,
		EntitlementAcademicLevelID:    e.EntitlementAcademicLevelID,
		EntitlementPaymentType:        e.EntitlementPaymentType,
		EntitlementBaseAmount:         e.EntitlementBaseAmount,
		EntitlementDiscountPercentage: e.EntitlementDiscountPercentage,
		EntitlementMonthlyAmount:      e.EntitlementMonthlyAmount,
		EntitlementValidityStart:      e.EntitlementValidityStart,
		EntitlementValidityEnd:        e.EntitlementValidityEnd,
		EntitlementTotalSessions:      e.EntitlementTotalSessions,
		EntitlementSessionsRemaining:  e.EntitlementSessionsRemaining,
		EntitlementPaymentStatus:      e.EntitlementPaymentStatus,
		EntitlementValidityStatus:     e.EntitlementValidityStatus,
		EntitlementEffectiveStatus:    e.EffectiveStatus(now),
		EntitlementCurrency:           e.EntitlementCurrency,
		EntitlementIsRenewal:          e.EntitlementIsRenewal,
		EntitlementRenewedFromID:      e.EntitlementRenewedFromID,
		CreatedAt:                     e.CreatedAt,
	}
}

type CheckoutResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
}
