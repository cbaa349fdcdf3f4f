package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

const (
	ValidityStatusPending = "pending"
	ValidityStatusActive  = "active"
	ValidityStatusExpired = "expired"
)

const (
	PaymentTypeMonthly = "monthly"
	PaymentTypeHourly  = "hourly"
)

// Fixed policy: an activated entitlement is valid for exactly 30 days.
const ValidityDays = 30

/* ===================== Model ===================== */

// Entitlement is a purchased, time- and count-limited right for one student
// to receive sessions from one tutor for one subject and academic level.
// Rows are never deleted; an expired entitlement is superseded by a renewal.
type Entitlement struct {
	EntitlementID uuid.UUID `gorm:"column:entitlement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"entitlement_id"`

	EntitlementStudentID       uuid.UUID `gorm:"column:entitlement_student_id;type:uuid;not null;index" json:"entitlement_student_id"`
	EntitlementTutorID         uuid.UUID `gorm:"column:entitlement_tutor_id;type:uuid;not null;index" json:"entitlement_tutor_id"`
	EntitlementSubjectID       uuid.UUID `gorm:"column:entitlement_subject_id;type:uuid;not null" json:"entitlement_subject_id"`
	EntitlementAcademicLevelID uuid.UUID `gorm:"column:entitlement_academic_level_id;type:uuid;not null" json:"entitlement_academic_level_id"`

	// Commercial terms, snapshotted from the tutor's published level terms.
	EntitlementPaymentType        string   `gorm:"column:entitlement_payment_type;type:varchar(16);not null;default:'monthly'" json:"entitlement_payment_type"`
	EntitlementBaseAmount         float64  `gorm:"column:entitlement_base_amount;not null;check:entitlement_base_amount >= 0" json:"entitlement_base_amount"`
	EntitlementDiscountPercentage float64  `gorm:"column:entitlement_discount_percentage;not null;default:0;check:entitlement_discount_percentage >= 0 AND entitlement_discount_percentage <= 100" json:"entitlement_discount_percentage"`
	EntitlementMonthlyAmount      *float64 `gorm:"column:entitlement_monthly_amount" json:"entitlement_monthly_amount,omitempty"`

	// Validity window. Placeholders until payment activation fills them.
	EntitlementValidityStart *time.Time `gorm:"column:entitlement_validity_start" json:"entitlement_validity_start,omitempty"`
	EntitlementValidityEnd   *time.Time `gorm:"column:entitlement_validity_end;index" json:"entitlement_validity_end,omitempty"`

	// Consumption. sessions_remaining is decremented on completion, floor 0.
	EntitlementTotalSessions     int `gorm:"column:entitlement_total_sessions;not null;default:1" json:"entitlement_total_sessions"`
	EntitlementSessionsRemaining int `gorm:"column:entitlement_sessions_remaining;not null;default:0;check:entitlement_sessions_remaining >= 0" json:"entitlement_sessions_remaining"`

	EntitlementPaymentStatus  string `gorm:"column:entitlement_payment_status;type:varchar(16);not null;default:'pending'" json:"entitlement_payment_status"`
	EntitlementValidityStatus string `gorm:"column:entitlement_validity_status;type:varchar(16);not null;default:'pending'" json:"entitlement_validity_status"`

	EntitlementPaymentMethod string     `gorm:"column:entitlement_payment_method;type:varchar(16);not null;default:'card'" json:"entitlement_payment_method"`
	EntitlementPaidAt        *time.Time `gorm:"column:entitlement_paid_at" json:"entitlement_paid_at,omitempty"`

	EntitlementRequestNotes string `gorm:"column:entitlement_request_notes;type:text;not null;default:''" json:"entitlement_request_notes"`
	EntitlementCurrency     string `gorm:"column:entitlement_currency;type:varchar(8);not null;default:'GBP'" json:"entitlement_currency"`

	// Gateway bookkeeping. The order id is ours, minted at checkout, and is
	// the stable key every later notification maps back through; the
	// transaction id is the gateway's own reference, recorded on activation.
	EntitlementGatewayOrderID       *string           `gorm:"column:entitlement_gateway_order_id" json:"entitlement_gateway_order_id,omitempty"`
	EntitlementGatewayTransactionID *string           `gorm:"column:entitlement_gateway_transaction_id" json:"entitlement_gateway_transaction_id,omitempty"`
	EntitlementGatewayResponse      datatypes.JSONMap `gorm:"column:entitlement_gateway_response;type:jsonb" json:"entitlement_gateway_response,omitempty"`

	// Renewal link back to the entitlement this one supersedes.
	EntitlementIsRenewal     bool       `gorm:"column:entitlement_is_renewal;not null;default:false" json:"entitlement_is_renewal"`
	EntitlementRenewedFromID *uuid.UUID `gorm:"column:entitlement_renewed_from_id;type:uuid" json:"entitlement_renewed_from_id,omitempty"`

	CreatedAt time.Time `gorm:"column:entitlement_created_at;autoCreateTime" json:"entitlement_created_at"`
	UpdatedAt time.Time `gorm:"column:entitlement_updated_at;autoUpdateTime" json:"entitlement_updated_at"`
}

func (Entitlement) TableName() string { return "entitlements" }

/* ===================== Predicates (pure) ===================== */

func (e *Entitlement) IsPaid() bool {
	return e.EntitlementPaymentStatus == PaymentStatusPaid
}

// IsExpired reports whether the validity window has passed. An entitlement
// without a window (never activated) is not considered expired.
func (e *Entitlement) IsExpired(now time.Time) bool {
	if e.EntitlementValidityEnd == nil {
		return false
	}
	return !now.Before(*e.EntitlementValidityEnd)
}

// IsAuthorizing reports whether this entitlement authorizes session creation:
// paid, active, inside the validity window, with credits remaining. Pure —
// the lazy expiry write lives in the service's ReconcileExpiry.
func (e *Entitlement) IsAuthorizing(now time.Time) bool {
	return e.EntitlementPaymentStatus == PaymentStatusPaid &&
		e.EntitlementValidityStatus == ValidityStatusActive &&
		!e.IsExpired(now) &&
		e.EntitlementSessionsRemaining > 0
}

// EffectiveStatus folds the date condition into the stored statuses the way
// listings present it: unpaid states show as-is, a paid-but-lapsed window
// shows "expired", otherwise "active".
func (e *Entitlement) EffectiveStatus(now time.Time) string {
	if e.EntitlementPaymentStatus != PaymentStatusPaid {
		return e.EntitlementPaymentStatus
	}
	if e.IsExpired(now) {
		return ValidityStatusExpired
	}
	return ValidityStatusActive
}

// BuildRenewal clones the commercial terms into a fresh pending entitlement
// linked back to this one. The clone gets the full session count regardless
// of the source's remaining balance; its window is filled on activation.
func (e *Entitlement) BuildRenewal() Entitlement {
	return Entitlement{
		EntitlementStudentID:          e.EntitlementStudentID,
		EntitlementTutorID:            e.EntitlementTutorID,
		EntitlementSubjectID:          e.EntitlementSubjectID,
		EntitlementAcademicLevelID:    e.EntitlementAcademicLevelID,
		EntitlementPaymentType:        e.EntitlementPaymentType,
		EntitlementBaseAmount:         e.EntitlementBaseAmount,
		EntitlementDiscountPercentage: e.EntitlementDiscountPercentage,
		EntitlementMonthlyAmount:      e.EntitlementMonthlyAmount,
		EntitlementTotalSessions:      e.EntitlementTotalSessions,
		EntitlementSessionsRemaining:  0,
		EntitlementPaymentStatus:      PaymentStatusPending,
		EntitlementValidityStatus:     ValidityStatusPending,
		EntitlementCurrency:           e.EntitlementCurrency,
		EntitlementIsRenewal:          true,
		EntitlementRenewedFromID:      &e.EntitlementID,
	}
}
