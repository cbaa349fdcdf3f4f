package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	HireStatusPending  = "pending"
	HireStatusAccepted = "accepted"
	HireStatusRejected = "rejected"
)

/* ===================== Model ===================== */

// HireRequest gates a student↔tutor relationship. At most one non-rejected
// row may exist per (student, tutor); a rejected row is resubmitted in place.
type HireRequest struct {
	HireID uuid.UUID `gorm:"column:hire_id;type:uuid;default:gen_random_uuid();primaryKey" json:"hire_id"`

	HireStudentID uuid.UUID `gorm:"column:hire_student_id;type:uuid;not null;index:idx_hire_student_tutor" json:"hire_student_id"`
	HireTutorID   uuid.UUID `gorm:"column:hire_tutor_id;type:uuid;not null;index:idx_hire_student_tutor" json:"hire_tutor_id"`

	HireSubjectID       uuid.UUID `gorm:"column:hire_subject_id;type:uuid;not null" json:"hire_subject_id"`
	HireAcademicLevelID uuid.UUID `gorm:"column:hire_academic_level_id;type:uuid;not null" json:"hire_academic_level_id"`

	HireStatus      string    `gorm:"column:hire_status;type:varchar(16);not null;default:'pending'" json:"hire_status"`
	HireRequestedAt time.Time `gorm:"column:hire_requested_at;not null" json:"hire_requested_at"`

	CreatedAt time.Time      `gorm:"column:hire_created_at;autoCreateTime" json:"hire_created_at"`
	UpdatedAt time.Time      `gorm:"column:hire_updated_at;autoUpdateTime" json:"hire_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:hire_deleted_at;index" json:"hire_deleted_at,omitempty"`
}

func (HireRequest) TableName() string { return "hire_requests" }

func (h *HireRequest) IsAccepted() bool { return h.HireStatus == HireStatusAccepted }

// CanDecide reports whether a tutor response is still possible.
func (h *HireRequest) CanDecide() bool { return h.HireStatus == HireStatusPending }

/* ===================== Pure gate rules ===================== */

// How a fresh request against the student's existing record is handled.
const (
	RequestCreate   = "create"
	RequestResubmit = "resubmit"
	RequestBlocked  = "blocked"
)

// DispositionFor classifies a new hire request: no record creates one, a
// rejected record is resubmitted in place, and a pending or accepted record
// blocks, keeping at most one non-rejected row per (student, tutor) pair.
func DispositionFor(existing *HireRequest) string {
	switch {
	case existing == nil:
		return RequestCreate
	case existing.HireStatus == HireStatusRejected:
		return RequestResubmit
	default:
		return RequestBlocked
	}
}

// Resubmit flips a rejected request back to pending in place, refreshing the
// requested terms and timestamp.
func (h *HireRequest) Resubmit(subjectID, levelID uuid.UUID, now time.Time) {
	h.HireSubjectID = subjectID
	h.HireAcademicLevelID = levelID
	h.HireStatus = HireStatusPending
	h.HireRequestedAt = now
}

// Decide moves a pending request to accepted or rejected.
func (h *HireRequest) Decide(accept bool) {
	if accept {
		h.HireStatus = HireStatusAccepted
	} else {
		h.HireStatus = HireStatusRejected
	}
}
