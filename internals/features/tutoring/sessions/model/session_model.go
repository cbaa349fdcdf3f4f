package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	SessionStatusPending    = "pending"
	SessionStatusConfirmed  = "confirmed"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
)

const (
	ResponseStatusPending   = "pending"
	ResponseStatusConfirmed = "confirmed"
	ResponseStatusDeclined  = "declined"
)

const (
	ProposalStatusPending  = "pending"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

const (
	MinDurationHours = 0.25
	MaxDurationHours = 8.0
)

/* ===================== Models ===================== */

// Session is one scheduled teaching event between a tutor and 1..N students.
type Session struct {
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"session_id"`

	SessionTutorID         uuid.UUID `gorm:"column:session_tutor_id;type:uuid;not null;index:idx_session_tutor_date" json:"session_tutor_id"`
	SessionSubjectID       uuid.UUID `gorm:"column:session_subject_id;type:uuid;not null" json:"session_subject_id"`
	SessionAcademicLevelID uuid.UUID `gorm:"column:session_academic_level_id;type:uuid;not null" json:"session_academic_level_id"`

	SessionDate          time.Time `gorm:"column:session_date;not null;index:idx_session_tutor_date" json:"session_date"`
	SessionDurationHours float64   `gorm:"column:session_duration_hours;not null;check:session_duration_hours >= 0.25 AND session_duration_hours <= 8" json:"session_duration_hours"`

	// Commercial snapshot taken at creation; later rate changes do not touch it.
	SessionHourlyRate    float64 `gorm:"column:session_hourly_rate;not null" json:"session_hourly_rate"`
	SessionTotalEarnings float64 `gorm:"column:session_total_earnings;not null" json:"session_total_earnings"`

	SessionStatus string `gorm:"column:session_status;type:varchar(16);not null;default:'pending';index" json:"session_status"`
	SessionNotes  string `gorm:"column:session_notes;type:text;not null;default:''" json:"session_notes"`

	// Mean of the per-student ratings, one decimal.
	SessionRating *float64 `gorm:"column:session_rating" json:"session_rating,omitempty"`

	SessionMeetingLink   string     `gorm:"column:session_meeting_link;type:varchar(255);not null;default:''" json:"session_meeting_link"`
	SessionLinkSentAt    *time.Time `gorm:"column:session_link_sent_at" json:"session_link_sent_at,omitempty"`
	SessionCompletedAt   *time.Time `gorm:"column:session_completed_at" json:"session_completed_at,omitempty"`

	// At most one outstanding alternate-time proposal.
	SessionProposedDate     *time.Time `gorm:"column:session_proposed_date" json:"session_proposed_date,omitempty"`
	SessionProposalStatus   *string    `gorm:"column:session_proposal_status;type:varchar(16)" json:"session_proposal_status,omitempty"`
	SessionProposalDecidedAt *time.Time `gorm:"column:session_proposal_decided_at" json:"session_proposal_decided_at,omitempty"`

	Students []SessionStudent `gorm:"foreignKey:ParticipantSessionID;references:SessionID" json:"students,omitempty"`

	CreatedAt time.Time      `gorm:"column:session_created_at;autoCreateTime" json:"session_created_at"`
	UpdatedAt time.Time      `gorm:"column:session_updated_at;autoUpdateTime" json:"session_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:session_deleted_at;index" json:"session_deleted_at,omitempty"`
}

func (Session) TableName() string { return "sessions" }

// SessionStudent is one student's membership in a session: the entitlement it
// was authorized against, the confirmation response, and the rating.
type SessionStudent struct {
	ParticipantID uuid.UUID `gorm:"column:participant_id;type:uuid;default:gen_random_uuid();primaryKey" json:"participant_id"`

	ParticipantSessionID uuid.UUID `gorm:"column:participant_session_id;type:uuid;not null;index:idx_participant_session_student,unique" json:"participant_session_id"`
	ParticipantStudentID uuid.UUID `gorm:"column:participant_student_id;type:uuid;not null;index:idx_participant_session_student,unique" json:"participant_student_id"`

	ParticipantEntitlementID uuid.UUID `gorm:"column:participant_entitlement_id;type:uuid;not null" json:"participant_entitlement_id"`
	ParticipantPosition      int       `gorm:"column:participant_position;not null;default:0" json:"participant_position"`

	ParticipantResponseStatus string     `gorm:"column:participant_response_status;type:varchar(16);not null;default:'pending'" json:"participant_response_status"`
	ParticipantRespondedAt    *time.Time `gorm:"column:participant_responded_at" json:"participant_responded_at,omitempty"`
	ParticipantResponseNote   string     `gorm:"column:participant_response_note;type:text;not null;default:''" json:"participant_response_note"`

	ParticipantRating   *float64   `gorm:"column:participant_rating;check:participant_rating IS NULL OR (participant_rating >= 1 AND participant_rating <= 5)" json:"participant_rating,omitempty"`
	ParticipantFeedback string     `gorm:"column:participant_feedback;type:text;not null;default:''" json:"participant_feedback"`
	ParticipantRatedAt  *time.Time `gorm:"column:participant_rated_at" json:"participant_rated_at,omitempty"`

	CreatedAt time.Time `gorm:"column:participant_created_at;autoCreateTime" json:"participant_created_at"`
	UpdatedAt time.Time `gorm:"column:participant_updated_at;autoUpdateTime" json:"participant_updated_at"`
}

func (SessionStudent) TableName() string { return "session_students" }

/* ===================== Pure scheduling rules ===================== */

// EndTime is the derived session end, start + duration.
func (s *Session) EndTime() time.Time {
	return s.SessionDate.Add(time.Duration(s.SessionDurationHours * float64(time.Hour)))
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s *Session) IsTerminal() bool {
	return s.SessionStatus == SessionStatusCompleted || s.SessionStatus == SessionStatusCancelled
}

// Overlaps is the half-open interval test used for double-booking detection:
// [existingStart, existingEnd) intersects [newStart, newEnd).
func Overlaps(existingStart, existingEnd, newStart, newEnd time.Time) bool {
	return existingStart.Before(newEnd) && existingEnd.After(newStart)
}

// RecomputeStatus derives the overall session status from the per-student
// responses: any confirmed wins, all declined cancels, otherwise pending.
// A session already in_progress or completed keeps its status; those states
// are reached only by explicit tutor action.
func RecomputeStatus(current string, responses []string) string {
	if current == SessionStatusInProgress || current == SessionStatusCompleted {
		return current
	}
	anyConfirmed := false
	allDeclined := len(responses) > 0
	for _, r := range responses {
		if r == ResponseStatusConfirmed {
			anyConfirmed = true
		}
		if r != ResponseStatusDeclined {
			allDeclined = false
		}
	}
	switch {
	case anyConfirmed:
		return SessionStatusConfirmed
	case allDeclined:
		return SessionStatusCancelled
	default:
		return SessionStatusPending
	}
}

// AggregateRating is the mean of the recorded per-student ratings, rounded to
// one decimal. Nil when no student has rated yet.
func AggregateRating(students []SessionStudent) *float64 {
	sum, n := 0.0, 0
	for _, st := range students {
		if st.ParticipantRating != nil {
			sum += *st.ParticipantRating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := math.Round(sum/float64(n)*10) / 10
	return &mean
}
