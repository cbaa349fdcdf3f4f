package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorlink_backend/internals/features/tutoring/sessions/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type CreateSessionRequest struct {
	StudentIDs      []uuid.UUID `json:"student_ids" validate:"required,min=1,dive,required"`
	SubjectID       uuid.UUID   `json:"subject_id" validate:"required"`
	AcademicLevelID uuid.UUID   `json:"academic_level_id" validate:"required"`
	Date            time.Time   `json:"date" validate:"required"`
	DurationHours   float64     `json:"duration_hours" validate:"required,min=0.25,max=8"`
	HourlyRate      float64     `json:"hourly_rate" validate:"required,min=0"`
	Notes           string      `json:"notes,omitempty"`
}

type RespondRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed declined"`
	Note   string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type ProposeTimeRequest struct {
	ProposedDate time.Time `json:"proposed_date" validate:"required"`
}

type DecideProposalRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type RateSessionRequest struct {
	Rating   float64 `json:"rating" validate:"required,min=1,max=5"`
	Feedback string  `json:"feedback,omitempty" validate:"omitempty,max=1000"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type SessionStudentResponse struct {
	ParticipantStudentID      uuid.UUID  `json:"participant_student_id"`
	ParticipantEntitlementID  uuid.UUID  `json:"participant_entitlement_id"`
	ParticipantResponseStatus string     `json:"participant_response_status"`
	ParticipantRespondedAt    *time.Time `json:"participant_responded_at,omitempty"`
	ParticipantResponseNote   string     `json:"participant_response_note,omitempty"`
	ParticipantRating         *float64   `json:"participant_rating,omitempty"`
	ParticipantFeedback       string     `json:"participant_feedback,omitempty"`
	ParticipantRatedAt        *time.Time `json:"participant_rated_at,omitempty"`
}

type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`

	SessionTutorID         uuid.UUID `json:"session_tutor_id"`
	SessionSubjectID       uuid.UUID `json:"session_subject_id"`
	SessionAcademicLevelID uuid.UUID `json:"session_academic_level_id"`

	SessionDate          time.Time `json:"session_date"`
	SessionEndTime       time.Time `json:"session_end_time"`
	SessionDurationHours float64   `json:"session_duration_hours"`

	SessionHourlyRate    float64 `json:"session_hourly_rate"`
	SessionTotalEarnings float64 `json:"session_total_earnings"`

	SessionStatus string `json:"session_status"`
	SessionNotes  string `json:"session_notes,omitempty"`

	SessionRating      *float64 `json:"session_rating,omitempty"`
	SessionMeetingLink string   `json:"session_meeting_link,omitempty"`

	SessionCompletedAt *time.Time `json:"session_completed_at,omitempty"`

	SessionProposedDate      *time.Time `json:"session_proposed_date,omitempty"`
	SessionProposalStatus    *string    `json:"session_proposal_status,omitempty"`
	SessionProposalDecidedAt *time.Time `json:"session_proposal_decided_at,omitempty"`

	Students []SessionStudentResponse `json:"students,omitempty"`

	CreatedAt time.Time `json:"session_created_at"`
}

func FromModel(s *model.Session) SessionResponse {
	out := SessionResponse{
		SessionID:                s.SessionID,
		SessionTutorID:           s.SessionTutorID,
		SessionSubjectID:         s.SessionSubjectID,
		SessionAcademicLevelID:   s.SessionAcademicLevelID,
		SessionDate:              s.SessionDate,
		SessionEndTime:           s.EndTime(),
		SessionDurationHours:     s.SessionDurationHours,
		SessionHourlyRate:        s.SessionHourlyRate,
		SessionTotalEarnings:     s.SessionTotalEarnings,
		SessionStatus:            s.SessionStatus,
		SessionNotes:             s.SessionNotes,
		SessionRating:            s.SessionRating,
		SessionMeetingLink:       s.SessionMeetingLink,
		SessionCompletedAt:       s.SessionCompletedAt,
		SessionProposedDate:      s.SessionProposedDate,
		SessionProposalStatus:    s.SessionProposalStatus,
		SessionProposalDecidedAt: s.SessionProposalDecidedAt,
		CreatedAt:                s.CreatedAt,
	}
	for _, st := range s.Students {
		out.Students = append(out.Students, SessionStudentResponse{
			ParticipantStudentID:      st.ParticipantStudentID,
			ParticipantEntitlementID:  st.ParticipantEntitlementID,
			ParticipantResponseStatus: st.ParticipantResponseStatus,
			ParticipantRespondedAt:    st.ParticipantRespondedAt,
			ParticipantResponseNote:   st.ParticipantResponseNote,
			ParticipantRating:         st.ParticipantRating,
			ParticipantFeedback:       st.ParticipantFeedback,
			ParticipantRatedAt:        st.ParticipantRatedAt,
		})
	}
	return out
}
