package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorlink_backend/internals/features/tutoring/hires/model"
)

type RequestHireRequest struct {
	TutorID         uuid.UUID `json:"tutor_id" validate:"required"`
	SubjectID       uuid.UUID `json:"subject_id" validate:"required"`
	AcademicLevelID uuid.UUID `json:"academic_level_id" validate:"required"`
}

type RespondHireRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type HireResponse struct {
	HireID              uuid.UUID `json:"hire_id"`
	HireStudentID       uuid.UUID `json:"hire_student_id"`
	HireTutorID         uuid.UUID `json:"hire_tutor_id"`
	HireSubjectID       uuid.UUID `json:"hire_subject_id"`
	HireAcademicLevelID uuid.UUID `json:"hire_academic_level_id"`
	HireStatus          string    `json:"hire_status"`
	HireRequestedAt     time.Time `json:"hire_requested_at"`
	CreatedAt           time.Time `json:"hire_created_at"`
}

func FromModel(h *model.HireRequest) HireResponse {
	return HireResponse{
		HireID:              h.HireID,
		HireStudentID:       h.HireStudentID,
		HireTutorID:         h.HireTutorID,
		HireSubjectID:       h.HireSubjectID,
		HireAcademicLevelID: h.HireAcademicLevelID,
		HireStatus:          h.HireStatus,
		HireRequestedAt:     h.HireRequestedAt,
		CreatedAt:           h.CreatedAt,
	}
}
