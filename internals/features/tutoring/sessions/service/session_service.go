package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	entsvc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	hiresvc "tutorlink_backend/internals/features/tutoring/hires/service"
	"tutorlink_backend/internals/features/tutoring/sessions/model"
	usermodel "tutorlink_backend/internals/features/users/user/model"
)

var (
	ErrScheduleConflict   = errors.New("tutor already has a session overlapping this interval")
	ErrCapExceeded        = errors.New("completed-session cap reached for this academic level")
	ErrTerminalState      = errors.New("session is in a terminal state")
	ErrConfirmedLocked    = errors.New("session is confirmed; its schedule can no longer change")
	ErrNotInProgressable  = errors.New("session cannot be started from its current state")
	ErrNoProposal         = errors.New("session has no pending proposal")
	ErrNotParticipant     = errors.New("student is not a participant of this session")
	ErrDeclinedCannotRate = errors.New("a student who declined the session cannot rate it")
	ErrSessionNotOwned    = errors.New("session does not belong to this tutor")
	ErrDeleteLocked       = errors.New("only pending or confirmed sessions can be deleted")
	ErrBadDuration        = fmt.Errorf("duration must be between %.2f and %.1f hours", model.MinDurationHours, model.MaxDurationHours)
)

// StudentCheckFailure is the per-student diagnostic attached to a rejected
// creation so the caller can route each student to the right fix.
type StudentCheckFailure struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

type PreconditionError struct {
	Failures []StudentCheckFailure
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("session creation rejected for %d student(s)", len(e.Failures))
}

type SessionService struct {
	DB           *gorm.DB
	Entitlements *entsvc.EntitlementService
	Hires        *hiresvc.HireService
}

func NewSessionService(db *gorm.DB, entitlements *entsvc.EntitlementService, hires *hiresvc.HireService) *SessionService {
	return &SessionService{DB: db, Entitlements: entitlements, Hires: hires}
}

/* =========================================================
   Creation
========================================================= */

type CreateSessionInput struct {
	TutorID         uuid.UUID
	StudentIDs      []uuid.UUID
	SubjectID       uuid.UUID
	AcademicLevelID uuid.UUID
	Date            time.Time
	DurationHours   float64
	HourlyRate      float64
	Notes           string
}

// CreateSession runs the full precondition chain and persists the session.
// The tutor row is locked for the duration of the transaction so that two
// concurrent creations for the same tutor serialize and cannot both pass the
// overlap check.
func (s *SessionService) CreateSession(in CreateSessionInput) (*model.Session, error) {
	if in.DurationHours < model.MinDurationHours || in.DurationHours > model.MaxDurationHours {
		return nil, ErrBadDuration
	}
	if len(in.StudentIDs) == 0 {
		return nil, errors.New("at least one student is required")
	}

	in.Date = in.Date.UTC()
	now := time.Now().UTC()

	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var tutor usermodel.TutorProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tutor, "tutor_profile_id = ?", in.TutorID).Error; err != nil {
			return err
		}

		// 1 + 2: per-student account and hire checks, first failure per
		// student recorded, whole creation rejected when any student fails.
		failures := []StudentCheckFailure{}
		for _, studentID := range in.StudentIDs {
			var profile usermodel.StudentProfile
			if err := tx.First(&profile, "student_profile_id = ?", studentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					failures = append(failures, StudentCheckFailure{studentID, "student not found"})
					continue
				}
				return err
			}
			var user usermodel.User
			if err := tx.First(&user, "user_id = ?", profile.StudentUserID).Error; err != nil {
				return err
			}
			if !user.IsActive() {
				failures = append(failures, StudentCheckFailure{studentID, "student account is not active"})
				continue
			}

			hired, err := s.Hires.HasAcceptedHire(tx, studentID, in.TutorID)
			if err != nil {
				return err
			}
			if !hired {
				failures = append(failures, StudentCheckFailure{studentID, "no accepted hire request with this tutor"})
			}
		}
		if len(failures) > 0 {
			return &PreconditionError{Failures: failures}
		}

		// 3: completed-session cap for the level. The count is the tutor's
		// full completed history across every level; no date-range or level
		// filter is applied.
		var terms usermodel.TutorAcademicLevel
		if err := tx.First(&terms,
			"level_tutor_id = ? AND level_education_level_id = ?",
			in.TutorID, in.AcademicLevelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("tutor has no published terms for this academic level")
			}
			return err
		}
		if terms.LevelTotalSessionsPerMonth > 0 {
			completed, err := s.completedSessionTotal(tx, in.TutorID)
			if err != nil {
				return err
			}
			if completed >= int64(terms.LevelTotalSessionsPerMonth) {
				return ErrCapExceeded
			}
		}

		// 4: authorizing entitlement per student, with the same per-student
		// diagnostic breakdown.
		entitlementByStudent := map[uuid.UUID]uuid.UUID{}
		for _, studentID := range in.StudentIDs {
			ent, err := s.Entitlements.FindAuthorizing(tx, studentID, in.TutorID, in.SubjectID, in.AcademicLevelID, now)
			if err != nil {
				return err
			}
			if ent == nil {
				failures = append(failures, StudentCheckFailure{studentID, "no authorizing entitlement (unpaid, expired or exhausted)"})
				continue
			}
			entitlementByStudent[studentID] = ent.EntitlementID
		}
		if len(failures) > 0 {
			return &PreconditionError{Failures: failures}
		}

		// 5: authoritative overlap check against the tutor's live sessions.
		newEnd := in.Date.Add(time.Duration(in.DurationHours * float64(time.Hour)))
		if err := s.checkConflict(tx, in.TutorID, uuid.Nil, in.Date, newEnd); err != nil {
			return err
		}

		session = model.Session{
			SessionTutorID:         in.TutorID,
			SessionSubjectID:       in.SubjectID,
			SessionAcademicLevelID: in.AcademicLevelID,
			SessionDate:            in.Date,
			SessionDurationHours:   in.DurationHours,
			SessionHourlyRate:      in.HourlyRate,
			SessionTotalEarnings:   math.Round(in.HourlyRate*in.DurationHours*100) / 100,
			SessionStatus:          model.SessionStatusPending,
			SessionNotes:           in.Notes,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		students := make([]model.SessionStudent, 0, len(in.StudentIDs))
		for i, studentID := range in.StudentIDs {
			students = append(students, model.SessionStudent{
				ParticipantSessionID:      session.SessionID,
				ParticipantStudentID:      studentID,
				ParticipantEntitlementID:  entitlementByStudent[studentID],
				ParticipantPosition:       i,
				ParticipantResponseStatus: model.ResponseStatusPending,
			})
		}
		if err := tx.Create(&students).Error; err != nil {
			return err
		}
		session.Students = students

		// Room identifier minted from the persisted id.
		session.SessionMeetingLink = fmt.Sprintf("https://meet.jit.si/%s-%d", session.SessionID, now.UnixMilli())
		return tx.Model(&session).
			Update("session_meeting_link", session.SessionMeetingLink).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// completedSessionTotal counts every completed session the tutor has ever
// taught, across all levels.
func (s *SessionService) completedSessionTotal(tx *gorm.DB, tutorID uuid.UUID) (int64, error) {
	var completed int64
	err := tx.Model(&model.Session{}).
		Where("session_tutor_id = ? AND session_status = ?", tutorID, model.SessionStatusCompleted).
		Count(&completed).Error
	return completed, err
}

// checkConflict rejects when any of the tutor's pending, confirmed or
// in-progress sessions overlaps [start, end). excludeID skips the session
// being re-checked.
func (s *SessionService) checkConflict(tx *gorm.DB, tutorID, excludeID uuid.UUID, start, end time.Time) error {
	var others []model.Session
	q := tx.
		Where("session_tutor_id = ?", tutorID).
		Where("session_status IN ?", []string{
			model.SessionStatusPending, model.SessionStatusConfirmed, model.SessionStatusInProgress,
		})
	if excludeID != uuid.Nil {
		q = q.Where("session_id <> ?", excludeID)
	}
	if err := q.Find(&others).Error; err != nil {
		return err
	}
	for i := range others {
		if model.Overlaps(others[i].SessionDate, others[i].EndTime(), start, end) {
			return ErrScheduleConflict
		}
	}
	return nil
}

/* =========================================================
   Per-student response
========================================================= */

// Respond upserts one student's response and recomputes the overall status.
func (s *SessionService) Respond(sessionID, studentID uuid.UUID, status, note string) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.IsTerminal() {
			return ErrTerminalState
		}

		var me model.SessionStudent
		if err := tx.First(&me,
			"participant_session_id = ? AND participant_student_id = ?",
			sessionID, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}

		now := time.Now().UTC()
		me.ParticipantResponseStatus = status
		me.ParticipantRespondedAt = &now
		me.ParticipantResponseNote = note
		if err := tx.Save(&me).Error; err != nil {
			return err
		}

		return s.recomputeAndSaveStatus(tx, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) recomputeAndSaveStatus(tx *gorm.DB, session *model.Session) error {
	var all []model.SessionStudent
	if err := tx.
		Where("participant_session_id = ?", session.SessionID).
		Order("participant_position ASC").
		Find(&all).Error; err != nil {
		return err
	}
	responses := make([]string, 0, len(all))
	for _, st := range all {
		responses = append(responses, st.ParticipantResponseStatus)
	}
	next := model.RecomputeStatus(session.SessionStatus, responses)
	session.Students = all
	if next == session.SessionStatus {
		return nil
	}
	session.SessionStatus = next
	return tx.Model(session).Update("session_status", next).Error
}

/* =========================================================
   Proposed-time renegotiation
========================================================= */

// ProposeTime attaches an alternate start time. Only legal while pending; a
// confirmed schedule is locked for good.
func (s *SessionService) ProposeTime(sessionID, actorStudentID uuid.UUID, proposed time.Time) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		switch session.SessionStatus {
		case model.SessionStatusPending:
		case model.SessionStatusConfirmed:
			return ErrConfirmedLocked
		default:
			return ErrTerminalState
		}

		// actorStudentID is uuid.Nil when the tutor proposes.
		if actorStudentID != uuid.Nil {
			var count int64
			if err := tx.Model(&model.SessionStudent{}).
				Where("participant_session_id = ? AND participant_student_id = ?", sessionID, actorStudentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotParticipant
			}
		}

		p := proposed.UTC()
		status := model.ProposalStatusPending
		session.SessionProposedDate = &p
		session.SessionProposalStatus = &status
		session.SessionProposalDecidedAt = nil
		return tx.Model(&session).Updates(map[string]interface{}{
			"session_proposed_date":      p,
			"session_proposal_status":    status,
			"session_proposal_decided_at": nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RespondToProposal decides the outstanding proposal. Approval swaps the
// session to the proposed start after a fresh conflict check and moves the
// session to confirmed; rejection clears the proposal and leaves the
// schedule untouched.
func (s *SessionService) RespondToProposal(sessionID, tutorID uuid.UUID, accept bool) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() {
			return ErrTerminalState
		}
		if session.SessionProposedDate == nil ||
			session.SessionProposalStatus == nil ||
			*session.SessionProposalStatus != model.ProposalStatusPending {
			return ErrNoProposal
		}
		if session.SessionStatus == model.SessionStatusConfirmed {
			return ErrConfirmedLocked
		}

		now := time.Now().UTC()
		if !accept {
			status := model.ProposalStatusRejected
			session.SessionProposalStatus = &status
			session.SessionProposalDecidedAt = &now
			return tx.Model(&session).Updates(map[string]interface{}{
				"session_proposal_status":     status,
				"session_proposal_decided_at": now,
			}).Error
		}

		newStart := session.SessionProposedDate.UTC()
		newEnd := newStart.Add(time.Duration(session.SessionDurationHours * float64(time.Hour)))
		if err := s.checkConflict(tx, session.SessionTutorID, session.SessionID, newStart, newEnd); err != nil {
			return err
		}

		status := model.ProposalStatusAccepted
		session.SessionDate = newStart
		session.SessionStatus = model.SessionStatusConfirmed
		session.SessionProposalStatus = &status
		session.SessionProposalDecidedAt = &now
		return tx.Model(&session).Updates(map[string]interface{}{
			"session_date":                newStart,
			"session_status":              model.SessionStatusConfirmed,
			"session_proposal_status":     status,
			"session_proposal_decided_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

/* =========================================================
   Lifecycle transitions (tutor-driven)
========================================================= */

// Start moves a session to in_progress after re-running the conflict check;
// a session created later may have claimed the interval in the meantime.
func (s *SessionService) Start(sessionID, tutorID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() {
			return ErrTerminalState
		}
		if session.SessionStatus != model.SessionStatusPending &&
			session.SessionStatus != model.SessionStatusConfirmed {
			return ErrNotInProgressable
		}

		if err := s.checkConflict(tx, session.SessionTutorID, session.SessionID,
			session.SessionDate, session.EndTime()); err != nil {
			return err
		}

		session.SessionStatus = model.SessionStatusInProgress
		return tx.Model(&session).Update("session_status", model.SessionStatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Complete is the only path that decrements entitlement credit: one consume
// per linked student, inside the same transaction. A consume failure aborts
// the completion; a second completion attempt fails as terminal-state.
func (s *SessionService) Complete(sessionID, tutorID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() {
			return ErrTerminalState
		}

		now := time.Now().UTC()
		session.SessionStatus = model.SessionStatusCompleted
		session.SessionCompletedAt = &now
		if err := tx.Model(&session).Updates(map[string]interface{}{
			"session_status":       model.SessionStatusCompleted,
			"session_completed_at": now,
		}).Error; err != nil {
			return err
		}

		var students []model.SessionStudent
		if err := tx.
			Where("participant_session_id = ?", session.SessionID).
			Find(&students).Error; err != nil {
			return err
		}
		for i := range students {
			if err := s.Entitlements.Consume(tx, students[i].ParticipantEntitlementID); err != nil {
				return err
			}
		}

		return s.refreshTutorTotals(tx, session.SessionTutorID)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Cancel terminates a pending or confirmed session. Entitlement balances are
// never touched on cancellation.
func (s *SessionService) Cancel(sessionID, tutorID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() || session.SessionStatus == model.SessionStatusInProgress {
			return ErrTerminalState
		}
		session.SessionStatus = model.SessionStatusCancelled
		return tx.Model(&session).Update("session_status", model.SessionStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RevertToPending resets the confirmation protocol: meeting link cleared,
// every response back to unset, any proposal discarded.
func (s *SessionService) RevertToPending(sessionID, tutorID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() || session.SessionStatus == model.SessionStatusInProgress {
			return ErrTerminalState
		}

		if err := tx.Model(&model.SessionStudent{}).
			Where("participant_session_id = ?", session.SessionID).
			Updates(map[string]interface{}{
				"participant_response_status": model.ResponseStatusPending,
				"participant_responded_at":    nil,
				"participant_response_note":   "",
			}).Error; err != nil {
			return err
		}

		session.SessionStatus = model.SessionStatusPending
		session.SessionMeetingLink = ""
		session.SessionProposedDate = nil
		session.SessionProposalStatus = nil
		session.SessionProposalDecidedAt = nil
		return tx.Model(&session).Updates(map[string]interface{}{
			"session_status":              model.SessionStatusPending,
			"session_meeting_link":        "",
			"session_link_sent_at":        nil,
			"session_proposed_date":       nil,
			"session_proposal_status":     nil,
			"session_proposal_decided_at": nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SendLink stamps the meeting-link send time; mailing the participants is the
// caller's job. Rejected once the session is terminal.
func (s *SessionService) SendLink(sessionID, tutorID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Students").
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.IsTerminal() {
			return ErrTerminalState
		}
		if session.SessionMeetingLink == "" {
			return errors.New("session has no meeting link")
		}

		now := time.Now().UTC()
		session.SessionLinkSentAt = &now
		return tx.Model(&session).Update("session_link_sent_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete soft-deletes a session. Locked once the session has started.
func (s *SessionService) Delete(sessionID, tutorID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if session.SessionTutorID != tutorID {
			return ErrSessionNotOwned
		}
		if session.SessionStatus != model.SessionStatusPending &&
			session.SessionStatus != model.SessionStatusConfirmed {
			return ErrDeleteLocked
		}
		return tx.Delete(&session).Error
	})
}

/* =========================================================
   Rating
========================================================= */

// Rate upserts one student's rating and refreshes both the session aggregate
// and the tutor's session-rating average.
func (s *SessionService) Rate(sessionID, studentID uuid.UUID, rating float64, feedback string) (*model.Session, error) {
	var session model.Session
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "session_id = ?", sessionID).Error; err != nil {
			return err
		}

		var me model.SessionStudent
		if err := tx.First(&me,
			"participant_session_id = ? AND participant_student_id = ?",
			sessionID, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}
		if me.ParticipantResponseStatus == model.ResponseStatusDeclined {
			return ErrDeclinedCannotRate
		}

		now := time.Now().UTC()
		me.ParticipantRating = &rating
		me.ParticipantFeedback = feedback
		me.ParticipantRatedAt = &now
		if err := tx.Save(&me).Error; err != nil {
			return err
		}

		var all []model.SessionStudent
		if err := tx.
			Where("participant_session_id = ?", sessionID).
			Order("participant_position ASC").
			Find(&all).Error; err != nil {
			return err
		}
		session.Students = all
		session.SessionRating = model.AggregateRating(all)
		if err := tx.Model(&session).
			Update("session_rating", session.SessionRating).Error; err != nil {
			return err
		}

		return s.refreshTutorSessionRating(tx, session.SessionTutorID)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// refreshTutorSessionRating recomputes the tutor's mean session rating across
// completed and in-progress sessions that carry one.
func (s *SessionService) refreshTutorSessionRating(tx *gorm.DB, tutorID uuid.UUID) error {
	var rated []model.Session
	if err := tx.
		Where("session_tutor_id = ?", tutorID).
		Where("session_status IN ?", []string{model.SessionStatusCompleted, model.SessionStatusInProgress}).
		Where("session_rating IS NOT NULL").
		Find(&rated).Error; err != nil {
		return err
	}

	mean := 0.0
	if len(rated) > 0 {
		sum := 0.0
		for i := range rated {
			sum += *rated[i].SessionRating
		}
		mean = math.Round(sum/float64(len(rated))*10) / 10
	}
	return tx.Model(&usermodel.TutorProfile{}).
		Where("tutor_profile_id = ?", tutorID).
		Update("tutor_session_rating_average", mean).Error
}

// refreshTutorTotals recounts the tutor's completed sessions.
func (s *SessionService) refreshTutorTotals(tx *gorm.DB, tutorID uuid.UUID) error {
	completed, err := s.completedSessionTotal(tx, tutorID)
	if err != nil {
		return err
	}
	return tx.Model(&usermodel.TutorProfile{}).
		Where("tutor_profile_id = ?", tutorID).
		Update("tutor_total_sessions", completed).Error
}
