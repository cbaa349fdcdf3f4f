package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/sessions/dto"
	"tutorlink_backend/internals/features/tutoring/sessions/model"
	svc "tutorlink_backend/internals/features/tutoring/sessions/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
	"tutorlink_backend/internals/services/mailer"
)

/* =======================================================================
   Tutor-side session endpoints: creation and lifecycle transitions.
======================================================================= */

type SessionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.SessionService
	Mailer    mailer.Mailer
}

func NewSessionController(db *gorm.DB, service *svc.SessionService, m mailer.Mailer) *SessionController {
	return &SessionController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
		Mailer:    m,
	}
}

func (h *SessionController) tutorProfile(c *fiber.Ctx) (*usermodel.TutorProfile, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var tutor usermodel.TutorProfile
	if err := h.DB.WithContext(c.Context()).
		First(&tutor, "tutor_user_id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Tutor profile not found")
	}
	return &tutor, nil
}

// mapServiceError translates scheduler errors to HTTP responses. The
// precondition breakdown keeps its per-student detail.
func mapServiceError(c *fiber.Ctx, err error) error {
	var pre *svc.PreconditionError
	if errors.As(err, &pre) {
		return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
			"One or more students failed the session preconditions", pre.Failures)
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	case errors.Is(err, svc.ErrSessionNotOwned):
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this session")
	case errors.Is(err, svc.ErrScheduleConflict),
		errors.Is(err, svc.ErrCapExceeded):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrTerminalState),
		errors.Is(err, svc.ErrConfirmedLocked),
		errors.Is(err, svc.ErrNotInProgressable),
		errors.Is(err, svc.ErrNoProposal),
		errors.Is(err, svc.ErrDeleteLocked),
		errors.Is(err, svc.ErrBadDuration),
		errors.Is(err, svc.ErrDeclinedCannotRate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, svc.ErrNotParticipant):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// POST /api/u/tutor/sessions
func (h *SessionController) CreateSession(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := h.Service.CreateSession(svc.CreateSessionInput{
		TutorID:         tutor.TutorProfileID,
		StudentIDs:      req.StudentIDs,
		SubjectID:       req.SubjectID,
		AcademicLevelID: req.AcademicLevelID,
		Date:            req.Date,
		DurationHours:   req.DurationHours,
		HourlyRate:      req.HourlyRate,
		Notes:           req.Notes,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	h.notifyParticipants(session, "Session scheduled",
		"<p>A new tutoring session has been scheduled. Please confirm or decline.</p>")
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Session created", dto.FromModel(session))
}

// GET /api/u/tutor/sessions
func (h *SessionController) GetMySessions(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := h.DB.WithContext(c.Context()).Model(&model.Session{}).
		Where("session_tutor_id = ?", tutor.TutorProfileID)
	if status := c.Query("status"); status != "" {
		q = q.Where("session_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var sessions []model.Session
	if err := q.Preload("Students").
		Order("session_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&sessions).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.FromModel(&sessions[i]))
	}
	return helper.Success(c, "Sessions fetched", fiber.Map{
		"data":       out,
		"pagination": helper.BuildPagination(total, paging, len(out)),
	})
}

// PATCH /api/u/tutor/sessions/:id/start
func (h *SessionController) StartSession(c *fiber.Ctx) error {
	return h.transition(c, h.Service.Start, "Session started")
}

// PATCH /api/u/tutor/sessions/:id/complete
func (h *SessionController) CompleteSession(c *fiber.Ctx) error {
	return h.transition(c, h.Service.Complete, "Session completed")
}

// PATCH /api/u/tutor/sessions/:id/cancel
func (h *SessionController) CancelSession(c *fiber.Ctx) error {
	return h.transition(c, h.Service.Cancel, "Session cancelled")
}

// PATCH /api/u/tutor/sessions/:id/revert
func (h *SessionController) RevertSession(c *fiber.Ctx) error {
	return h.transition(c, h.Service.RevertToPending, "Session reverted to pending")
}

func (h *SessionController) transition(
	c *fiber.Ctx,
	op func(sessionID, tutorID uuid.UUID) (*model.Session, error),
	message string,
) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	session, err := op(sessionID, tutor.TutorProfileID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, message, dto.FromModel(session))
}

// PATCH /api/u/tutor/sessions/:id/proposal
func (h *SessionController) DecideProposal(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.DecideProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := h.Service.RespondToProposal(sessionID, tutor.TutorProfileID, req.Action == "accept")
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Proposal decided", dto.FromModel(session))
}

// POST /api/u/tutor/sessions/:id/propose
func (h *SessionController) ProposeTime(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var session model.Session
	if err := h.DB.WithContext(c.Context()).
		First(&session, "session_id = ?", sessionID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	if session.SessionTutorID != tutor.TutorProfileID {
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this session")
	}

	var req dto.ProposeTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := h.Service.ProposeTime(sessionID, uuid.Nil, req.ProposedDate)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Alternate time proposed", dto.FromModel(updated))
}

// POST /api/u/tutor/sessions/:id/send-link
func (h *SessionController) SendMeetingLink(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	session, err := h.Service.SendLink(sessionID, tutor.TutorProfileID)
	if err != nil {
		return mapServiceError(c, err)
	}

	h.notifyParticipants(session, "Your session meeting link",
		"<p>Join your tutoring session here: <a href=\""+session.SessionMeetingLink+"\">"+
			session.SessionMeetingLink+"</a></p>")
	return helper.Success(c, "Meeting link sent", dto.FromModel(session))
}

// GET /api/u/tutor/dashboard
func (h *SessionController) GetDashboard(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	db := h.DB.WithContext(c.Context())

	type statusCount struct {
		SessionStatus string `json:"session_status"`
		Total         int64  `json:"total"`
	}
	var rows []statusCount
	if err := db.Model(&model.Session{}).
		Select("session_status, COUNT(*) AS total").
		Where("session_tutor_id = ?", tutor.TutorProfileID).
		Group("session_status").
		Scan(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	counts := fiber.Map{}
	for _, r := range rows {
		counts[r.SessionStatus] = r.Total
	}

	var upcoming int64
	if err := db.Model(&model.Session{}).
		Where("session_tutor_id = ? AND session_status IN ? AND session_date > NOW()",
			tutor.TutorProfileID,
			[]string{model.SessionStatusPending, model.SessionStatusConfirmed}).
		Count(&upcoming).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var earnings struct{ Total float64 }
	if err := db.Model(&model.Session{}).
		Select("COALESCE(SUM(session_total_earnings), 0) AS total").
		Where("session_tutor_id = ? AND session_status = ?",
			tutor.TutorProfileID, model.SessionStatusCompleted).
		Scan(&earnings).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Dashboard fetched", fiber.Map{
		"sessions_by_status":     counts,
		"upcoming_sessions":      upcoming,
		"completed_earnings":     earnings.Total,
		"total_sessions":         tutor.TutorTotalSessions,
		"average_rating":         tutor.TutorAverageRating,
		"session_rating_average": tutor.TutorSessionRatingAverage,
	})
}

// DELETE /api/u/tutor/sessions/:id
func (h *SessionController) DeleteSession(c *fiber.Ctx) error {
	tutor, err := h.tutorProfile(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Service.Delete(sessionID, tutor.TutorProfileID); err != nil {
		return mapServiceError(c, err)
	}
	return helper.Success(c, "Session deleted", nil)
}

/* =========================================================
   Internals
========================================================= */

func (h *SessionController) notifyParticipants(session *model.Session, subject, html string) {
	for _, st := range session.Students {
		var profile usermodel.StudentProfile
		if err := h.DB.First(&profile, "student_profile_id = ?", st.ParticipantStudentID).Error; err != nil {
			continue
		}
		var user usermodel.User
		if err := h.DB.First(&user, "user_id = ?", profile.StudentUserID).Error; err != nil {
			continue
		}
		h.Mailer.Send(mailer.Message{To: []string{user.UserEmail}, Subject: subject, HTML: html})
	}
}
