package service

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	entsvc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	hiresvc "tutorlink_backend/internals/features/tutoring/hires/service"
	"tutorlink_backend/internals/features/tutoring/sessions/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func newMockService(t *testing.T) (*SessionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	entitlements := entsvc.NewEntitlementService(db)
	hires := hiresvc.NewHireService(db, entitlements)
	return NewSessionService(db, entitlements, hires), mock
}

func TestCompleteRejectsDoubleCompletion(t *testing.T) {
	svc, mock := newMockService(t)
	sessionID, tutorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE session_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "session_tutor_id", "session_status"}).
			AddRow(sessionID.String(), tutorID.String(), model.SessionStatusCompleted))
	mock.ExpectRollback()

	_, err := svc.Complete(sessionID, tutorID)
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// expectPassingStudentChecks queues the account and hire stages for one
// student, through the level-terms lookup with the given cap.
func expectPassingStudentChecks(mock sqlmock.Sqlmock, in CreateSessionInput, studentUserID uuid.UUID, levelCap int) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tutor_profiles" WHERE tutor_profile_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"tutor_profile_id"}).
			AddRow(in.TutorID.String()))
	mock.ExpectQuery(`SELECT \* FROM "student_profiles" WHERE student_profile_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"student_profile_id", "student_user_id"}).
			AddRow(in.StudentIDs[0].String(), studentUserID.String()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "user_status"}).
			AddRow(studentUserID.String(), "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hire_requests" WHERE \(?hire_student_id = \$1 AND hire_tutor_id = \$2 AND hire_status = \$3\)?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "tutor_academic_levels" WHERE level_tutor_id = \$1 AND level_education_level_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"level_id", "level_tutor_id", "level_education_level_id", "level_hourly_rate", "level_total_sessions_per_month"}).
			AddRow(uuid.New().String(), in.TutorID.String(), in.AcademicLevelID.String(), 30.0, levelCap))
}

func createInput() CreateSessionInput {
	return CreateSessionInput{
		TutorID:         uuid.New(),
		StudentIDs:      []uuid.UUID{uuid.New()},
		SubjectID:       uuid.New(),
		AcademicLevelID: uuid.New(),
		Date:            time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		DurationHours:   1,
		HourlyRate:      30,
	}
}

// The cap compares against the tutor's entire completed history: the count is
// keyed by tutor and status only, so completed work on other levels fills the
// cap too. The cap stage also runs before any entitlement is consulted, so a
// capped tutor gets the cap error, never an entitlement breakdown.
func TestCreateSessionCapCountsEveryLevel(t *testing.T) {
	svc, mock := newMockService(t)
	in := createInput()

	expectPassingStudentChecks(mock, in, uuid.New(), 4)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "sessions" WHERE \(?session_tutor_id = \$1 AND session_status = \$2\)?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectRollback()

	_, err := svc.CreateSession(in)
	assert.ErrorIs(t, err, ErrCapExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// With the cap clear, a student whose entitlements are all unpaid, expired or
// exhausted is reported in the per-student breakdown.
func TestCreateSessionReportsExhaustedEntitlement(t *testing.T) {
	svc, mock := newMockService(t)
	in := createInput()

	expectPassingStudentChecks(mock, in, uuid.New(), 4)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "sessions" WHERE \(?session_tutor_id = \$1 AND session_status = \$2\)?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "entitlements" WHERE \(?entitlement_student_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"entitlement_id"}))
	mock.ExpectRollback()

	_, err := svc.CreateSession(in)

	var pre *PreconditionError
	require.True(t, errors.As(err, &pre))
	require.Len(t, pre.Failures, 1)
	assert.Equal(t, in.StudentIDs[0], pre.Failures[0].StudentID)
	assert.Contains(t, pre.Failures[0].Reason, "entitlement")
	assert.NoError(t, mock.ExpectationsWereMet())
}
