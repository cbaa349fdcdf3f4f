package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
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

// A consume on an exhausted entitlement matches zero rows and returns no
// error: the guard makes the decrement atomic and the zero-balance case a
// silent no-op.
func TestConsumeIsNoOpAtZero(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "entitlements" SET .*entitlement_sessions_remaining - 1.* WHERE entitlement_id = \$1 AND entitlement_sessions_remaining > 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Consume(db, uuid.New())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileExpiry(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("writes through the caller's transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewEntitlementService(db)

		lapsed := now.Add(-time.Hour)
		ent := model.Entitlement{
			EntitlementID:             uuid.New(),
			EntitlementPaymentStatus:  model.PaymentStatusPaid,
			EntitlementValidityStatus: model.ValidityStatusActive,
			EntitlementValidityEnd:    &lapsed,
		}

		// A single begin/exec/commit sequence: the status flip runs on the
		// enclosing transaction, not on a second connection-level one.
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "entitlements" SET "entitlement_validity_status"=\$1,.* WHERE entitlement_id = \$3 AND entitlement_validity_status = \$4`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.ReconcileExpiry(tx, &ent, now)
		})
		assert.NoError(t, err)
		assert.Equal(t, model.ValidityStatusExpired, ent.EntitlementValidityStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-active status issues no write", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewEntitlementService(db)

		lapsed := now.Add(-time.Hour)
		ent := model.Entitlement{
			EntitlementID:             uuid.New(),
			EntitlementValidityStatus: model.ValidityStatusExpired,
			EntitlementValidityEnd:    &lapsed,
		}

		err := svc.ReconcileExpiry(db, &ent, now)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
