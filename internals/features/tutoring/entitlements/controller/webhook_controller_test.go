package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
	svc "tutorlink_backend/internals/features/tutoring/entitlements/service"
)

const testServerKey = "test-server-key"

func newWebhookApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	h := NewWebhookController(db, svc.NewEntitlementService(db), testServerKey)
	app := fiber.New()
	app.Post("/api/payments/notification", h.HandleNotification)
	return app, mock
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	app, mock := newWebhookApp(t)

	body, err := json.Marshal(map[string]string{
		"order_id":           "ENT-x-1",
		"status_code":        "200",
		"gross_amount":       "120.00",
		"transaction_status": "settlement",
		"signature_key":      "deadbeef",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/payments/notification", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A repeated settlement notification still maps to its entitlement through
// the order id recorded at checkout, even after activation stored the
// gateway's own transaction id, and is acknowledged as a duplicate.
func TestHandleNotificationDuplicateSettlementStillMapsByOrderID(t *testing.T) {
	app, mock := newWebhookApp(t)

	orderID := "ENT-" + uuid.New().String() + "-1756400000000"
	sig := sha512sum(orderID + "200" + "120.00" + testServerKey)
	entID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "entitlements" WHERE entitlement_gateway_order_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"entitlement_id", "entitlement_payment_status"}).
			AddRow(entID.String(), model.PaymentStatusPaid))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "entitlements" WHERE entitlement_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"entitlement_id", "entitlement_payment_status"}).
			AddRow(entID.String(), model.PaymentStatusPaid))
	mock.ExpectRollback()

	body, err := json.Marshal(map[string]string{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "120.00",
		"transaction_status": "settlement",
		"transaction_id":     "mid-42",
		"fraud_status":       "accept",
		"signature_key":      sig,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/payments/notification", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), `"status":"ok"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
