package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
	svc "tutorlink_backend/internals/features/tutoring/entitlements/service"
)

/* =======================================================================
   Gateway webhook — the gateway's side of the entitlement contract:
   settlement → Activate, deny/failure → MarkFailed, cancel → MarkCancelled,
   expire → MarkExpired.
======================================================================= */

type WebhookController struct {
	DB        *gorm.DB
	Service   *svc.EntitlementService
	ServerKey string
}

func NewWebhookController(db *gorm.DB, service *svc.EntitlementService, serverKey string) *WebhookController {
	return &WebhookController{DB: db, Service: service, ServerKey: serverKey}
}

type gatewayNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

// POST /api/payments/notification
func (h *WebhookController) HandleNotification(c *fiber.Ctx) error {
	var notif gatewayNotif
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	// Verify signature — SHA512(order_id + status_code + gross_amount + ServerKey).
	want := strings.ToLower(notif.SignatureKey)
	got := sha512sum(notif.OrderID + notif.StatusCode + notif.GrossAmount + h.ServerKey)
	if want == "" || got != want {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
	}

	var ent model.Entitlement
	if err := h.DB.WithContext(c.Context()).
		First(&ent, "entitlement_gateway_order_id = ?", notif.OrderID).Error; err != nil {
		// Answer 200 so the gateway stops retrying an order we cannot map.
		log.Printf("[WARN] webhook: no entitlement for order_id=%s", notif.OrderID)
		return c.JSON(fiber.Map{"status": "ignored", "reason": "entitlement not found"})
	}

	payload := map[string]interface{}{
		"transaction_status": notif.TransactionStatus,
		"transaction_id":     notif.TransactionID,
		"payment_type":       notif.PaymentType,
		"settlement_time":    notif.SettlementTime,
		"gross_amount":       notif.GrossAmount,
	}

	switch notif.TransactionStatus {
	case "capture", "settlement":
		if notif.FraudStatus != "" && notif.FraudStatus != "accept" {
			log.Printf("[WARN] webhook: fraud_status=%s order_id=%s, not activating", notif.FraudStatus, notif.OrderID)
			return c.JSON(fiber.Map{"status": "held"})
		}
		txID := notif.TransactionID
		if _, err := h.Service.Activate(ent.EntitlementID, &txID, payload); err != nil {
			if errors.Is(err, svc.ErrAlreadyPaid) {
				// Duplicate notification; acknowledged, nothing to redo.
				return c.JSON(fiber.Map{"status": "ok"})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	case "deny", "failure":
		if err := h.Service.MarkFailed(ent.EntitlementID, payload); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	case "cancel":
		if err := h.Service.MarkCancelled(ent.EntitlementID, payload); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	case "expire":
		if err := h.Service.MarkExpired(ent.EntitlementID, payload); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	default:
		// pending and friends: acknowledged, no transition.
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func sha512sum(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
