package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans must be called once at bootstrap.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CheckoutAmount is the charge for one entitlement period: the monthly amount
// when set, otherwise the per-session rate times the session count with the
// discount applied.
func CheckoutAmount(e model.Entitlement) float64 {
	if e.EntitlementMonthlyAmount != nil && *e.EntitlementMonthlyAmount > 0 {
		return *e.EntitlementMonthlyAmount
	}
	gross := e.EntitlementBaseAmount * float64(e.EntitlementTotalSessions)
	net := gross * (1 - e.EntitlementDiscountPercentage/100)
	return math.Round(net*100) / 100
}

// BuildOrderID mints the gateway order id for one checkout attempt; the
// webhook resolves the entitlement back from it.
func BuildOrderID(e model.Entitlement, now time.Time) string {
	return fmt.Sprintf("ENT-%s-%d", e.EntitlementID, now.UnixMilli())
}

// GenerateSnapToken creates a Snap checkout for the entitlement.
// Returns (token, redirect URL, order id).
func GenerateSnapToken(e model.Entitlement, cust CustomerInput, now time.Time) (string, string, string, error) {
	amount := CheckoutAmount(e)
	if amount <= 0 {
		return "", "", "", errors.New("invalid checkout amount")
	}
	if e.EntitlementPaymentStatus == model.PaymentStatusPaid {
		return "", "", "", ErrAlreadyPaid
	}

	orderID := BuildOrderID(e, now)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(math.Round(amount * 100)),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    e.EntitlementID.String(),
				Price: int64(math.Round(amount * 100)),
				Qty:   1,
				Name: fmt.Sprintf("Tutoring package (%d sessions / %d days)",
					e.EntitlementTotalSessions, model.ValidityDays),
				Category: "tutoring",
			},
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", "", err
	}
	return resp.Token, resp.RedirectURL, orderID, nil
}
