package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tutorlink_backend/internals/features/tutoring/entitlements/model"
)

func TestCheckoutAmount(t *testing.T) {
	t.Run("monthly amount wins when set", func(t *testing.T) {
		monthly := 199.99
		e := model.Entitlement{
			EntitlementMonthlyAmount: &monthly,
			EntitlementBaseAmount:    50,
			EntitlementTotalSessions: 8,
		}
		assert.Equal(t, 199.99, CheckoutAmount(e))
	})

	t.Run("derived from rate and session count", func(t *testing.T) {
		e := model.Entitlement{
			EntitlementBaseAmount:    30,
			EntitlementTotalSessions: 4,
		}
		assert.Equal(t, 120.0, CheckoutAmount(e))
	})

	t.Run("discount applied and rounded to pennies", func(t *testing.T) {
		e := model.Entitlement{
			EntitlementBaseAmount:         33.33,
			EntitlementTotalSessions:      3,
			EntitlementDiscountPercentage: 10,
		}
		// 99.99 * 0.9 = 89.991 → 89.99
		assert.Equal(t, 89.99, CheckoutAmount(e))
	})

	t.Run("zero monthly amount falls through", func(t *testing.T) {
		zero := 0.0
		e := model.Entitlement{
			EntitlementMonthlyAmount: &zero,
			EntitlementBaseAmount:    25,
			EntitlementTotalSessions: 2,
		}
		assert.Equal(t, 50.0, CheckoutAmount(e))
	})
}

func TestBuildOrderID(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	e := model.Entitlement{EntitlementID: id}

	got := BuildOrderID(e, now)
	assert.Equal(t, fmt.Sprintf("ENT-%s-%d", id, now.UnixMilli()), got)
}
