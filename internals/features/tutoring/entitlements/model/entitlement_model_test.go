package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func activeEntitlement(now time.Time) Entitlement {
	start := now.Add(-24 * time.Hour)
	end := now.Add(10 * 24 * time.Hour)
	return Entitlement{
		EntitlementID:                uuid.New(),
		EntitlementPaymentStatus:     PaymentStatusPaid,
		EntitlementValidityStatus:    ValidityStatusActive,
		EntitlementValidityStart:     &start,
		EntitlementValidityEnd:       &end,
		EntitlementTotalSessions:     8,
		EntitlementSessionsRemaining: 3,
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no window means not expired", func(t *testing.T) {
		e := Entitlement{}
		assert.False(t, e.IsExpired(now))
	})

	t.Run("end in the future", func(t *testing.T) {
		end := now.Add(time.Hour)
		e := Entitlement{EntitlementValidityEnd: &end}
		assert.False(t, e.IsExpired(now))
	})

	t.Run("end exactly now is expired", func(t *testing.T) {
		e := Entitlement{EntitlementValidityEnd: &now}
		assert.True(t, e.IsExpired(now))
	})

	t.Run("end in the past", func(t *testing.T) {
		end := now.Add(-time.Minute)
		e := Entitlement{EntitlementValidityEnd: &end}
		assert.True(t, e.IsExpired(now))
	})
}

func TestIsAuthorizing(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("paid active in-window with credits", func(t *testing.T) {
		e := activeEntitlement(now)
		assert.True(t, e.IsAuthorizing(now))
	})

	t.Run("unpaid never authorizes", func(t *testing.T) {
		e := activeEntitlement(now)
		e.EntitlementPaymentStatus = PaymentStatusPending
		assert.False(t, e.IsAuthorizing(now))
	})

	t.Run("expired validity status", func(t *testing.T) {
		e := activeEntitlement(now)
		e.EntitlementValidityStatus = ValidityStatusExpired
		assert.False(t, e.IsAuthorizing(now))
	})

	t.Run("lapsed window", func(t *testing.T) {
		e := activeEntitlement(now)
		past := now.Add(-time.Hour)
		e.EntitlementValidityEnd = &past
		assert.False(t, e.IsAuthorizing(now))
	})

	t.Run("exhausted credits", func(t *testing.T) {
		e := activeEntitlement(now)
		e.EntitlementSessionsRemaining = 0
		assert.False(t, e.IsAuthorizing(now))
	})
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unpaid states show the payment status", func(t *testing.T) {
		e := Entitlement{EntitlementPaymentStatus: PaymentStatusPending}
		assert.Equal(t, PaymentStatusPending, e.EffectiveStatus(now))

		e.EntitlementPaymentStatus = PaymentStatusFailed
		assert.Equal(t, PaymentStatusFailed, e.EffectiveStatus(now))
	})

	t.Run("paid but lapsed shows expired", func(t *testing.T) {
		e := activeEntitlement(now)
		past := now.Add(-time.Hour)
		e.EntitlementValidityEnd = &past
		assert.Equal(t, ValidityStatusExpired, e.EffectiveStatus(now))
	})

	t.Run("paid and in-window shows active", func(t *testing.T) {
		e := activeEntitlement(now)
		assert.Equal(t, ValidityStatusActive, e.EffectiveStatus(now))
	})
}

func TestBuildRenewal(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	source := activeEntitlement(now)
	source.EntitlementBaseAmount = 35
	source.EntitlementDiscountPercentage = 10
	source.EntitlementSessionsRemaining = 1
	source.EntitlementCurrency = "GBP"

	clone := source.BuildRenewal()

	assert.Equal(t, source.EntitlementBaseAmount, clone.EntitlementBaseAmount)
	assert.Equal(t, source.EntitlementDiscountPercentage, clone.EntitlementDiscountPercentage)
	assert.Equal(t, source.EntitlementTotalSessions, clone.EntitlementTotalSessions)

	// The clone waits for its own activation regardless of the source balance.
	assert.Equal(t, 0, clone.EntitlementSessionsRemaining)
	assert.Equal(t, PaymentStatusPending, clone.EntitlementPaymentStatus)
	assert.Equal(t, ValidityStatusPending, clone.EntitlementValidityStatus)
	assert.Nil(t, clone.EntitlementValidityStart)
	assert.Nil(t, clone.EntitlementValidityEnd)

	assert.True(t, clone.EntitlementIsRenewal)
	if assert.NotNil(t, clone.EntitlementRenewedFromID) {
		assert.Equal(t, source.EntitlementID, *clone.EntitlementRenewedFromID)
	}
}
