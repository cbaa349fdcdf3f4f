package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDispositionFor(t *testing.T) {
	t.Run("no record creates one", func(t *testing.T) {
		assert.Equal(t, RequestCreate, DispositionFor(nil))
	})

	t.Run("pending blocks a second request", func(t *testing.T) {
		h := HireRequest{HireStatus: HireStatusPending}
		assert.Equal(t, RequestBlocked, DispositionFor(&h))
	})

	t.Run("accepted blocks a second request", func(t *testing.T) {
		h := HireRequest{HireStatus: HireStatusAccepted}
		assert.Equal(t, RequestBlocked, DispositionFor(&h))
	})

	t.Run("rejected is resubmitted in place", func(t *testing.T) {
		h := HireRequest{HireStatus: HireStatusRejected}
		assert.Equal(t, RequestResubmit, DispositionFor(&h))
	})
}

// Walks the full request cycle: pending -> rejected -> pending (resubmitted in
// place) -> accepted, with the single-non-rejected-record rule holding at
// every step.
func TestHireRequestCycle(t *testing.T) {
	firstSubject := uuid.New()
	firstLevel := uuid.New()
	h := HireRequest{
		HireID:              uuid.New(),
		HireStudentID:       uuid.New(),
		HireTutorID:         uuid.New(),
		HireSubjectID:       firstSubject,
		HireAcademicLevelID: firstLevel,
		HireStatus:          HireStatusPending,
		HireRequestedAt:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	// While pending, a new request for the pair is blocked and the tutor may
	// still decide.
	assert.Equal(t, RequestBlocked, DispositionFor(&h))
	assert.True(t, h.CanDecide())

	h.Decide(false)
	assert.Equal(t, HireStatusRejected, h.HireStatus)
	assert.False(t, h.CanDecide())
	assert.Equal(t, RequestResubmit, DispositionFor(&h))

	// Resubmitting reuses the same row: new terms, fresh timestamp, back to
	// pending. No second record ever comes into existence.
	newSubject := uuid.New()
	newLevel := uuid.New()
	resubmittedAt := time.Date(2026, 9, 2, 9, 30, 0, 0, time.UTC)
	h.Resubmit(newSubject, newLevel, resubmittedAt)

	assert.Equal(t, HireStatusPending, h.HireStatus)
	assert.Equal(t, newSubject, h.HireSubjectID)
	assert.Equal(t, newLevel, h.HireAcademicLevelID)
	assert.Equal(t, resubmittedAt, h.HireRequestedAt)
	assert.True(t, h.CanDecide())
	assert.Equal(t, RequestBlocked, DispositionFor(&h))

	h.Decide(true)
	assert.True(t, h.IsAccepted())
	assert.False(t, h.CanDecide())
	assert.Equal(t, RequestBlocked, DispositionFor(&h))
}
