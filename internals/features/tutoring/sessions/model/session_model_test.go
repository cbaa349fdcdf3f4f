package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		responses []string
		want      string
	}{
		{"all pending stays pending", SessionStatusPending, []string{"pending", "pending"}, SessionStatusPending},
		{"any confirmed wins", SessionStatusPending, []string{"confirmed", "pending"}, SessionStatusConfirmed},
		{"confirmed beats declined", SessionStatusPending, []string{"confirmed", "declined"}, SessionStatusConfirmed},
		{"all declined cancels", SessionStatusPending, []string{"declined", "declined"}, SessionStatusCancelled},
		{"single declined cancels", SessionStatusPending, []string{"declined"}, SessionStatusCancelled},
		{"mixed declined and pending stays pending", SessionStatusPending, []string{"declined", "pending"}, SessionStatusPending},
		{"recompute can drop confirmed back to pending", SessionStatusConfirmed, []string{"pending", "pending"}, SessionStatusPending},
		{"in_progress never regresses", SessionStatusInProgress, []string{"declined", "declined"}, SessionStatusInProgress},
		{"completed never regresses", SessionStatusCompleted, []string{"pending"}, SessionStatusCompleted},
		{"no responses stays pending", SessionStatusPending, nil, SessionStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecomputeStatus(tt.current, tt.responses))
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	hour := time.Hour

	// Existing session 10:00-11:00.
	start, end := base, base.Add(hour)

	assert.True(t, Overlaps(start, end, base.Add(30*time.Minute), base.Add(90*time.Minute)), "partial overlap")
	assert.True(t, Overlaps(start, end, base.Add(-30*time.Minute), base.Add(30*time.Minute)), "overlap from before")
	assert.True(t, Overlaps(start, end, base.Add(15*time.Minute), base.Add(45*time.Minute)), "contained")
	assert.True(t, Overlaps(start, end, base.Add(-time.Hour), base.Add(2*time.Hour)), "containing")

	// Half-open: back-to-back sessions do not conflict.
	assert.False(t, Overlaps(start, end, end, end.Add(hour)), "starts exactly at existing end")
	assert.False(t, Overlaps(start, end, start.Add(-hour), start), "ends exactly at existing start")
	assert.False(t, Overlaps(start, end, base.Add(2*hour), base.Add(3*hour)), "disjoint")
}

func TestAggregateRating(t *testing.T) {
	r := func(v float64) *float64 { return &v }

	t.Run("no ratings yet", func(t *testing.T) {
		students := []SessionStudent{{}, {}}
		assert.Nil(t, AggregateRating(students))
	})

	t.Run("single rating", func(t *testing.T) {
		students := []SessionStudent{{ParticipantRating: r(4)}}
		got := AggregateRating(students)
		require.NotNil(t, got)
		assert.Equal(t, 4.0, *got)
	})

	t.Run("mean rounded to one decimal", func(t *testing.T) {
		students := []SessionStudent{
			{ParticipantRating: r(5)},
			{ParticipantRating: r(4)},
			{ParticipantRating: r(4)},
		}
		got := AggregateRating(students)
		require.NotNil(t, got)
		assert.Equal(t, 4.3, *got)
	})

	t.Run("unrated students excluded from the mean", func(t *testing.T) {
		students := []SessionStudent{
			{ParticipantRating: r(2)},
			{},
			{ParticipantRating: r(5)},
		}
		got := AggregateRating(students)
		require.NotNil(t, got)
		assert.Equal(t, 3.5, *got)
	})
}

func TestSessionEndTime(t *testing.T) {
	s := Session{
		SessionDate:          time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		SessionDurationHours: 1.5,
	}
	assert.Equal(t, time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC), s.EndTime())
}

func TestSessionIsTerminal(t *testing.T) {
	assert.True(t, (&Session{SessionStatus: SessionStatusCompleted}).IsTerminal())
	assert.True(t, (&Session{SessionStatus: SessionStatusCancelled}).IsTerminal())
	assert.False(t, (&Session{SessionStatus: SessionStatusInProgress}).IsTerminal())
	assert.False(t, (&Session{SessionStatus: SessionStatusPending}).IsTerminal())
	assert.False(t, (&Session{SessionStatus: SessionStatusConfirmed}).IsTerminal())
}
