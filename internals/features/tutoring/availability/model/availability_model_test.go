package model

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// Monday 2026-09-07, windows Mon-Fri 09:00-17:00.
func testCalendar() Calendar {
	windows := []AvailabilityWindow{}
	for weekday := 0; weekday <= 6; weekday++ {
		windows = append(windows, AvailabilityWindow{
			WindowWeekday:   weekday,
			WindowStartTime: "09:00",
			WindowEndTime:   "17:00",
			WindowEnabled:   weekday >= 1 && weekday <= 5,
		})
	}
	return Calendar{
		Profile: AvailabilityProfile{
			AvailabilityMinimumNoticeHours:  2,
			AvailabilityMaximumAdvanceDays:  30,
			AvailabilitySessionDurations:    pq.Int64Array{30, 60, 90, 120},
			AvailabilityIsAcceptingBookings: true,
		},
		Windows: windows,
	}
}

var (
	monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
)

func TestIsAvailable(t *testing.T) {
	now := monday.Add(-48 * time.Hour) // Saturday, well clear of the notice bound

	t.Run("inside an enabled window", func(t *testing.T) {
		c := testCalendar()
		assert.True(t, c.IsAvailable(now, monday.Add(10*time.Hour), 60))
	})

	t.Run("kill switch off", func(t *testing.T) {
		c := testCalendar()
		c.Profile.AvailabilityIsAcceptingBookings = false
		assert.False(t, c.IsAvailable(now, monday.Add(10*time.Hour), 60))
	})

	t.Run("duration not offered", func(t *testing.T) {
		c := testCalendar()
		assert.False(t, c.IsAvailable(now, monday.Add(10*time.Hour), 45))
	})

	t.Run("empty duration set allows anything", func(t *testing.T) {
		c := testCalendar()
		c.Profile.AvailabilitySessionDurations = nil
		assert.True(t, c.IsAvailable(now, monday.Add(10*time.Hour), 60))
	})

	t.Run("below minimum notice", func(t *testing.T) {
		c := testCalendar()
		late := monday.Add(10*time.Hour - 90*time.Minute) // 90 min before the slot
		assert.False(t, c.IsAvailable(late, monday.Add(10*time.Hour), 60))
	})

	t.Run("beyond maximum advance", func(t *testing.T) {
		c := testCalendar()
		farFuture := monday.AddDate(0, 0, 35).Add(10 * time.Hour)
		assert.False(t, c.IsAvailable(now, farFuture, 60))
	})

	t.Run("disabled weekday", func(t *testing.T) {
		c := testCalendar()
		assert.False(t, c.IsAvailable(now.Add(-48*time.Hour), sunday.Add(10*time.Hour), 60))
	})

	t.Run("session must fit entirely in the window", func(t *testing.T) {
		c := testCalendar()
		// 16:30 + 60 min runs past 17:00.
		assert.False(t, c.IsAvailable(now, monday.Add(16*time.Hour+30*time.Minute), 60))
		// 16:00 + 60 min ends exactly at the window edge.
		assert.True(t, c.IsAvailable(now, monday.Add(16*time.Hour), 60))
	})

	t.Run("before the window opens", func(t *testing.T) {
		c := testCalendar()
		assert.False(t, c.IsAvailable(now, monday.Add(8*time.Hour), 60))
	})

	t.Run("active blackout blocks the slot", func(t *testing.T) {
		c := testCalendar()
		c.Blackouts = []AvailabilityBlackout{{
			BlackoutStart:  monday.Add(9 * time.Hour),
			BlackoutEnd:    monday.Add(12 * time.Hour),
			BlackoutActive: true,
		}}
		assert.False(t, c.IsAvailable(now, monday.Add(10*time.Hour), 60))
		// Slot starting exactly at blackout end is fine (half-open).
		assert.True(t, c.IsAvailable(now, monday.Add(12*time.Hour), 60))
	})

	t.Run("inactive blackout is ignored", func(t *testing.T) {
		c := testCalendar()
		c.Blackouts = []AvailabilityBlackout{{
			BlackoutStart:  monday.Add(9 * time.Hour),
			BlackoutEnd:    monday.Add(12 * time.Hour),
			BlackoutActive: false,
		}}
		assert.True(t, c.IsAvailable(now, monday.Add(10*time.Hour), 60))
	})
}

func TestSlots(t *testing.T) {
	now := monday.Add(-48 * time.Hour)

	t.Run("full day of hour slots", func(t *testing.T) {
		c := testCalendar()
		slots := c.Slots(now, monday, 60)
		// 09:00 through 16:00 inclusive, stepping 30 minutes.
		assert.Len(t, slots, 15)
		assert.Equal(t, monday.Add(9*time.Hour), slots[0])
		assert.Equal(t, monday.Add(16*time.Hour), slots[len(slots)-1])
	})

	t.Run("disabled day yields nothing", func(t *testing.T) {
		c := testCalendar()
		slots := c.Slots(now.Add(-48*time.Hour), sunday, 60)
		assert.Empty(t, slots)
	})

	t.Run("blackout removes mid-day slots", func(t *testing.T) {
		c := testCalendar()
		c.Blackouts = []AvailabilityBlackout{{
			BlackoutStart:  monday.Add(12 * time.Hour),
			BlackoutEnd:    monday.Add(14 * time.Hour),
			BlackoutActive: true,
		}}
		slots := c.Slots(now, monday, 60)
		for _, s := range slots {
			end := s.Add(time.Hour)
			overlaps := s.Before(monday.Add(14*time.Hour)) && end.After(monday.Add(12*time.Hour))
			assert.False(t, overlaps, "slot %v overlaps the blackout", s)
		}
		// 09:00-11:00 starts (5) + 14:00-16:00 starts (5).
		assert.Len(t, slots, 10)
	})

	t.Run("longer duration trims the tail", func(t *testing.T) {
		c := testCalendar()
		slots := c.Slots(now, monday, 120)
		assert.Equal(t, monday.Add(15*time.Hour), slots[len(slots)-1])
	})
}
