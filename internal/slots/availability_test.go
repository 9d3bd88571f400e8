package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructai/demobooking/internal/entity"
)

func booking(start time.Time, status entity.BookingStatus) *entity.Booking {
	return &entity.Booking{DemoStart: start, DurationMinutes: 30, Status: status}
}

func TestIsAvailable(t *testing.T) {
	cfg := testConfig(t)
	slot := time.Date(2026, time.September, 7, 10, 0, 0, 0, cfg.Location)

	tests := []struct {
		name     string
		bookings []*entity.Booking
		want     bool
	}{
		{"no bookings", nil, true},
		{"same start scheduled", []*entity.Booking{booking(slot, entity.BookingStatusScheduled)}, false},
		{"same start confirmed", []*entity.Booking{booking(slot, entity.BookingStatusConfirmed)}, false},
		{"cancelled does not hold the slot", []*entity.Booking{booking(slot, entity.BookingStatusCancelled)}, true},
		{"rescheduled does not hold the slot", []*entity.Booking{booking(slot, entity.BookingStatusRescheduled)}, true},
		{"completed does not hold the slot", []*entity.Booking{booking(slot, entity.BookingStatusCompleted)}, true},
		{"adjacent earlier slot", []*entity.Booking{booking(slot.Add(-30*time.Minute), entity.BookingStatusScheduled)}, true},
		{"adjacent later slot", []*entity.Booking{booking(slot.Add(30*time.Minute), entity.BookingStatusScheduled)}, true},
		{"overlapping interval", []*entity.Booking{booking(slot.Add(-15*time.Minute), entity.BookingStatusScheduled)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAvailable(slot, cfg.Duration(), tt.bookings)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotate(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 7, 8, 0, 0, 0, cfg.Location)
	list := Generate(now, cfg)
	require.NotEmpty(t, list)

	taken := list[3].StartsAt
	Annotate(list, cfg.Duration(), []*entity.Booking{
		booking(taken, entity.BookingStatusScheduled),
		booking(list[5].StartsAt, entity.BookingStatusCancelled),
	})

	for i, s := range list {
		if i == 3 {
			assert.False(t, s.Available, "booked slot %s must be marked taken", s.ID)
			continue
		}
		assert.True(t, s.Available, "slot %s must stay available", s.ID)
	}
}
