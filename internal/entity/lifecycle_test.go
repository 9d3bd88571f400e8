package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	start := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	after := start.Add(time.Hour)

	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		now     time.Time
		wantErr bool
	}{
		{"scheduled to confirmed before start", BookingStatusScheduled, BookingStatusConfirmed, before, false},
		{"scheduled to confirmed after start", BookingStatusScheduled, BookingStatusConfirmed, after, true},
		{"scheduled to confirmed at start", BookingStatusScheduled, BookingStatusConfirmed, start, true},
		{"scheduled to completed after start", BookingStatusScheduled, BookingStatusCompleted, after, false},
		{"scheduled to completed at start", BookingStatusScheduled, BookingStatusCompleted, start, false},
		{"scheduled to completed before start", BookingStatusScheduled, BookingStatusCompleted, before, true},
		{"scheduled to cancelled before start", BookingStatusScheduled, BookingStatusCancelled, before, false},
		{"scheduled to cancelled after start", BookingStatusScheduled, BookingStatusCancelled, after, false},
		{"scheduled to rescheduled", BookingStatusScheduled, BookingStatusRescheduled, before, false},
		{"confirmed to completed after start", BookingStatusConfirmed, BookingStatusCompleted, after, false},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, before, false},
		{"confirmed to rescheduled", BookingStatusConfirmed, BookingStatusRescheduled, after, false},
		{"confirmed to scheduled", BookingStatusConfirmed, BookingStatusScheduled, before, true},
		{"completed to scheduled", BookingStatusCompleted, BookingStatusScheduled, after, true},
		{"completed to cancelled", BookingStatusCompleted, BookingStatusCancelled, after, true},
		{"cancelled to confirmed", BookingStatusCancelled, BookingStatusConfirmed, before, true},
		{"rescheduled to scheduled", BookingStatusRescheduled, BookingStatusScheduled, before, true},
		{"self transition", BookingStatusScheduled, BookingStatusScheduled, before, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, start, tt.now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	assert.True(t, BookingStatusScheduled.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusRescheduled.IsActive())

	assert.False(t, BookingStatusScheduled.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusRescheduled.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	got, err := ParseBookingStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, BookingStatusConfirmed, got)

	_, err = ParseBookingStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseContactMethod(t *testing.T) {
	got, err := ParseContactMethod("")
	assert.NoError(t, err)
	assert.Equal(t, ContactMethodVideo, got)

	got, err = ParseContactMethod("phone")
	assert.NoError(t, err)
	assert.Equal(t, ContactMethodPhone, got)

	_, err = ParseContactMethod("carrier-pigeon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
