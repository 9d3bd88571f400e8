package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructai/demobooking/internal/entity"
)

func TestParseID_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 7, 8, 0, 0, 0, cfg.Location)

	for _, s := range Generate(now, cfg) {
		start, err := ParseID(s.ID, cfg)
		require.NoError(t, err, "generated slot %s must parse", s.ID)
		assert.True(t, start.Equal(s.StartsAt), "round trip mismatch for %s", s.ID)
	}
}

func TestParseID_Rejects(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		id   string
	}{
		{"unpadded hour", "2026-01-10-9:00"},
		{"month out of range", "2026-13-01-09:00"},
		{"day out of range", "2026-02-30-09:00"},
		{"missing time", "2026-01-10"},
		{"space separator", "2026-01-10 09:00"},
		{"garbage", "next-monday-morning"},
		{"empty", ""},
		{"off grid minutes", "2026-09-07-09:15"},
		{"before business hours", "2026-09-07-08:30"},
		{"slot would end after close", "2026-09-07-17:00"},
		{"saturday", "2026-09-05-09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.id, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrInvalidSlotFormat)
		})
	}
}

func TestInWindow(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 7, 8, 0, 0, 0, cfg.Location)

	inside, err := ParseID("2026-09-08-10:00", cfg)
	require.NoError(t, err)
	assert.True(t, InWindow(inside, now, cfg))

	past, err := ParseID("2026-09-04-10:00", cfg)
	require.NoError(t, err)
	assert.False(t, InWindow(past, now, cfg))

	// За горизонтом в days_ahead дней.
	far, err := ParseID("2026-10-05-10:00", cfg)
	require.NoError(t, err)
	assert.False(t, InWindow(far, now, cfg))
}
