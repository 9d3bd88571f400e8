package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return Config{
		DurationMinutes:    30,
		BusinessHoursStart: 9,
		BusinessHoursEnd:   17,
		DaysAhead:          14,
		Weekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Location: loc,
	}
}

func TestGenerate_MondayMorning(t *testing.T) {
	cfg := testConfig(t)
	// Понедельник 08:00 — до начала рабочего дня.
	now := time.Date(2026, time.September, 7, 8, 0, 0, 0, cfg.Location)

	slots := Generate(now, cfg)
	require.NotEmpty(t, slots)

	assert.Equal(t, "2026-09-07-09:00", slots[0].ID)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)

	// Последний слот понедельника начинается в 16:30: 17:00 уже не влезает.
	var lastMonday string
	for _, s := range slots {
		if s.Date == "2026-09-07" {
			lastMonday = s.ID
		}
	}
	assert.Equal(t, "2026-09-07-16:30", lastMonday)
}

func TestGenerate_ExcludesSlotsAtOrBeforeNow(t *testing.T) {
	cfg := testConfig(t)
	// Ровно на границе слота: сам слот 10:00 уже не предлагается.
	now := time.Date(2026, time.September, 7, 10, 0, 0, 0, cfg.Location)

	slots := Generate(now, cfg)
	require.NotEmpty(t, slots)
	assert.Equal(t, "2026-09-07-10:30", slots[0].ID)

	for _, s := range slots {
		assert.True(t, s.StartsAt.After(now), "slot %s is not after now", s.ID)
	}
}

func TestGenerate_WeekdaysAndBusinessHoursOnly(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 5, 7, 0, 0, 0, cfg.Location) // суббота

	slots := Generate(now, cfg)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		wd := s.StartsAt.Weekday()
		assert.True(t, cfg.Weekdays[wd], "slot %s falls on %s", s.ID, wd)

		m := s.StartsAt.Hour()*60 + s.StartsAt.Minute()
		assert.GreaterOrEqual(t, m, cfg.BusinessHoursStart*60)
		assert.LessOrEqual(t, m+cfg.DurationMinutes, cfg.BusinessHoursEnd*60)
	}
}

func TestGenerate_DeterministicAndOrdered(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 9, 11, 17, 0, 0, cfg.Location)

	first := Generate(now, cfg)
	second := Generate(now, cfg)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i].StartsAt.After(first[i-1].StartsAt),
			"slots out of order at %d: %s then %s", i, first[i-1].ID, first[i].ID)
	}
}

func TestGenerate_FullDaySlotCount(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, time.September, 7, 0, 30, 0, 0, cfg.Location)

	slots := Generate(now, cfg)

	perDay := map[string]int{}
	for _, s := range slots {
		perDay[s.Date]++
	}
	// 8 рабочих часов по 30 минут = 16 слотов в полном дне.
	assert.Equal(t, 16, perDay["2026-09-07"])
	assert.Equal(t, 16, perDay["2026-09-08"])
	assert.Equal(t, 0, perDay["2026-09-12"]) // суббота
	assert.Equal(t, 0, perDay["2026-09-13"]) // воскресенье
}

func TestGenerate_DSTTransitionDayKeepsWallClock(t *testing.T) {
	cfg := testConfig(t)
	cfg.Weekdays[time.Sunday] = true
	// 2026-03-08: в America/New_York день перевода часов (23 часа).
	now := time.Date(2026, time.March, 8, 0, 30, 0, 0, cfg.Location)

	slots := Generate(now, cfg)

	var day []string
	for _, s := range slots {
		if s.Date == "2026-03-08" {
			day = append(day, s.StartTime)
		}
	}
	require.Len(t, day, 16)
	assert.Equal(t, "09:00", day[0])
	assert.Equal(t, "16:30", day[len(day)-1])
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero duration", func(c *Config) { c.DurationMinutes = 0 }, true},
		{"start after end", func(c *Config) { c.BusinessHoursStart = 18 }, true},
		{"duration exceeds window", func(c *Config) { c.DurationMinutes = 600 }, true},
		{"no weekdays", func(c *Config) { c.Weekdays = nil }, true},
		{"no horizon", func(c *Config) { c.DaysAhead = 0 }, true},
		{"no location", func(c *Config) { c.Location = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBusinessHoursString(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "9:00 AM - 5:00 PM", cfg.BusinessHoursString())
}
