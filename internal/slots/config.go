package slots

import (
	"fmt"
	"time"
)

// Config описывает сетку слотов. Все поля интерпретируются
// в Location: рабочие часы задаются по настенным часам зоны.
type Config struct {
	DurationMinutes    int
	BusinessHoursStart int
	BusinessHoursEnd   int
	DaysAhead          int
	Weekdays           map[time.Weekday]bool
	Location           *time.Location
}

func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// Validate отклоняет конфигурацию, при которой сетка вырождается.
func (c Config) Validate() error {
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", c.DurationMinutes)
	}
	if c.BusinessHoursStart < 0 || c.BusinessHoursEnd > 24 || c.BusinessHoursStart >= c.BusinessHoursEnd {
		return fmt.Errorf("invalid business hours %d..%d", c.BusinessHoursStart, c.BusinessHoursEnd)
	}
	if c.DurationMinutes > (c.BusinessHoursEnd-c.BusinessHoursStart)*60 {
		return fmt.Errorf("slot duration %dm does not fit business hours %d..%d",
			c.DurationMinutes, c.BusinessHoursStart, c.BusinessHoursEnd)
	}
	if c.DaysAhead <= 0 {
		return fmt.Errorf("days ahead must be positive, got %d", c.DaysAhead)
	}
	if len(c.Weekdays) == 0 {
		return fmt.Errorf("at least one bookable weekday is required")
	}
	if c.Location == nil {
		return fmt.Errorf("timezone location is required")
	}
	return nil
}

// BusinessHoursString возвращает человекочитаемое описание рабочего окна,
// например "9:00 AM - 5:00 PM".
func (c Config) BusinessHoursString() string {
	format := func(hour int) string {
		suffix := "AM"
		h := hour
		switch {
		case hour == 0:
			h = 12
		case hour == 12:
			suffix = "PM"
		case hour > 12:
			h = hour - 12
			suffix = "PM"
		}
		return fmt.Sprintf("%d:00 %s", h, suffix)
	}
	return format(c.BusinessHoursStart) + " - " + format(c.BusinessHoursEnd)
}
