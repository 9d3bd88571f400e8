package slots

import (
	"fmt"
	"regexp"
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

const idLayout = "2006-01-02-15:04"

// Жёсткая форма до разбора времени: time.Parse принял бы и
// однозначные часы, а идентификатор всегда дополняется нулями.
var idPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}:\d{2}$`)

// FormatID возвращает канонический идентификатор слота: YYYY-MM-DD-HH:MM
// в зоне расписания.
func FormatID(start time.Time) string {
	return start.Format(idLayout)
}

// ParseID разбирает идентификатор слота и возвращает время его начала.
// Отклоняется всё, чего генератор не мог выдать: кривая форма,
// несуществующая дата, время вне рабочих часов, минуты не по сетке,
// незабронированный день недели.
func ParseID(id string, cfg Config) (time.Time, error) {
	if !idPattern.MatchString(id) {
		return time.Time{}, fmt.Errorf("%w: %q", entity.ErrInvalidSlotFormat, id)
	}

	start, err := time.ParseInLocation(idLayout, id, cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", entity.ErrInvalidSlotFormat, id)
	}
	// time.Parse нормализует 2026-13-01 в 2027-01-01; перегон обратно
	// ловит такие значения.
	if FormatID(start) != id {
		return time.Time{}, fmt.Errorf("%w: %q", entity.ErrInvalidSlotFormat, id)
	}

	if !onGrid(start, cfg) {
		return time.Time{}, fmt.Errorf("%w: %q is not on the slot grid", entity.ErrInvalidSlotFormat, id)
	}

	return start, nil
}

func onGrid(start time.Time, cfg Config) bool {
	if !cfg.Weekdays[start.Weekday()] {
		return false
	}
	m := start.Hour()*60 + start.Minute()
	startMin := cfg.BusinessHoursStart * 60
	endMin := cfg.BusinessHoursEnd * 60
	if m < startMin || m+cfg.DurationMinutes > endMin {
		return false
	}
	return (m-startMin)%cfg.DurationMinutes == 0
}

// InWindow проверяет, что слот лежит в текущем окне бронирования:
// строго после now и не дальше горизонта.
func InWindow(start, now time.Time, cfg Config) bool {
	return start.After(now) && !start.After(HorizonEnd(now, cfg))
}
