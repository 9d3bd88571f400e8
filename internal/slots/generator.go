package slots

import (
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

// Generate строит полную сетку слотов на горизонт cfg.DaysAhead дней,
// начиная с календарного дня now в зоне расписания. Функция чистая:
// одинаковые (now, cfg) всегда дают одинаковый список, отсортированный
// по времени начала. Слоты, начинающиеся в now или раньше, не попадают
// в результат. Доступность здесь не вычисляется: каждый слот выходит
// с Available=true, занятые отмечает Annotate.
func Generate(now time.Time, cfg Config) []entity.Slot {
	local := now.In(cfg.Location)
	result := make([]entity.Slot, 0, cfg.DaysAhead*slotsPerDay(cfg))

	for day := 0; day < cfg.DaysAhead; day++ {
		date := local.AddDate(0, 0, day)
		if !cfg.Weekdays[date.Weekday()] {
			continue
		}

		startMin := cfg.BusinessHoursStart * 60
		endMin := cfg.BusinessHoursEnd * 60
		for m := startMin; m+cfg.DurationMinutes <= endMin; m += cfg.DurationMinutes {
			// time.Date по настенным часам зоны: день перевода часов
			// получает те же рабочие часы, что и любой другой.
			start := time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, cfg.Location)
			if !start.After(now) {
				continue
			}
			end := start.Add(cfg.Duration())
			result = append(result, entity.Slot{
				ID:        FormatID(start),
				Date:      start.Format("2006-01-02"),
				Weekday:   start.Weekday().String(),
				StartTime: start.Format("15:04"),
				EndTime:   end.Format("15:04"),
				Available: true,
				StartsAt:  start,
			})
		}
	}

	return result
}

func slotsPerDay(cfg Config) int {
	return (cfg.BusinessHoursEnd - cfg.BusinessHoursStart) * 60 / cfg.DurationMinutes
}

// HorizonEnd возвращает верхнюю границу окна бронирования:
// конец последнего дня горизонта.
func HorizonEnd(now time.Time, cfg Config) time.Time {
	local := now.In(cfg.Location)
	last := local.AddDate(0, 0, cfg.DaysAhead-1)
	return time.Date(last.Year(), last.Month(), last.Day(), cfg.BusinessHoursEnd, 0, 0, 0, cfg.Location)
}
