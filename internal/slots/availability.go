package slots

import (
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

// IsAvailable — рекомендательная проверка занятости: слот занят, если
// с ним пересекается интервал хотя бы одного активного бронирования.
// Гонку между проверкой и вставкой закрывает не она, а уникальный
// индекс в хранилище.
func IsAvailable(start time.Time, d time.Duration, bookings []*entity.Booking) bool {
	end := start.Add(d)
	for _, b := range bookings {
		if !b.Status.IsActive() {
			continue
		}
		bEnd := b.DemoStart.Add(time.Duration(b.DurationMinutes) * time.Minute)
		if b.DemoStart.Before(end) && bEnd.After(start) {
			return false
		}
	}
	return true
}

// Annotate помечает занятые слоты по списку активных бронирований.
// Список слотов модифицируется на месте.
func Annotate(list []entity.Slot, d time.Duration, bookings []*entity.Booking) {
	taken := make(map[int64]*entity.Booking, len(bookings))
	for _, b := range bookings {
		if b.Status.IsActive() {
			taken[b.DemoStart.Unix()] = b
		}
	}
	for i := range list {
		// Все активные бронирования лежат на той же сетке, поэтому
		// пересечение интервалов сводится к совпадению начала.
		if _, ok := taken[list[i].StartsAt.Unix()]; ok {
			list[i].Available = false
			continue
		}
		if !IsAvailable(list[i].StartsAt, d, bookings) {
			list[i].Available = false
		}
	}
}
