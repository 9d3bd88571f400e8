package entity

// BookingStats содержит сводную статистику по бронированиям демо
type BookingStats struct {
	Total       int64   `json:"total"`
	Scheduled   int64   `json:"scheduled"`
	Confirmed   int64   `json:"confirmed"`
	Completed   int64   `json:"completed"`
	Cancelled   int64   `json:"cancelled"`
	Rescheduled int64   `json:"rescheduled"`
	Upcoming    int64   `json:"upcoming"`
	Past        int64   `json:"past"`
	PerDay      float64 `json:"avg_bookings_per_day"`
}

// ActiveCount возвращает число бронирований, удерживающих слот
func (s *BookingStats) ActiveCount() int64 {
	return s.Scheduled + s.Confirmed
}

// CompletionRate вычисляет долю завершённых демо среди обработанных
func (s *BookingStats) CompletionRate() float64 {
	processed := s.Completed + s.Cancelled + s.Rescheduled
	if processed == 0 {
		return 0.0
	}
	return float64(s.Completed) / float64(processed)
}
