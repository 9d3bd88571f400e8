package entity

import "time"

// Slot — один интервал демо в сетке рабочего дня.
// StartsAt хранится в зоне расписания и не сериализуется:
// наружу слот уходит как идентификатор плюс человекочитаемые поля.
type Slot struct {
	ID        string    `json:"slot_id"`
	Date      string    `json:"date"`
	Weekday   string    `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
	StartsAt  time.Time `json:"-"`
}

type SlotListing struct {
	Timezone       string `json:"timezone"`
	BusinessHours  string `json:"business_hours"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
	Slots          []Slot `json:"slots"`
}
