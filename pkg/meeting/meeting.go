package meeting

import (
	"fmt"
	"strings"
)

// Allocator выдаёт ссылки на видеовстречи. Пока это плейсхолдер в
// формате zoom-ссылки, настоящая интеграция с календарём живёт за
// тем же интерфейсом.
type Allocator struct {
	baseURL string
}

func NewAllocator(baseURL string) *Allocator {
	if baseURL == "" {
		baseURL = "https://zoom.us"
	}
	return &Allocator{baseURL: strings.TrimRight(baseURL, "/")}
}

// AllocateLink возвращает детерминированную ссылку для пары
// контакт/бронирование.
func (a *Allocator) AllocateLink(contactID, bookingID int64) string {
	return fmt.Sprintf("%s/j/%d%06d", a.baseURL, contactID, bookingID)
}
