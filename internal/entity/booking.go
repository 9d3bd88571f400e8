package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusScheduled   BookingStatus = "scheduled"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

// IsActive сообщает, удерживает ли бронирование свой слот.
// Только активные бронирования участвуют в проверке доступности.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusScheduled || s == BookingStatusConfirmed
}

// IsTerminal: из терминального статуса переходов нет.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRescheduled:
		return true
	}
	return false
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusRescheduled:
		return BookingStatus(s), nil
	}
	return "", ErrInvalidStatus
}

type ContactMethod string

const (
	ContactMethodPhone ContactMethod = "phone"
	ContactMethodEmail ContactMethod = "email"
	ContactMethodVideo ContactMethod = "video"
)

func ParseContactMethod(s string) (ContactMethod, error) {
	switch ContactMethod(s) {
	case ContactMethodPhone, ContactMethodEmail, ContactMethodVideo:
		return ContactMethod(s), nil
	case "":
		return ContactMethodVideo, nil
	}
	return "", ErrInvalidInput
}

type Booking struct {
	ID               int64         `json:"id" db:"id"`
	ContactID        int64         `json:"contact_id" db:"contact_id"`
	DemoStart        time.Time     `json:"demo_start" db:"demo_start"`
	DurationMinutes  int           `json:"duration_minutes" db:"duration_minutes"`
	Status           BookingStatus `json:"status" db:"status"`
	ContactMethod    ContactMethod `json:"contact_method" db:"contact_method"`
	Notes            string        `json:"notes,omitempty" db:"notes"`
	MeetingLink      string        `json:"meeting_link,omitempty" db:"meeting_link"`
	NotificationSent bool          `json:"notification_sent" db:"notification_sent"`
	ReminderSent     bool          `json:"reminder_sent" db:"reminder_sent"`
	RescheduledFrom  *int64        `json:"rescheduled_from,omitempty" db:"rescheduled_from"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// DemoEnd возвращает конец интервала демо.
func (b *Booking) DemoEnd() time.Time {
	return b.DemoStart.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.Status.IsActive() && b.DemoStart.After(now)
}

type BookingWithContact struct {
	Booking
	Contact *Contact `json:"contact"`
}
