package repository

import (
	"context"
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

// BookingFilter ограничивает выборку бронирований в List.
type BookingFilter struct {
	Status       *entity.BookingStatus
	ContactEmail string
	Limit        int
	Offset       int
}

type BookingRepository interface {
	// CreateScheduled вставляет новое активное бронирование и обновляет
	// флаги демо у контакта в одной транзакции. Уникальность активного
	// слота обеспечивает частичный уникальный индекс: нарушение
	// возвращается как entity.ErrSlotConflict.
	CreateScheduled(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	GetWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error)

	// UpdateStatus переводит бронирование из from в to. Перевод
	// оптимистичный: WHERE по текущему статусу, конкурентная смена
	// статуса возвращается как entity.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id int64, from, to entity.BookingStatus, notes string) (*entity.Booking, error)

	// Reschedule атомарно помечает старое бронирование rescheduled и
	// вставляет новое scheduled на newStart.
	Reschedule(ctx context.Context, id int64, newStart time.Time) (*entity.Booking, error)

	SetMeetingLink(ctx context.Context, id int64, link string) error
	MarkNotificationSent(ctx context.Context, id int64) error

	// Query operations
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, int64, error)
	GetActiveInRange(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
	GetUnnotified(ctx context.Context, limit int) ([]*entity.Booking, error)
	GetActiveStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)
	GetNeedingReminder(ctx context.Context, from, to time.Time, limit int) ([]*entity.Booking, error)
	MarkReminderSent(ctx context.Context, id int64) error

	// Statistics
	GetStats(ctx context.Context, now time.Time) (*entity.BookingStats, error)
}

type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id int64) (*entity.Contact, error)
	GetByEmail(ctx context.Context, email string) (*entity.Contact, error)
}
