package service

import (
	"context"
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

// BookingService определяет интерфейс для операций с бронированиями демо
type BookingService interface {
	// Основные операции
	ScheduleDemo(ctx context.Context, req *ScheduleDemoRequest) (*entity.Booking, error)
	GetBooking(ctx context.Context, id int64) (*entity.Booking, error)
	GetBookingWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error)
	UpdateBookingStatus(ctx context.Context, id int64, status entity.BookingStatus, notes string) (*entity.Booking, error)
	CancelBooking(ctx context.Context, id int64, reason string) (*entity.Booking, error)
	RescheduleBooking(ctx context.Context, id int64, slotID string) (*entity.Booking, error)

	// Списки и статистика
	ListBookings(ctx context.Context, filter *BookingListFilter) (*BookingList, error)
	GetBookingStats(ctx context.Context) (*entity.BookingStats, error)

	// Для воркеров
	MarkNotificationSent(ctx context.Context, id int64) error
	MarkReminderSent(ctx context.Context, id int64) error
	ReconcileNotifications(ctx context.Context, batchSize int) (int, error)
	DispatchReminders(ctx context.Context, lead time.Duration, batchSize int) (int, error)
}

// SlotService определяет интерфейс для работы с сеткой слотов
type SlotService interface {
	ListAvailableSlots(ctx context.Context) (*entity.SlotListing, error)
}

// ContactService определяет интерфейс для справочника контактов
type ContactService interface {
	RegisterContact(ctx context.Context, req *RegisterContactRequest) (*entity.Contact, error)
	GetContactByEmail(ctx context.Context, email string) (*entity.Contact, error)
}

// ScheduleDemoRequest представляет данные для бронирования демо
type ScheduleDemoRequest struct {
	Email         string `json:"email" binding:"required,email"`
	SlotID        string `json:"slot_id" binding:"required"`
	ContactMethod string `json:"preferred_contact_method"`
	Notes         string `json:"notes" binding:"max=2000"`
}

// RegisterContactRequest представляет данные для регистрации контакта
type RegisterContactRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ContactName string `json:"contact_name" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	Phone       string `json:"phone"`
}

// BookingListFilter ограничивает выборку бронирований
type BookingListFilter struct {
	Status       string
	ContactEmail string
	Limit        int
	Offset       int
}

// BookingList — страница бронирований с общим количеством
type BookingList struct {
	Bookings []*entity.Booking `json:"bookings"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// TaskPublisher интерфейс для публикации задач в очередь
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task представляет задачу для очереди
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Константы типов задач
const (
	TaskTypeSendConfirmation = "send_confirmation"
	TaskTypeSendCancellation = "send_cancellation"
	TaskTypeSendReschedule   = "send_reschedule"
	TaskTypeDemoReminder     = "demo_reminder"
)

// MeetingAllocator выдаёт ссылку на встречу для бронирования.
// Ссылка — непрозрачная строка, сервис её не интерпретирует.
type MeetingAllocator interface {
	AllocateLink(contactID, bookingID int64) string
}
