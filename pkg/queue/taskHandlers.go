package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/constructai/demobooking/internal/entity"
)

// BookingStore — то, что нужно обработчику от слоя бронирований.
// Узкий интерфейс, чтобы не тянуть сюда весь сервисный пакет.
type BookingStore interface {
	GetBookingWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error)
	MarkNotificationSent(ctx context.Context, id int64) error
	MarkReminderSent(ctx context.Context, id int64) error
}

// TaskHandler обрабатывает задачи из очереди
type TaskHandler struct {
	bookingService BookingStore
	mailer         Mailer
}

// Mailer интерфейс для отправки писем о бронированиях
type Mailer interface {
	SendConfirmation(contact *entity.Contact, booking *entity.Booking) error
	SendCancellation(contact *entity.Contact, booking *entity.Booking) error
	SendReschedule(contact *entity.Contact, booking *entity.Booking) error
	SendReminder(contact *entity.Contact, booking *entity.Booking) error
}

// NewTaskHandler создает новый обработчик задач
func NewTaskHandler(bookingService BookingStore, mailer Mailer) *TaskHandler {
	return &TaskHandler{
		bookingService: bookingService,
		mailer:         mailer,
	}
}

// HandleTask обрабатывает задачу
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Обработка задачи %s типа %s (попытка %d/%d)",
		task.ID, task.Type, task.Attempts, task.MaxRetries)

	switch task.Type {
	case TaskTypeSendConfirmation:
		return h.handleSendConfirmation(task)
	case TaskTypeSendCancellation:
		return h.handleSendCancellation(task)
	case TaskTypeSendReschedule:
		return h.handleSendReschedule(task)
	case TaskTypeDemoReminder:
		return h.handleDemoReminder(task)
	default:
		return fmt.Errorf("неизвестный тип задачи: %s", task.Type)
	}
}

// handleSendConfirmation отправляет подтверждение бронирования демо
func (h *TaskHandler) handleSendConfirmation(task *Task) error {
	ctx := context.Background()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid booking_id in task data")
	}

	booking, contact, err := h.bookingService.GetBookingWithContact(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("не удалось получить бронирование %d: %v", bookingID, err)
	}

	// Бронь могли отменить, пока задача ждала в очереди
	if !booking.Status.IsActive() {
		log.Printf("Бронирование %d больше не активно (статус: %s), подтверждение не отправляем",
			booking.ID, booking.Status)
		return nil
	}
	if booking.NotificationSent {
		return nil
	}

	if h.mailer != nil {
		if err := h.mailer.SendConfirmation(contact, booking); err != nil {
			return fmt.Errorf("не удалось отправить подтверждение: %v", err)
		}
	}

	if err := h.bookingService.MarkNotificationSent(ctx, booking.ID); err != nil {
		return fmt.Errorf("не удалось пометить уведомление отправленным: %v", err)
	}

	log.Printf("Отправлено подтверждение для бронирования %d контакту %d", booking.ID, contact.ID)
	return nil
}

// handleSendCancellation отправляет уведомление об отмене демо
func (h *TaskHandler) handleSendCancellation(task *Task) error {
	ctx := context.Background()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid booking_id in task data")
	}

	booking, contact, err := h.bookingService.GetBookingWithContact(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("не удалось получить бронирование %d: %v", bookingID, err)
	}

	if h.mailer != nil {
		if err := h.mailer.SendCancellation(contact, booking); err != nil {
			return fmt.Errorf("не удалось отправить уведомление об отмене: %v", err)
		}
	}

	log.Printf("Отправлено уведомление об отмене бронирования %d контакту %d", booking.ID, contact.ID)
	return nil
}

// handleSendReschedule отправляет уведомление о переносе демо.
// Письмо о переносе заменяет подтверждение для новой брони.
func (h *TaskHandler) handleSendReschedule(task *Task) error {
	ctx := context.Background()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid booking_id in task data")
	}

	booking, contact, err := h.bookingService.GetBookingWithContact(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("не удалось получить бронирование %d: %v", bookingID, err)
	}

	if !booking.Status.IsActive() {
		log.Printf("Бронирование %d больше не активно (статус: %s), пропускаем", booking.ID, booking.Status)
		return nil
	}

	if h.mailer != nil {
		if err := h.mailer.SendReschedule(contact, booking); err != nil {
			return fmt.Errorf("не удалось отправить уведомление о переносе: %v", err)
		}
	}

	if err := h.bookingService.MarkNotificationSent(ctx, booking.ID); err != nil {
		return fmt.Errorf("не удалось пометить уведомление отправленным: %v", err)
	}

	log.Printf("Отправлено уведомление о переносе бронирования %d контакту %d", booking.ID, contact.ID)
	return nil
}

// handleDemoReminder отправляет напоминание о предстоящем демо
func (h *TaskHandler) handleDemoReminder(task *Task) error {
	ctx := context.Background()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid booking_id in task data")
	}

	booking, contact, err := h.bookingService.GetBookingWithContact(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("не удалось получить бронирование %d: %v", bookingID, err)
	}

	// Напоминание нужно только живой брони о будущем демо
	if !booking.Status.IsActive() || booking.ReminderSent {
		return nil
	}
	if !booking.DemoStart.After(time.Now()) {
		return nil
	}

	if h.mailer != nil {
		if err := h.mailer.SendReminder(contact, booking); err != nil {
			return fmt.Errorf("не удалось отправить напоминание: %v", err)
		}
	}

	if err := h.bookingService.MarkReminderSent(ctx, booking.ID); err != nil {
		return fmt.Errorf("не удалось пометить напоминание отправленным: %v", err)
	}

	log.Printf("Отправлено напоминание для бронирования %d контакту %d", booking.ID, contact.ID)
	return nil
}
