package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/constructai/demobooking/internal/database/postgres"
	"github.com/constructai/demobooking/internal/entity"
	"github.com/constructai/demobooking/internal/slots"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	contactRepo repository.ContactRepository
	slotCfg     slots.Config
	queue        TaskPublisher
	meetings     MeetingAllocator
	reminderLead time.Duration
	now          func() time.Time
}

// NewBookingService создает новый экземпляр BookingService
func NewBookingService(
	bookingRepo repository.BookingRepository,
	contactRepo repository.ContactRepository,
	slotCfg slots.Config,
	queue TaskPublisher,
	meetings MeetingAllocator,
	reminderLead time.Duration,
) BookingService {
	if reminderLead <= 0 {
		reminderLead = 24 * time.Hour
	}
	return &bookingService{
		bookingRepo:  bookingRepo,
		contactRepo:  contactRepo,
		slotCfg:      slotCfg,
		queue:        queue,
		meetings:     meetings,
		reminderLead: reminderLead,
		now:          time.Now,
	}
}

// isDomainErr: эти ошибки уходят клиенту как есть; всё остальное
// считается сбоем хранилища, логируется целиком и наружу выходит
// только как entity.ErrStorageFailure.
func isDomainErr(err error) bool {
	return errors.Is(err, entity.ErrBookingNotFound) ||
		errors.Is(err, entity.ErrContactNotFound) ||
		errors.Is(err, entity.ErrSlotConflict) ||
		errors.Is(err, entity.ErrInvalidTransition) ||
		errors.Is(err, entity.ErrInvalidSlotFormat) ||
		errors.Is(err, entity.ErrSlotOutsideWindow) ||
		errors.Is(err, entity.ErrInvalidStatus) ||
		errors.Is(err, entity.ErrInvalidInput)
}

func passError(op string, err error) error {
	if isDomainErr(err) {
		return err
	}
	logrus.WithError(err).Errorf("storage failure during %s", op)
	return entity.ErrStorageFailure
}

// ScheduleDemo бронирует слот демо для существующего контакта.
// Рекомендательная проверка доступности отсекает очевидные конфликты,
// но финальное слово за уникальным индексом: проигравший конкурентную
// вставку получает ErrSlotConflict уже от хранилища.
func (s *bookingService) ScheduleDemo(ctx context.Context, req *ScheduleDemoRequest) (*entity.Booking, error) {
	contact, err := s.contactRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, passError("resolve contact", err)
	}

	start, err := slots.ParseID(req.SlotID, s.slotCfg)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !slots.InWindow(start, now, s.slotCfg) {
		return nil, fmt.Errorf("%w: %s", entity.ErrSlotOutsideWindow, req.SlotID)
	}

	method, err := entity.ParseContactMethod(req.ContactMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown contact method %q", entity.ErrInvalidInput, req.ContactMethod)
	}

	// Быстрая рекомендательная проверка перед вставкой
	active, err := s.bookingRepo.GetActiveInRange(ctx, start, start.Add(s.slotCfg.Duration()))
	if err != nil {
		return nil, passError("check availability", err)
	}
	if !slots.IsAvailable(start, s.slotCfg.Duration(), active) {
		return nil, fmt.Errorf("%w: %s", entity.ErrSlotConflict, req.SlotID)
	}

	booking := &entity.Booking{
		ContactID:       contact.ID,
		DemoStart:       start,
		DurationMinutes: s.slotCfg.DurationMinutes,
		ContactMethod:   method,
		Notes:           req.Notes,
	}
	if err := s.bookingRepo.CreateScheduled(ctx, booking); err != nil {
		return nil, passError("create booking", err)
	}

	// Ссылка на встречу выдаётся после вставки: аллокатору нужен ID
	if s.meetings != nil {
		link := s.meetings.AllocateLink(contact.ID, booking.ID)
		if err := s.bookingRepo.SetMeetingLink(ctx, booking.ID, link); err != nil {
			logrus.WithError(err).Warnf("failed to store meeting link for booking %d", booking.ID)
		} else {
			booking.MeetingLink = link
		}
	}

	// Уведомления fire-and-forget: отказ очереди не отменяет бронь,
	// недоставленное подтверждение доберёт воркер.
	s.publishTask(ctx, TaskTypeSendConfirmation, booking, time.Time{})
	if reminderAt := booking.DemoStart.Add(-s.reminderLead); reminderAt.After(now) {
		s.publishTask(ctx, TaskTypeDemoReminder, booking, reminderAt)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"contact_id": contact.ID,
		"demo_start": booking.DemoStart.Format(time.RFC3339),
	}).Info("demo scheduled")

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passError("get booking", err)
	}
	return booking, nil
}

func (s *bookingService) GetBookingWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error) {
	booking, contact, err := s.bookingRepo.GetWithContact(ctx, id)
	if err != nil {
		return nil, nil, passError("get booking with contact", err)
	}
	return booking, contact, nil
}

// UpdateBookingStatus переводит бронирование в новый статус.
// Допустимость перехода проверяет таблица жизненного цикла, гонку со
// вторым писателем закрывает оптимистичный UPDATE в хранилище.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, id int64, status entity.BookingStatus, notes string) (*entity.Booking, error) {
	if status == entity.BookingStatusRescheduled {
		// Перенос идёт только через RescheduleBooking: пометка без
		// замещающей брони оставила бы контакт без демо.
		return nil, fmt.Errorf("%w: use the reschedule operation", entity.ErrInvalidTransition)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passError("get booking", err)
	}

	if err := entity.ValidateTransition(booking.Status, status, booking.DemoStart, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status, status, notes)
	if err != nil {
		return nil, passError("update booking status", err)
	}

	if status == entity.BookingStatusCancelled {
		s.publishTask(ctx, TaskTypeSendCancellation, updated, time.Time{})
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       booking.Status,
		"to":         status,
	}).Info("booking status updated")

	return updated, nil
}

// CancelBooking — отмена это смена статуса, строка остаётся в истории,
// а слот освобождается сам: частичный индекс отменённые не учитывает.
func (s *bookingService) CancelBooking(ctx context.Context, id int64, reason string) (*entity.Booking, error) {
	return s.UpdateBookingStatus(ctx, id, entity.BookingStatusCancelled, reason)
}

// RescheduleBooking атомарно переносит демо на новый слот.
func (s *bookingService) RescheduleBooking(ctx context.Context, id int64, slotID string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passError("get booking", err)
	}

	now := s.now()
	if err := entity.ValidateTransition(booking.Status, entity.BookingStatusRescheduled, booking.DemoStart, now); err != nil {
		return nil, err
	}

	start, err := slots.ParseID(slotID, s.slotCfg)
	if err != nil {
		return nil, err
	}
	if !slots.InWindow(start, now, s.slotCfg) {
		return nil, fmt.Errorf("%w: %s", entity.ErrSlotOutsideWindow, slotID)
	}

	active, err := s.bookingRepo.GetActiveInRange(ctx, start, start.Add(s.slotCfg.Duration()))
	if err != nil {
		return nil, passError("check availability", err)
	}
	if !slots.IsAvailable(start, s.slotCfg.Duration(), active) {
		return nil, fmt.Errorf("%w: %s", entity.ErrSlotConflict, slotID)
	}

	replacement, err := s.bookingRepo.Reschedule(ctx, id, start)
	if err != nil {
		return nil, passError("reschedule booking", err)
	}

	if s.meetings != nil {
		link := s.meetings.AllocateLink(replacement.ContactID, replacement.ID)
		if err := s.bookingRepo.SetMeetingLink(ctx, replacement.ID, link); err != nil {
			logrus.WithError(err).Warnf("failed to store meeting link for booking %d", replacement.ID)
		} else {
			replacement.MeetingLink = link
		}
	}

	s.publishTask(ctx, TaskTypeSendReschedule, replacement, time.Time{})

	logrus.WithFields(logrus.Fields{
		"old_booking_id": id,
		"new_booking_id": replacement.ID,
		"demo_start":     replacement.DemoStart.Format(time.RFC3339),
	}).Info("booking rescheduled")

	return replacement, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter *BookingListFilter) (*BookingList, error) {
	repoFilter := repository.BookingFilter{
		ContactEmail: filter.ContactEmail,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if repoFilter.Limit <= 0 || repoFilter.Limit > 100 {
		repoFilter.Limit = 20
	}
	if repoFilter.Offset < 0 {
		repoFilter.Offset = 0
	}
	if filter.Status != "" {
		status, err := entity.ParseBookingStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		repoFilter.Status = &status
	}

	bookings, total, err := s.bookingRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, passError("list bookings", err)
	}
	return &BookingList{
		Bookings: bookings,
		Total:    total,
		Limit:    repoFilter.Limit,
		Offset:   repoFilter.Offset,
	}, nil
}

func (s *bookingService) GetBookingStats(ctx context.Context) (*entity.BookingStats, error) {
	stats, err := s.bookingRepo.GetStats(ctx, s.now())
	if err != nil {
		return nil, passError("get booking stats", err)
	}
	return stats, nil
}

func (s *bookingService) MarkNotificationSent(ctx context.Context, id int64) error {
	if err := s.bookingRepo.MarkNotificationSent(ctx, id); err != nil {
		return passError("mark notification sent", err)
	}
	return nil
}

func (s *bookingService) MarkReminderSent(ctx context.Context, id int64) error {
	if err := s.bookingRepo.MarkReminderSent(ctx, id); err != nil {
		return passError("mark reminder sent", err)
	}
	return nil
}

// ReconcileNotifications добирает активные бронирования, чьё
// подтверждение не дошло, и ставит задачи заново.
func (s *bookingService) ReconcileNotifications(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	unsent, err := s.bookingRepo.GetUnnotified(ctx, batchSize)
	if err != nil {
		return 0, passError("get unnotified bookings", err)
	}

	count := 0
	for _, b := range unsent {
		if s.publishTask(ctx, TaskTypeSendConfirmation, b, time.Time{}) == nil {
			count++
		}
	}
	return count, nil
}

// DispatchReminders ставит задачи напоминаний для демо, начинающихся
// в ближайшие lead часов. Страховка на случай потери отложенной задачи,
// поставленной при бронировании: дедупликация через reminder_sent.
func (s *bookingService) DispatchReminders(ctx context.Context, lead time.Duration, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	now := s.now()
	due, err := s.bookingRepo.GetNeedingReminder(ctx, now, now.Add(lead), batchSize)
	if err != nil {
		return 0, passError("get bookings needing reminder", err)
	}

	count := 0
	for _, b := range due {
		if s.publishTask(ctx, TaskTypeDemoReminder, b, time.Time{}) == nil {
			count++
		}
	}
	return count, nil
}

func (s *bookingService) publishTask(ctx context.Context, taskType string, booking *entity.Booking, executeAt time.Time) error {
	if s.queue == nil {
		return nil
	}
	task := &Task{
		ID:   uuid.NewString(),
		Type: taskType,
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"contact_id": booking.ContactID,
			"demo_start": booking.DemoStart.Format(time.RFC3339),
		},
		ExecuteAt: executeAt,
	}
	if err := s.queue.Publish(ctx, task); err != nil {
		logrus.WithError(err).Warnf("failed to publish %s task for booking %d", taskType, booking.ID)
		return err
	}
	return nil
}
