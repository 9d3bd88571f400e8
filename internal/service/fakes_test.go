package service

import (
	"context"
	"strings"
	"sync"
	"time"

	repository "github.com/constructai/demobooking/internal/database/postgres"
	"github.com/constructai/demobooking/internal/entity"
)

// fakeBookingRepo держит бронирования в памяти и повторяет контракт
// хранилища, включая уникальность активного слота.
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*entity.Booking
	contacts map[int64]*entity.Contact
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[int64]*entity.Booking),
		contacts: make(map[int64]*entity.Contact),
	}
}

func (f *fakeBookingRepo) hasActiveAtLocked(start time.Time, excludeID int64) bool {
	for _, b := range f.bookings {
		if b.ID != excludeID && b.Status.IsActive() && b.DemoStart.Equal(start) {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) CreateScheduled(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasActiveAtLocked(booking.DemoStart, 0) {
		return entity.ErrSlotConflict
	}

	f.nextID++
	booking.ID = f.nextID
	booking.Status = entity.BookingStatusScheduled
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[b.ContactID]
	if !ok {
		return nil, nil, entity.ErrBookingNotFound
	}
	cc := *c
	return b, &cc, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, from, to entity.BookingStatus, notes string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, entity.ErrInvalidTransition
	}
	b.Status = to
	if notes != "" {
		b.Notes = notes
	}
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) Reschedule(_ context.Context, id int64, newStart time.Time) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	if !old.Status.IsActive() {
		return nil, entity.ErrInvalidTransition
	}
	if f.hasActiveAtLocked(newStart, old.ID) {
		return nil, entity.ErrSlotConflict
	}

	old.Status = entity.BookingStatusRescheduled
	f.nextID++
	oldID := old.ID
	replacement := &entity.Booking{
		ID:              f.nextID,
		ContactID:       old.ContactID,
		DemoStart:       newStart,
		DurationMinutes: old.DurationMinutes,
		Status:          entity.BookingStatusScheduled,
		ContactMethod:   old.ContactMethod,
		Notes:           old.Notes,
		RescheduledFrom: &oldID,
	}
	f.bookings[replacement.ID] = replacement
	cp := *replacement
	return &cp, nil
}

func (f *fakeBookingRepo) SetMeetingLink(_ context.Context, id int64, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	b.MeetingLink = link
	return nil
}

func (f *fakeBookingRepo) MarkNotificationSent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	b.NotificationSent = true
	return nil
}

func (f *fakeBookingRepo) MarkReminderSent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	b.ReminderSent = true
	return nil
}

func (f *fakeBookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]*entity.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) GetActiveInRange(_ context.Context, from, to time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status.IsActive() && !b.DemoStart.Before(from) && b.DemoStart.Before(to) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetUnnotified(_ context.Context, limit int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status.IsActive() && !b.NotificationSent && len(out) < limit {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetActiveStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return f.GetActiveInRange(ctx, from, to)
}

func (f *fakeBookingRepo) GetNeedingReminder(_ context.Context, from, to time.Time, limit int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status.IsActive() && !b.ReminderSent &&
			!b.DemoStart.Before(from) && b.DemoStart.Before(to) && len(out) < limit {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetStats(_ context.Context, now time.Time) (*entity.BookingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &entity.BookingStats{}
	for _, b := range f.bookings {
		stats.Total++
		switch b.Status {
		case entity.BookingStatusScheduled:
			stats.Scheduled++
		case entity.BookingStatusConfirmed:
			stats.Confirmed++
		case entity.BookingStatusCompleted:
			stats.Completed++
		case entity.BookingStatusCancelled:
			stats.Cancelled++
		case entity.BookingStatusRescheduled:
			stats.Rescheduled++
		}
		if b.Status.IsActive() && b.DemoStart.After(now) {
			stats.Upcoming++
		}
		if !b.DemoStart.After(now) {
			stats.Past++
		}
	}
	return stats, nil
}

type fakeContactRepo struct {
	mu       sync.Mutex
	nextID   int64
	byEmail  map[string]*entity.Contact
	failWith error
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{byEmail: make(map[string]*entity.Contact)}
}

func (f *fakeContactRepo) Create(_ context.Context, contact *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	contact.ID = f.nextID
	cp := *contact
	f.byEmail[strings.ToLower(contact.Email)] = &cp
	return nil
}

func (f *fakeContactRepo) GetByID(_ context.Context, id int64) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byEmail {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entity.ErrContactNotFound
}

func (f *fakeContactRepo) GetByEmail(_ context.Context, email string) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, entity.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

// fakePublisher записывает опубликованные задачи
type fakePublisher struct {
	mu       sync.Mutex
	tasks    []*Task
	failWith error
}

func (f *fakePublisher) Publish(_ context.Context, task *Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakePublisher) byType(taskType string) []*Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Task
	for _, t := range f.tasks {
		if t.Type == taskType {
			out = append(out, t)
		}
	}
	return out
}
