package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/constructai/demobooking/internal/service"
)

// Scheduler периодически ставит задачи напоминаний о предстоящих демо.
// Статусы бронирований он не трогает: только публикация в очередь.
type Scheduler struct {
	bookingService service.BookingService
	interval       time.Duration
	lead           time.Duration
	batchSize      int
}

func NewScheduler(bookingService service.BookingService, interval, lead time.Duration, batchSize int) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		interval:       interval,
		lead:           lead,
		batchSize:      batchSize,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logrus.Info("Reminder scheduler started")

	for {
		select {
		case <-ticker.C:
			count, err := s.bookingService.DispatchReminders(ctx, s.lead, s.batchSize)
			if err != nil {
				logrus.Errorf("Error dispatching demo reminders: %v", err)
				continue
			}
			if count > 0 {
				logrus.Infof("Dispatched %d demo reminders", count)
			}
		case <-ctx.Done():
			logrus.Info("Reminder scheduler stopped")
			return
		}
	}
}
