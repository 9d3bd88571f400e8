package worker

import (
	"context"
	"time"

	"github.com/constructai/demobooking/internal/service"

	"github.com/sirupsen/logrus"
)

// NotificationWorker добирает бронирования, подтверждение которых
// потерялось (очередь лежала, задача ушла в DLQ), и ставит задачи
// заново. Идемпотентно: обработчик пропускает уже уведомлённые брони.
type NotificationWorker struct {
	bookingService service.BookingService
	interval       time.Duration
	batchSize      int
}

func NewNotificationWorker(bookingService service.BookingService, interval time.Duration, batchSize int) *NotificationWorker {
	return &NotificationWorker{
		bookingService: bookingService,
		interval:       interval,
		batchSize:      batchSize,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Notification reconcile worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Notification reconcile worker stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *NotificationWorker) reconcile(ctx context.Context) {
	count, err := w.bookingService.ReconcileNotifications(ctx, w.batchSize)
	if err != nil {
		logrus.Errorf("Failed to reconcile notifications: %v", err)
		return
	}
	if count > 0 {
		logrus.Infof("Re-enqueued %d pending confirmation notifications", count)
	}
}
