package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/constructai/demobooking/config"
	repository "github.com/constructai/demobooking/internal/database/postgres"
	"github.com/constructai/demobooking/internal/service"
	"github.com/constructai/demobooking/internal/transport"
	"github.com/constructai/demobooking/internal/worker"

	"github.com/constructai/demobooking/pkg/mailer"
	"github.com/constructai/demobooking/pkg/meeting"
	"github.com/constructai/demobooking/pkg/postgres"
	"github.com/constructai/demobooking/pkg/queue"
	"github.com/constructai/demobooking/pkg/redis"
	"github.com/constructai/demobooking/pkg/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12}, // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Сетка слотов валидируется при старте: кривой конфиг роняет процесс
	slotCfg, err := cfg.Scheduling.SlotConfig()
	if err != nil {
		logrus.Fatalf("Failed to parse scheduling config: %v", err)
	}
	logrus.Infof("Slot grid: %s, %dm slots, %d days ahead, timezone %s",
		slotCfg.BusinessHoursString(), slotCfg.DurationMinutes, slotCfg.DaysAhead, cfg.Scheduling.Timezone)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Meeting link allocator
	meetingAllocator := meeting.NewAllocator(cfg.Meeting.BaseURL)

	// Mailer
	demoMailer := mailer.NewMailer(&cfg.Email)
	if !cfg.Email.Enabled {
		logrus.Warn("Email sending disabled, notifications will be marked sent without delivery")
	}

	// Initialize Redis queue
	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher

	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	retryManager := queue.NewRetryManager(3, 5*time.Second)
	dlqHandler := queue.NewDefaultDLQHandler(redisClient, "demo_booking:dlq")

	redisQueue, err = queue.NewRedisQueue(redisClient, nil, retryManager, dlqHandler)
	if err != nil {
		logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
		redisQueue = nil
	} else {
		logrus.Info("Redis queue initialized")
		taskPublisher = service.NewQueueAdapter(redisQueue)
	}

	reminderLead := time.Duration(cfg.Worker.ReminderLeadHours) * time.Hour

	// Initialize services
	bookingService := service.NewBookingService(bookingRepo, contactRepo, slotCfg, taskPublisher, meetingAllocator, reminderLead)
	slotService := service.NewSlotService(bookingRepo, slotCfg)
	contactService := service.NewContactService(contactRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start queue consumer
	if redisQueue != nil {
		taskHandler := queue.NewTaskHandler(bookingService, demoMailer)
		if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
			logrus.Errorf("Queue subscriber error: %v", err)
		} else {
			logrus.Info("Queue subscriber started")
		}
	}

	// Reminder scheduler: enqueue-only, статусы не трогает
	reminderScheduler := scheduler.NewScheduler(
		bookingService,
		time.Duration(cfg.Worker.ReminderInterval)*time.Minute,
		reminderLead,
		cfg.Worker.BatchSize,
	)
	go reminderScheduler.Start(ctx)

	// Notification reconcile worker
	notificationWorker := worker.NewNotificationWorker(
		bookingService,
		time.Duration(cfg.Worker.ReconcileInterval)*time.Minute,
		cfg.Worker.BatchSize,
	)
	go notificationWorker.Start(ctx)

	// Initialize handlers
	bookingHandler := transport.NewBookingHandler(bookingService, contactService)
	slotHandler := transport.NewSlotHandler(slotService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(bookingHandler, slotHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}
