package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"homestay/config"
	"homestay/cron"
	"homestay/database"
	"homestay/database/repository"
	"homestay/handlers"
	"homestay/middleware"
	"homestay/routes"
	"homestay/services/booking"
	"homestay/services/content"
	"homestay/services/notification"
	"homestay/services/payment"
	"homestay/services/storage"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: mongo unavailable", zap.Error(err))
	}
	draftCache := utils.GetDraftCacheClient()

	// repositories.
	var bookings repository.BookingRepository
	switch strings.ToLower(cfg.BookingStore) {
	case "postgres":
		if err := database.InitPostgres(rootCtx); err != nil {
			logger.Fatal("main: postgres unavailable", zap.Error(err))
		}
		repo, err := repository.NewPostgresBookingRepo(rootCtx, database.PostgresPool)
		if err != nil {
			logger.Fatal("main: failed to prepare bookings table", zap.Error(err))
		}
		bookings = repo
	default:
		bookings = repository.NewMongoBookingRepo(database.DB(), logger)
	}
	rooms, err := repository.NewMongoRoomRepo(database.DB())
	if err != nil {
		logger.Warn("main: room indexes not ensured", zap.Error(err))
	}
	records, err := repository.NewMongoRecordRepo(database.DB())
	if err != nil {
		logger.Warn("main: content indexes not ensured", zap.Error(err))
	}

	var images storage.ImageStore
	if images, err = utils.Cloudinary(); err != nil {
		logger.Warn("main: image uploads disabled", zap.Error(err))
	}

	gateway, err := payment.NewGateway(cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize payment gateway", zap.Error(err))
	}

	// notifications.
	mailer := notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	notifier, err := notification.NewDefaultNotifier(mailer, notification.Business{
		Name:         cfg.BusinessName,
		SupportEmail: cfg.SupportEmail,
		SupportPhone: cfg.SupportPhone,
	}, cfg.OperatorEmail, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize notifier", zap.Error(err))
	}

	var (
		dispatcher notification.Dispatcher
		queue      *asynq.Client
		inProcess  *notification.InProcessDispatcher
	)
	if cfg.QueueEnabled {
		queue = asynq.NewClient(cron.RedisOpt())
		dispatcher = notification.NewAsynqDispatcher(queue, logger)
	} else {
		inProcess = notification.NewInProcessDispatcher(bookings, notifier, logger)
		dispatcher = inProcess
	}

	// services.
	bookingService := booking.NewBookingService(
		bookings,
		rooms,
		booking.NewRedisDraftStore(draftCache, booking.DraftTTL),
		gateway,
		dispatcher,
		logger,
		booking.Options{
			TaxRate:         cfg.TaxRate,
			Currency:        cfg.Currency,
			CheckoutHour:    &cfg.CheckoutHour,
			ReconcileWindow: cfg.ReconcileWindow,
			Workers:         cfg.ReconcileWorkers,
		},
	)
	contentService := content.NewContentService(records, rooms, images, logger)

	var worker *asynq.Server
	var scheduler *asynq.Scheduler
	if cfg.QueueEnabled {
		worker = cron.InitNotificationWorker(bookings, notifier, bookingService)
		if scheduler, err = cron.InitReconcileScheduler(cfg.ReconcileInterval); err != nil {
			logger.Fatal("main: failed to schedule reconcile sweep", zap.Error(err))
		}
	}

	utils.StartHealthMonitor(rootCtx, map[string]utils.Pinger{
		"mongo": utils.PingFunc(func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }),
		"redis": utils.PingFunc(func(ctx context.Context) error { return draftCache.Ping(ctx).Err() }),
	})

	var stripeEvents handlers.StripeEventParser
	if sg, ok := gateway.(*payment.StripeGateway); ok {
		stripeEvents = sg
	}

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingService, logger),
		handlers.NewWebhookHandler(bookingService, cfg.RazorpayWebhookSecret, stripeEvents, logger),
		handlers.NewContentHandler(contentService, logger),
		handlers.NewAdminHandler(bookingService, contentService, cfg.AdminEmail, cfg.AdminPasswordHash, logger),
		handlers.HealthHandler,
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("main: invalid trusted proxies", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
	if inProcess != nil {
		inProcess.Wait()
	}
	database.ClosePostgres()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
