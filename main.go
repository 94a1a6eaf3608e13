package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotbook/config"
	"slotbook/cron"
	"slotbook/database"
	"slotbook/database/repository"
	"slotbook/handlers"
	"slotbook/masterbot"
	"slotbook/middleware"
	"slotbook/routes"
	"slotbook/services/booking"
	"slotbook/services/mail"
	"slotbook/services/media"
	"slotbook/services/notification"
	"slotbook/services/review"
	"slotbook/services/schedule"
	"slotbook/services/session"
	"slotbook/services/storage"
	"slotbook/services/tasks"
	"slotbook/services/user"
	"slotbook/services/verification"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is not set")
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	// repositories.
	repos := repository.NewRepositories(database.DB())
	if err := repos.EnsureIndexes(startCtx); err != nil {
		logger.Fatal("main: failed to create indexes", zap.Error(err))
	}

	blobs, err := storage.New(startCtx, config.AppConfig)
	if err != nil {
		logger.Fatal("main: failed to initialize media storage", zap.Error(err))
	}

	publisher := tasks.NewAsynqPublisher(cron.RedisConnOpt())
	sessions := session.NewRedisStore(utils.GetAuthCacheClient())

	// services.
	verificationService := &verification.DefaultVerificationService{
		Store:     verification.NewRedisCodeStore(utils.GetCacheClient()),
		Publisher: publisher,
		TTL:       config.AppConfig.VerificationCodeTTL,
	}
	userService := &user.DefaultUserService{
		Repo:         repos.Users,
		Verification: verificationService,
		Sessions:     sessions,
		TokenTTL:     config.AppConfig.JWTTTL,
	}
	scheduleService := &schedule.DefaultScheduleService{
		Users:        repos.Users,
		Schedules:    repos.Schedules,
		Appointments: repos.Appointments,
	}
	bookingService := &booking.DefaultBookingService{
		Users:        repos.Users,
		Appointments: repos.Appointments,
		Schedule:     scheduleService,
		Publisher:    publisher,
		ReminderLead: config.AppConfig.ReminderLead,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:      repos.Reviews,
		Users:        repos.Users,
		Appointments: repos.Appointments,
		Publisher:    publisher,
	}
	mediaService := &media.DefaultMediaService{
		Users:   repos.Users,
		Works:   repos.Works,
		Storage: blobs,
	}

	// The master bot and push notifications are optional.
	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()

	var tg notification.TelegramSender
	if token := config.AppConfig.TelegramToken; token != "" {
		controller := &masterbot.Controller{
			Users:    repos.Users,
			Accounts: userService,
			Schedule: scheduleService,
			Bookings: bookingService,
			State:    masterbot.NewManager(),
		}
		b, err := masterbot.NewBot(token, controller)
		if err != nil {
			logger.Error("main: master bot disabled", zap.Error(err))
		} else {
			_ = masterbot.SetCommands(botCtx, b)
			go b.Start(botCtx)
			tg = b
			logger.Info("Master bot started")
		}
	}

	var push notification.PushSender
	fcm, err := utils.FirebaseInit(startCtx)
	if err != nil {
		logger.Error("main: push notifications disabled", zap.Error(err))
	} else if fcm != nil {
		push = fcm
	}

	notificationService, err := notification.NewDefaultNotificationService(repos.Users, tg, push)
	if err != nil {
		logger.Fatal("main: failed to build notification service", zap.Error(err))
	}

	worker := cron.NewWorker(&cron.Handlers{
		Notifications: notificationService,
		Mailer:        mail.New(config.AppConfig),
		Appointments:  repos.Appointments,
	})
	worker.Start()

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		UserRepo: repos.Users,
		Sessions: sessions,
		User:     handlers.NewUserHandler(userService),
		Schedule: handlers.NewScheduleHandler(scheduleService),
		Booking:  handlers.NewBookingHandler(bookingService),
		Review:   handlers.NewReviewHandler(reviewService),
		Media:    handlers.NewMediaHandler(mediaService),
	}
	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.APIPrefix)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stopBot()
	worker.Shutdown()
	if err := publisher.Close(); err != nil {
		logger.Warn("main: failed to close task publisher", zap.Error(err))
	}
	if c, ok := blobs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("main: failed to close media storage", zap.Error(err))
		}
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
