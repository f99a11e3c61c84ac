package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/homeservice/internal/api/http"
	"github.com/spec-kit/homeservice/internal/api/http/handlers"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/events"
	"github.com/spec-kit/homeservice/internal/mailer"
	"github.com/spec-kit/homeservice/internal/media"
	"github.com/spec-kit/homeservice/internal/observability"
	"github.com/spec-kit/homeservice/internal/persistence"
	"github.com/spec-kit/homeservice/internal/repository"
	"github.com/spec-kit/homeservice/internal/service"
	"github.com/spec-kit/homeservice/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	addressRepo := repository.NewAddressRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	businessRepo := repository.NewBusinessRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	otpStore := repository.NewOTPStore(redis.Client)

	var mail mailer.Mailer
	if cfg.Email.ResendAPIKey != "" {
		mail = mailer.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.From, logger)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		mail = mailer.NewLogMailer(logger)
	}

	var uploader media.Uploader
	if cfg.Media.CloudinaryURL != "" {
		uploader, err = media.NewCloudinaryUploader(cfg.Media.CloudinaryURL)
		if err != nil {
			logger.Fatal("failed to init media store", zap.Error(err))
		}
	} else {
		logger.Warn("CLOUDINARY_URL not set, uploads disabled")
		uploader = media.NewDisabledUploader()
	}

	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		OTPStore:     otpStore,
		Mailer:       mail,
		TokenManager: tokens,
		Config:       cfg.Auth,
		Logger:       logger,
	})
	userService := service.NewUserService(userRepo)
	addressService := service.NewAddressService(addressRepo)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		CategoryRepo: categoryRepo,
		ServiceRepo:  serviceRepo,
		BusinessRepo: businessRepo,
	})
	businessService := service.NewBusinessService(service.BusinessDependencies{
		BusinessRepo: businessRepo,
		SlotRepo:     slotRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo:  bookingRepo,
		SlotRepo:     slotRepo,
		ServiceRepo:  serviceRepo,
		BusinessRepo: businessRepo,
		AddressRepo:  addressRepo,
		Dispatcher:   dispatcher,
		Config:       cfg.Booking,
		Logger:       logger,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		FeedbackRepo: feedbackRepo,
		BookingRepo:  bookingRepo,
		ServiceRepo:  serviceRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	notificationService := service.NewNotificationService(dispatcher, bookingRepo, userRepo, mail, logger)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, cfg.Auth.CookieName)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Media.MaxUploadBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth),
		Users:          handlers.NewUsersHandler(userService),
		Addresses:      handlers.NewAddressesHandler(addressService),
		Categories:     handlers.NewCategoriesHandler(catalogService),
		Businesses:     handlers.NewBusinessesHandler(businessService, catalogService, feedbackService),
		Services:       handlers.NewServicesHandler(catalogService, feedbackService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Uploads:        handlers.NewUploadsHandler(uploader, cfg.Media),
		AuthMiddleware: authMiddleware,
	})

	worker.StartNotificationWorker(notificationService)
	completionWorker := worker.NewCompletionWorker(bookingService, cfg.Booking, logger)
	if err := completionWorker.Start(); err != nil {
		logger.Fatal("failed to start completion worker", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	completionWorker.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
