package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/config"
	"github.com/noah-isme/onboard-go-api/internal/database"
	"github.com/noah-isme/onboard-go-api/internal/handler"
	"github.com/noah-isme/onboard-go-api/internal/middleware"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/observability"
	"github.com/noah-isme/onboard-go-api/internal/repository"
	"github.com/noah-isme/onboard-go-api/internal/router"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/pkg/ai"
	cloud "github.com/noah-isme/onboard-go-api/pkg/cloudinary"
	"github.com/noah-isme/onboard-go-api/pkg/razorpay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	observability.RegisterMetrics()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.StudentProfile{},
		&models.DocumentRecord{},
		&models.FeePayment{},
		&models.ChatMessage{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, notifications stay local")
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	classifier, err := buildClassifier(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create document classifier: %v", err)
	}

	gateway, err := razorpay.New(razorpay.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.RazorpayTimeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("failed to create payment gateway client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, natsConn, "onboard", logger)
	documentService := service.NewDocumentService(profileRepo, chatRepo, classifier, uploader, cfg.ClassifierMinScore, cfg.MaxUploadMB, logger)
	paymentService := service.NewPaymentService(profileRepo, studentRepo, chatRepo, gateway, cfg.RazorpayKeySecret, validate, logger)
	hostelService := service.NewHostelService(profileRepo, notificationService, validate, logger)
	lmsService := service.NewLMSService(profileRepo, validate, logger)
	progressService := service.NewProgressService(profileRepo, logger)
	assistantService := service.NewAssistantService(profileRepo, chatRepo, logger)
	adminService := service.NewAdminService(adminRepo, studentRepo, profileRepo, hostelService, redisClient, cfg.AnalyticsCacheTTL, cfg.FeeTotalAmount, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DocumentHandler:     handler.NewDocumentHandler(documentService, logger),
		PaymentHandler:      handler.NewPaymentHandler(paymentService, logger),
		ChatHandler:         handler.NewChatHandler(assistantService, logger),
		HostelHandler:       handler.NewHostelHandler(hostelService, logger),
		LMSHandler:          handler.NewLMSHandler(lmsService, logger),
		ProgressHandler:     handler.NewProgressHandler(progressService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		AdminHandler:        handler.NewAdminHandler(adminService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildClassifier(cfg config.Config, logger zerolog.Logger) (ai.Classifier, error) {
	vision := ai.VisionConfig{
		Models:  cfg.ClassifierModels,
		Timeout: cfg.ClassifierTimeout,
		Logger:  logger,
	}

	switch cfg.ClassifierProvider {
	case "openai":
		vision.APIKey = cfg.OpenAIAPIKey
	default:
		vision.APIKey = cfg.GeminiAPIKey
		vision.BaseURL = ai.GeminiBaseURL
	}

	return ai.NewVisionClassifier(vision)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
