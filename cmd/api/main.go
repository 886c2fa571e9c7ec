package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/genscoutai/genscout-backend/internal/config"
	"github.com/genscoutai/genscout-backend/internal/controller"
	"github.com/genscoutai/genscout-backend/internal/handler"
	"github.com/genscoutai/genscout-backend/internal/repository"
	"github.com/genscoutai/genscout-backend/internal/router"
	"github.com/genscoutai/genscout-backend/internal/service"
	"github.com/genscoutai/genscout-backend/pkg/database"
	"github.com/genscoutai/genscout-backend/pkg/email"
	"github.com/genscoutai/genscout-backend/pkg/logger"
	"github.com/genscoutai/genscout-backend/pkg/payment"
	"github.com/genscoutai/genscout-backend/pkg/storage"
	"github.com/genscoutai/genscout-backend/pkg/utils"
)

func main() {
	// .env opsiyonel, production'da env doğrudan gelir
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Config'i yükle
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()

	// Initialize database (migrations dahil)
	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Repositories
	ledgerRepo := repository.NewCreditLedgerRepository(db, cfg.WebhookDedupe)
	balanceRepo := repository.NewCreditBalanceRepository(db)
	purchaseRepo := repository.NewCreditPurchaseRepository(db)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.FrontendURL)

	// R2 webhook arşivi (opsiyonel)
	var archiver service.EventArchiver
	if cfg.R2.Enabled() {
		r2Storage, err := storage.NewCloudflareStorage(cfg.R2, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to initialize R2 storage", zap.Error(err))
		}
		archiver = r2Storage
	} else {
		zapLogger.Info("R2 not configured, webhook archive disabled")
	}

	// Email service (opsiyonel)
	var receipts service.ReceiptSender
	if cfg.Email.Enabled() {
		receipts = email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, zapLogger)
	} else {
		zapLogger.Info("Resend not configured, purchase receipts disabled")
	}

	// Services
	fulfillmentService := service.NewFulfillmentService(
		stripeService,
		stripeService,
		ledgerRepo,
		cfg.Stripe.Prices,
		archiver,
		receipts,
		zapLogger,
	)
	paymentService := service.NewPaymentService(
		stripeService,
		balanceRepo,
		purchaseRepo,
		cfg.Stripe.Prices,
		zapLogger,
	)

	// Validator'ı önce tanımla
	validator := utils.NewValidator()

	// Handlers
	paymentController := controller.NewPaymentController(paymentService, fulfillmentService)
	paymentHandler := handler.NewPaymentHandler(paymentController, validator)

	// Limiter storage: Redis varsa instance'lar arası paylaşılır
	var limiterStorage fiber.Storage
	if cfg.Redis.Enabled() {
		limiterStorage = redisstorage.New(redisstorage.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			Database: cfg.Redis.Database,
			Reset:    false,
		})
	}

	app := router.New(router.Config{
		JWTSecret:      cfg.JWTSecret,
		AllowOrigins:   cfg.FrontendURL,
		LimiterStorage: limiterStorage,
		AccessLog:      true,
	}, paymentHandler)

	zapLogger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.Int("prices", cfg.Stripe.Prices.Len()),
		zap.Bool("webhook_dedupe", cfg.WebhookDedupe),
	)

	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
