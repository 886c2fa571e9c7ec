package router

import (
	"time"

	"github.com/genscoutai/genscout-backend/internal/handler"
	"github.com/genscoutai/genscout-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Config struct {
	JWTSecret    string
	AllowOrigins string
	// LimiterStorage nil ise limiter bellekte sayar
	LimiterStorage fiber.Storage
	RateLimit      int
	AccessLog      bool
}

func New(cfg Config, paymentHandler *handler.PaymentHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "genscout-backend",
	})

	app.Use(recover.New())
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowMethods:     "GET, POST",
			AllowCredentials: true,
		}))
	}
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Stripe webhook (public, rate limit yok: Stripe retry'ları kesilmemeli)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 20
	}
	limit := limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Storage: cfg.LimiterStorage,
	})

	api.Get("/payments/packages", limit, paymentHandler.GetCreditPackages)

	// Protected routes
	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	api.Post("/payments/checkout", limit, auth, paymentHandler.CreateCheckoutSession)
	api.Get("/payments/history", limit, auth, paymentHandler.GetPurchaseHistory)
	api.Get("/credits/balance", limit, auth, paymentHandler.GetBalance)

	return app
}
