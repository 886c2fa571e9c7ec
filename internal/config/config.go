package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Enabled R2 arşivi için gerekli tüm alanlar dolu mu
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Prices        PriceTable
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromAddress != ""
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	Database int
}

// Enabled REDIS_HOST verilmemişse limiter bellekte sayar
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type Config struct {
	AppEnv      string
	LogLevel    string
	Port        string
	DatabaseURL string
	FrontendURL string
	JWTSecret   string

	// WebhookDedupe işlenmiş Stripe event id'lerini kaydeder; kapalıyken
	// tekrar gönderilen bir event krediyi ikinci kez ekler.
	WebhookDedupe bool

	Stripe StripeConfig
	R2     R2Config
	Email  EmailConfig
	Redis  RedisConfig
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		WebhookDedupe: parseBool(os.Getenv("WEBHOOK_DEDUPE")),
	}

	// Stripe config
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	prices, err := ParsePriceTable(os.Getenv("STRIPE_PRICE_CREDITS"))
	if err != nil {
		return nil, fmt.Errorf("STRIPE_PRICE_CREDITS: %w", err)
	}
	cfg.Stripe.Prices = prices

	// R2 config
	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")

	// Email config
	cfg.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "GenScoutAI")

	// Redis config (rate limiter)
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.Port, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.Redis.Database, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Stripe.WebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Stripe.Prices.Len() == 0 {
		return errors.New("STRIPE_PRICE_CREDITS must configure at least one price")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
