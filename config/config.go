package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	AppEnv  string
	Origins string // comma-separated CORS allow-list

	RedisURL string
	CartTTL  time.Duration

	StripeSecretKey  string
	StripeWebhookKey string

	PublicOrigin     string // absolute base URL for product image links
	OrderNotifyEmail string // operator mailbox for new-order notifications

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	NotificationsDisabled bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject env vars directly
	_ = godotenv.Load()

	cartTTLHours, err := strconv.Atoi(getEnv("CART_TTL_HOURS", "168"))
	if err != nil || cartTTLHours <= 0 {
		return nil, fmt.Errorf("invalid CART_TTL_HOURS: %q", os.Getenv("CART_TTL_HOURS"))
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		AppEnv:                getEnv("APP_ENV", "development"),
		Origins:               os.Getenv("ALLOWED_ORIGINS"),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:               time.Duration(cartTTLHours) * time.Hour,
		StripeSecretKey:       os.Getenv("STRIPE_API_KEY"),
		StripeWebhookKey:      os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PublicOrigin:          getEnv("PUBLIC_ORIGIN", "https://durvalis.com"),
		OrderNotifyEmail:      getEnv("ORDER_NOTIFY_EMAIL", "info@durvalis.com"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              os.Getenv("SMTP_PORT"),
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPPass:              os.Getenv("SMTP_PASS"),
		NotificationsDisabled: getEnv("NOTIFICATIONS_DISABLED", "false") == "true",
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" {
		return nil, fmt.Errorf("missing required environment variables STRIPE_API_KEY / STRIPE_WEBHOOK_SECRET")
	}

	if !cfg.NotificationsDisabled {
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
			return nil, fmt.Errorf("missing SMTP configuration (set NOTIFICATIONS_DISABLED=true to run without email)")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
