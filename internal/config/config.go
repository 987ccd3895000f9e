package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string // development | production
	DBDSN  string

	AccessSecret  string
	RefreshSecret string

	StripeKey           string
	StripeWebhookSecret string
	PayPalClientID      string
	PayPalClientSecret  string
	PayPalAPIBase       string

	EmailHost string
	EmailPort string
	EmailUser string
	EmailPass string
	EmailFrom string

	RecaptchaSecret string
	FrontendURL     string
	KafkaBroker     string
	LogFile         string
}

func Load() Config {
	// Best effort; real env vars win over .env contents.
	_ = godotenv.Load(".env")

	cfg := Config{
		Port:                getenv("PORT", "8080"),
		AppEnv:              getenv("APP_ENV", "development"),
		DBDSN:               getenv("DB_DSN", "ironcart.db"),
		AccessSecret:        os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret:       os.Getenv("JWT_REFRESH_SECRET"),
		StripeKey:           os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PayPalClientID:      os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret:  os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalAPIBase:       getenv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com"),
		EmailHost:           os.Getenv("EMAIL_HOST"),
		EmailPort:           getenv("EMAIL_PORT", "587"),
		EmailUser:           os.Getenv("EMAIL_USER"),
		EmailPass:           os.Getenv("EMAIL_PASS"),
		EmailFrom:           os.Getenv("EMAIL_FROM"),
		RecaptchaSecret:     os.Getenv("RECAPTCHA_SECRET_KEY"),
		FrontendURL:         getenv("FRONTEND_URL", "http://localhost:3000"),
		KafkaBroker:         os.Getenv("KAFKA_BROKER"),
		LogFile:             getenv("LOG_FILE", "./ironcart.log"),
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		log.Printf("[config] warning: JWT secrets not set; issued tokens will not survive a restart")
	}
	log.Printf("[config] PORT=%s APP_ENV=%s DB_DSN=%s KAFKA_BROKER=%s", cfg.Port, cfg.AppEnv, cfg.DBDSN, cfg.KafkaBroker)
	return cfg
}

func (c Config) Production() bool { return c.AppEnv == "production" }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
