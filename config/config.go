// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. Built once at process start and
// passed by reference into constructors; domain logic never reads the
// environment directly.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret for customer dashboard sessions (required).
	JWTSecret string

	// Shared secret presented by the content generator in X-API-Key (required).
	GeneratorAPIKey string

	// HMAC secret for verifying payment-confirmed webhook payloads.
	// Empty means no payment collaborator is configured and checkout
	// falls back to direct purchase creation.
	PaymentWebhookSecret string

	// Admin address that receives new-order notices.
	AdminEmail string

	// SMTP – leave Username/Password empty to log sends instead.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	// Price of a plan in US cents, echoed on the checkout handoff.
	PlanPriceCents int

	// Server
	Debug      bool
	Port       string
	TLSDomains []string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "artlu")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "artlu")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "artlu.run,www.artlu.run")
	v.SetDefault("DEBUG", false)
	v.SetDefault("ADMIN_EMAIL", "orders@artlu.run")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("PLAN_PRICE_CENTS", 3900)

	cfg := &Config{
		DatabaseURL:          v.GetString("DATABASE_URL"),
		DBUser:               v.GetString("DB_USER"),
		DBPass:               v.GetString("DB_PASS"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBName:               v.GetString("DB_NAME"),
		DBSSLMode:            v.GetString("DB_SSLMODE"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		GeneratorAPIKey:      v.GetString("GENERATOR_API_KEY"),
		PaymentWebhookSecret: v.GetString("PAYMENT_WEBHOOK_SECRET"),
		AdminEmail:           v.GetString("ADMIN_EMAIL"),
		SMTPHost:             v.GetString("SMTP_HOST"),
		SMTPPort:             v.GetString("SMTP_PORT"),
		SMTPUsername:         v.GetString("SMTP_USERNAME"),
		SMTPPassword:         v.GetString("SMTP_PASSWORD"),
		PlanPriceCents:       v.GetInt("PLAN_PRICE_CENTS"),
		Debug:                v.GetBool("DEBUG"),
		Port:                 v.GetString("PORT"),
		TLSDomains:           splitTrimmed(v.GetString("TLS_DOMAINS")),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// PaymentsConfigured reports whether a payment collaborator is wired up.
// When false, checkout creates purchases directly (dev mode).
func (c *Config) PaymentsConfigured() bool {
	return c.PaymentWebhookSecret != ""
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.GeneratorAPIKey == "" {
		log.Fatal("config: GENERATOR_API_KEY must be set")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
