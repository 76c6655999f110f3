package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Face detection API
	FaceAPIBaseURL string
	FaceAPIKey     string

	// Generative analysis API
	InsightAPIBaseURL string
	InsightAPIKey     string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Auth
	JWTSecret string

	// Payment webhook
	PaymentWebhookToken string

	// Database
	DatabaseURL string

	// Sessions
	SessionTTL time.Duration

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// A local .env is a convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		FaceAPIBaseURL: getEnv("FACE_API_BASE_URL", "https://api.face-detect.example.com/v1/"),
		FaceAPIKey:     getEnv("FACE_API_KEY", ""),

		InsightAPIBaseURL: getEnv("INSIGHT_API_BASE_URL", "https://api.insight.example.com/v1/"),
		InsightAPIKey:     getEnv("INSIGHT_API_KEY", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "selfies"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		PaymentWebhookToken: getEnv("PAYMENT_WEBHOOK_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FaceAPIKey == "" {
		return fmt.Errorf("FACE_API_KEY is required")
	}
	if c.InsightAPIKey == "" {
		return fmt.Errorf("INSIGHT_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PaymentWebhookToken == "" {
		return fmt.Errorf("PAYMENT_WEBHOOK_TOKEN is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
