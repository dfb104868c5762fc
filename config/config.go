package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the application reads from the environment. It is
// built once in main and handed to the constructors that need it, so business
// logic never reaches into the process environment directly.
type Config struct {
	Port           string
	MongoURI       string
	DatabaseName   string
	JWTSecret      []byte
	SendgridAPIKey string
	EmailSender    string
	GoogleClientID string
	RedisAddr      string

	// Rate limit applied to every route.
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// Load reads the configuration from environment variables. MONGO_URI and
// JWT_SECRET are required; everything else has a development default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		MongoURI:        os.Getenv("MONGO_URI"),
		DatabaseName:    getEnv("DB_NAME", "foodorder"),
		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@foodorder.local"),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimitWindow: time.Minute,
		RateLimitMax:    60,
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
