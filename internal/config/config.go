package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	FrontendURL string

	AdminEmail    string
	AdminPassword string
	SessionTTL    time.Duration

	UploadDir      string
	UploadMaxBytes int64
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 12)) * time.Hour,

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes: int64(getEnvAsInt("UPLOAD_MAX_MB", 5)) * 1024 * 1024,
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
