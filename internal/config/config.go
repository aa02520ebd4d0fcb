package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting the server reads from the environment.
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	TokenExpiry  time.Duration
	BaseURL      string
	SMTPHost     string
	SMTPPort     int
	SMTPSender   string
	SMTPPassword string
}

// LoadConfig reads configuration from the .env file and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		logrus.WithError(err).Warn("Invalid SMTP_PORT, falling back to 587")
		smtpPort = 587
	}

	expiryHours, err := strconv.Atoi(getEnv("TOKEN_EXPIRY_HOURS", "168"))
	if err != nil {
		logrus.WithError(err).Warn("Invalid TOKEN_EXPIRY_HOURS, falling back to 168")
		expiryHours = 168
	}

	return &Config{
		Port:         getEnv("PORT", "8000"),
		MongoURI:     getEnv("DATABASE_URL", "mongodb://localhost:27017"),
		DBName:       getEnv("DATABASE_NAME", "social_network"),
		JWTSecret:    getEnv("TOKEN_SECRET", ""),
		TokenExpiry:  time.Duration(expiryHours) * time.Hour,
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     smtpPort,
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
