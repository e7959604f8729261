package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server
	Port           string
	Host           string
	Env            string
	AllowedOrigins []string

	// Storage: "mongo" or "memory"
	StoreDriver  string
	MongoURI     string
	DatabaseName string
	MongoTimeout int

	// Redis backs the send-otp limiter; empty disables it
	RedisURL             string
	OTPSendLimit         int
	OTPSendWindowMinutes int

	// JWT
	JWTSecret     string
	JWTExpiration int // hours

	OTPTTLMinutes int

	// Brevo transactional email
	BrevoAPIKey     string
	BrevoBaseURL    string
	MailSenderName  string
	MailSenderEmail string

	RateLimitEnabled       bool
	RateLimitRequests      int
	RateLimitWindowSeconds int

	// Initial head account, created when none exists
	HeadName     string
	HeadEmail    string
	HeadPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		StoreDriver:  getEnv("STORE_DRIVER", "mongo"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "citycare"),
		MongoTimeout: getEnvAsInt("MONGO_TIMEOUT", 10),

		RedisURL:             getEnv("REDIS_URL", ""),
		OTPSendLimit:         getEnvAsInt("OTP_SEND_LIMIT", 5),
		OTPSendWindowMinutes: getEnvAsInt("OTP_SEND_WINDOW_MINUTES", 15),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 24),
		OTPTTLMinutes: getEnvAsInt("OTP_TTL_MINUTES", 5),

		BrevoAPIKey:     getEnv("BREVO_API_KEY", ""),
		BrevoBaseURL:    getEnv("BREVO_BASE_URL", "https://api.brevo.com/v3"),
		MailSenderName:  getEnv("MAIL_SENDER_NAME", "City Care"),
		MailSenderEmail: getEnv("MAIL_SENDER_EMAIL", "no-reply@citycare.local"),

		RateLimitEnabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		HeadName:     getEnv("HEAD_NAME", "City Head"),
		HeadEmail:    getEnv("HEAD_EMAIL", ""),
		HeadPassword: getEnv("HEAD_PASSWORD", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) JWTDuration() time.Duration {
	return time.Duration(c.JWTExpiration) * time.Hour
}

func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

func (c *Config) OTPSendWindow() time.Duration {
	return time.Duration(c.OTPSendWindowMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
