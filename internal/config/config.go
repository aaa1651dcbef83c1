package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside development")

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Environment string
	Port        string

	DBDriver          string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration

	UploadDir     string
	MaxUploadSize int64

	CORSOrigins []string

	// Login throttling is off when RedisURL is empty.
	RedisURL          string
	LoginRateLimit    int
	LoginRateInterval time.Duration

	AdminEmail    string
	AdminPassword string
	AdminName     string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),

		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=password dbname=jobportal port=5432 sslmode=disable"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvAsDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 5<<20)),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		RedisURL:          getEnv("REDIS_URL", ""),
		LoginRateLimit:    getEnvAsInt("LOGIN_RATE_LIMIT", 10),
		LoginRateInterval: getEnvAsDuration("LOGIN_RATE_INTERVAL", time.Minute),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate fills development defaults and rejects unsafe production settings.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return ErrMissingJWTSecret
		}
		log.Println("JWT_SECRET not set, using development secret")
		c.JWTSecret = devJWTSecret
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
