package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Billing  BillingConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Front-desk login credentials. AdminPasswordHash is a bcrypt hash;
	// the default is a development-only placeholder.
	AdminUser         string
	AdminPasswordHash string
}

// BillingConfig holds billing and inventory policy switches.
type BillingConfig struct {
	// AllowNegativeStock permits billing more units of a medicine than are
	// on hand, leaving a negative stock figure for the UI to flag. When
	// false, such bills are rejected with a conflict.
	AllowNegativeStock bool
}

func Load() (*Config, error) {
	// A local .env overrides nothing already in the environment.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "frontdesk"),
			Password: getEnv("DB_PASSWORD", "frontdesk"),
			Database: getEnv("DB_NAME", "frontdesk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			TokenTTL:          time.Duration(getEnvInt("TOKEN_TTL_HOURS", 12)) * time.Hour,
			AdminUser:         getEnv("ADMIN_USER", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
		},
		Billing: BillingConfig{
			AllowNegativeStock: getEnvBool("ALLOW_NEGATIVE_STOCK", true),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
