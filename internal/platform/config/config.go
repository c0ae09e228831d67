package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, populated from environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Payments PaymentsConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the postgres connection string for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	RefreshTTL     time.Duration
}

type StorageConfig struct {
	UploadURL    string
	PublicPrefix string
	Timeout      time.Duration
}

type PaymentsConfig struct {
	StripeSecretKey    string
	Currency           string
	SuccessURL         string
	CancelURL          string
	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Only the JWT secret is mandatory.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            envString("API_ADDR", ":8080"),
			ReadTimeout:     envDuration("API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDuration("API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     envDuration("API_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: envDuration("API_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     envString("API_DB_HOST", "localhost"),
			Port:     envInt("API_DB_PORT", 5432),
			User:     envString("API_DB_USER", "postgres"),
			Password: envString("API_DB_PASSWORD", ""),
			Name:     envString("API_DB_NAME", "loomhaven"),
			SSLMode:  envString("API_DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:      strings.TrimSpace(os.Getenv("API_JWT_SECRET")),
			AccessTokenTTL: envDuration("API_ACCESS_TOKEN_TTL", 30*time.Minute),
			RefreshTTL:     envDuration("API_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			UploadURL:    envString("API_STORAGE_UPLOAD_URL", ""),
			PublicPrefix: envString("API_STORAGE_PUBLIC_PREFIX", ""),
			Timeout:      envDuration("API_STORAGE_TIMEOUT", 30*time.Second),
		},
		Payments: PaymentsConfig{
			StripeSecretKey:    envString("API_STRIPE_SECRET_KEY", ""),
			Currency:           strings.ToLower(envString("API_PAYMENT_CURRENCY", "gbp")),
			SuccessURL:         envString("API_PAYMENT_SUCCESS_URL", ""),
			CancelURL:          envString("API_PAYMENT_CANCEL_URL", ""),
			PayPalBaseURL:      envString("API_PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
			PayPalClientID:     envString("API_PAYPAL_CLIENT_ID", ""),
			PayPalClientSecret: envString("API_PAYPAL_CLIENT_SECRET", ""),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: API_JWT_SECRET is required")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
