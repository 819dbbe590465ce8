package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings for the api and worker binaries.
type Config struct {
	Port     string
	RunLocal bool
	LogLevel string

	BackendBaseURL string
	BackendTimeout time.Duration

	// Empty table names or queue URLs disable the matching AWS-backed feature.
	SessionsTable          string
	IdempotencyTable       string
	CheckoutsTable         string
	PaymentsQueueURL       string
	CheckoutEventsQueueURL string
	MetricsNamespace       string

	IdempotencyTTL time.Duration
	SessionTTL     time.Duration
}

// ErrMissingBackendURL is returned when BACKEND_BASE_URL is not set.
var ErrMissingBackendURL = errors.New("BACKEND_BASE_URL is required")

// ErrSharedQueue is returned when checkout events would land on the queue the
// payment worker consumes.
var ErrSharedQueue = errors.New("CHECKOUT_EVENTS_QUEUE_URL must differ from PAYMENTS_QUEUE_URL")

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		RunLocal:         os.Getenv("RUN_LOCAL") == "true",
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		BackendBaseURL:   os.Getenv("BACKEND_BASE_URL"),
		SessionsTable:    os.Getenv("SESSIONS_TABLE"),
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		CheckoutsTable:   os.Getenv("CHECKOUTS_TABLE"),
		PaymentsQueueURL: os.Getenv("PAYMENTS_QUEUE_URL"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "RestaurantStorefront"),

		CheckoutEventsQueueURL: os.Getenv("CHECKOUT_EVENTS_QUEUE_URL"),
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 48*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	if cfg.BackendBaseURL == "" {
		return nil, ErrMissingBackendURL
	}
	if cfg.CheckoutEventsQueueURL != "" && cfg.CheckoutEventsQueueURL == cfg.PaymentsQueueURL {
		return nil, ErrSharedQueue
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}
	return cfg, nil
}

// Addr is the listen address for the local HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
