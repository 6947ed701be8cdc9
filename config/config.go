// Package config loads process configuration from the environment.
// A .env file in the working directory is applied first when present,
// so local development matches the container setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, grouped by concern.
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Cookie    CookieConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int

	// ReadinessDrainDelaySeconds is how long /ready reports 503 before the
	// HTTP server starts shutting down, so load balancers stop routing first.
	ReadinessDrainDelaySeconds int
}

type DatabaseConfig struct {
	// URL is a pgx-compatible PostgreSQL DSN.
	URL      string
	MaxConns int
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type CookieConfig struct {
	// Secure controls the Secure attribute on the session cookie.
	// Disabled in local development where the server runs plain HTTP.
	Secure bool
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Missing .env files are not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:                       getEnv("SERVICE_NAME", "stocked"),
			Version:                    getEnv("SERVICE_VERSION", "dev"),
			Env:                        getEnv("SERVICE_ENV", "development"),
			Port:                       getEnv("PORT", "5000"),
			ShutdownTimeoutSeconds:     getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
			ReadinessDrainDelaySeconds: getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt("DATABASE_MAX_CONNS", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		Cookie: CookieConfig{
			Secure: getEnvBool("COOKIE_SECURE", true),
		},
	}
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if _, err := strconv.Atoi(c.Service.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Service.Port)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be in [0, 1], got %v", c.Tracing.SampleRate)
	}
	return nil
}

// GetShutdownTimeoutDuration returns the graceful shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Service.ShutdownTimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns the readiness drain delay.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Service.ReadinessDrainDelaySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
