package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// DefaultModel is used when GROQ_MODEL is not set.
const DefaultModel = "llama3-70b-8192"

// DefaultFallbackProfileURL is the canonical business profile fetched when
// neither the request nor the configured sources provide one.
const DefaultFallbackProfileURL = "https://raw.githubusercontent.com/kvothesson/chat-saas-poc/main/data/business.json"

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Completion provider
	CompletionAPIKey  string
	CompletionModel   string
	CompletionBaseURL string
	CompletionRPS     float64 // 0 disables client-side rate limiting
	CompletionBurst   int

	// Business profile sources, tried in this order after the request body
	ProfileURL         string
	ProfilePath        string
	FallbackProfileURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxConcurrency int

	// Observability
	OTLPEndpoint string
	DebugStats   bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CompletionAPIKey:  getEnv("GROQ_API_KEY", ""),
		CompletionModel:   getEnv("GROQ_MODEL", ""),
		CompletionBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		CompletionRPS:     getEnvFloat("COMPLETION_RPS", 0),
		CompletionBurst:   getEnvInt("COMPLETION_BURST", 5),

		ProfileURL:         getEnv("BUSINESS_JSON_URL", ""),
		ProfilePath:        getEnv("BUSINESS_JSON_PATH", ""),
		FallbackProfileURL: getEnv("BUSINESS_FALLBACK_URL", DefaultFallbackProfileURL),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		DebugStats:   getEnv("DEBUG_STATS", "false") == "true",
	}
}

// Validate reports configuration that makes the gateway unable to serve chat requests.
func (c *Config) Validate() error {
	if c.CompletionAPIKey == "" {
		return errors.New("GROQ_API_KEY is required")
	}
	if c.MaxConcurrency <= 0 {
		return errors.New("MAX_CONCURRENCY must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
