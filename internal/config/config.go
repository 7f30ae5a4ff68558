package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   int

	// Upstream training-center core API, e.g. "http://core-api:8080"
	CoreAPIURL string

	// Auth provider, proxied opaquely for the dashboard login flow
	AuthServiceURL string

	// JWT verification (must match the auth provider signing config)
	JWTSecret string
	JWTIssuer string

	// Redis (template cache + write rate limiter); empty addr disables both
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Cache
	TemplateCacheTTL time.Duration

	// Rate limit on write/workflow endpoints
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Document scanner budgets
	ScanImageTimeout time.Duration
	ScanPDFTimeout   time.Duration

	// CORS
	DashboardOrigins []string

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.Port = getInt("PORT", 8080)

	cfg.CoreAPIURL = strings.TrimRight(getEnv("CORE_API_URL", "http://core-api:8080"), "/")
	cfg.AuthServiceURL = strings.TrimRight(getEnv("AUTH_SERVICE_URL", "http://auth-service:8080"), "/")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPass = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getInt("REDIS_DB", 0)

	cfg.TemplateCacheTTL = getDuration("TEMPLATE_CACHE_TTL", 5*time.Minute)

	cfg.RLEnabled = getBool("RATE_LIMIT_ENABLED", true)
	cfg.RLLimit = getInt("RATE_LIMIT_LIMIT", 30)
	cfg.RLWindow = getDuration("RATE_LIMIT_WINDOW", time.Minute)

	cfg.ScanImageTimeout = getDuration("SCAN_IMAGE_TIMEOUT", 60*time.Second)
	cfg.ScanPDFTimeout = getDuration("SCAN_PDF_TIMEOUT", 120*time.Second)

	cfg.DashboardOrigins = splitCSV(getEnv("DASHBOARD_ORIGINS", "http://localhost:5173"))

	cfg.TracingEnabled = getBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if _, err := url.Parse(c.CoreAPIURL); err != nil {
		return fmt.Errorf("config: invalid CORE_API_URL: %w", err)
	}
	if _, err := url.Parse(c.AuthServiceURL); err != nil {
		return fmt.Errorf("config: invalid AUTH_SERVICE_URL: %w", err)
	}
	if c.AppEnv != "dev" && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required outside dev")
	}
	if c.RLEnabled && c.RLLimit <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
