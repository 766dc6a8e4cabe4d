package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider source names accepted in PROVIDER_SOURCES
const (
	SourceQuote    = "quote"
	SourceSnapshot = "snapshot"
	SourcePostgres = "postgres"
)

// Config holds all process configuration for the screener
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (fundamentals snapshot store)
	Database DatabaseConfig

	// Redis (provider cache)
	Redis RedisConfig

	// Market data providers
	Provider ProviderConfig

	// Scan runtime
	Scan ScanConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Snapshots older than this are treated as missing, 0 = no limit
	SnapshotMaxAge time.Duration
}

// ProviderConfig holds market data provider settings
type ProviderConfig struct {
	// Sources is the ordered fallback chain, e.g. ["quote", "snapshot"]
	Sources []string

	QuoteBaseURL    string
	QuoteAPIKey     string
	SnapshotBaseURL string

	RateLimit float64 // requests per second per source, 0 = unlimited
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// ScanConfig holds scan runtime settings
type ScanConfig struct {
	Workers        int
	FetchTimeout   time.Duration
	ThresholdsFile string   // optional YAML with threshold overrides
	Schedule       string   // cron spec for the scheduler
	Tickers        []string // universe for scheduled scans
}

// HasSource reports whether a provider source is configured
func (p ProviderConfig) HasSource(name string) bool {
	for _, s := range p.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
			SnapshotMaxAge:  getEnvAsDuration("DB_SNAPSHOT_MAX_AGE", "168h"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Providers
		Provider: ProviderConfig{
			Sources:         getEnvAsList("PROVIDER_SOURCES", []string{SourceQuote}),
			QuoteBaseURL:    getEnv("QUOTE_BASE_URL", "http://localhost:9400"),
			QuoteAPIKey:     getEnv("QUOTE_API_KEY", ""),
			SnapshotBaseURL: getEnv("SNAPSHOT_BASE_URL", "https://finviz.com"),
			RateLimit:       getEnvAsFloat("PROVIDER_RATE_LIMIT", 5),
			Timeout:         getEnvAsDuration("PROVIDER_TIMEOUT", "15s"),
			CacheTTL:        getEnvAsDuration("PROVIDER_CACHE_TTL", "6h"),
		},

		// Scan
		Scan: ScanConfig{
			Workers:        getEnvAsInt("SCAN_WORKERS", runtime.NumCPU()),
			FetchTimeout:   getEnvAsDuration("SCAN_FETCH_TIMEOUT", "30s"),
			ThresholdsFile: getEnv("SCAN_THRESHOLDS_FILE", ""),
			Schedule:       getEnv("SCAN_SCHEDULE", "0 30 16 * * 1-5"),
			Tickers:        getEnvAsList("SCAN_TICKERS", nil),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Provider.Sources) == 0 {
		return fmt.Errorf("PROVIDER_SOURCES must name at least one source")
	}
	for _, s := range c.Provider.Sources {
		switch s {
		case SourceQuote, SourceSnapshot, SourcePostgres:
		default:
			return fmt.Errorf("PROVIDER_SOURCES: unknown source %q", s)
		}
	}

	// The snapshot store is only needed when it is part of the chain
	if c.Provider.HasSource(SourcePostgres) && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when PROVIDER_SOURCES includes postgres")
	}

	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
