package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Log        LogConfig
	MarketData MarketDataConfig
	Valuation  ValuationConfig
	Snapshot   SnapshotConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string // debug, info, warn, error
	JSON  bool   // structured JSON output instead of the console writer
}

// MarketDataConfig controls how quotes and FX pairs are fetched from the market-data provider.
type MarketDataConfig struct {
	Timeout     time.Duration // Per-symbol request timeout
	Concurrency int           // Maximum number of in-flight quote requests
}

// ValuationConfig holds the currencies and benchmark used when valuing portfolios.
type ValuationConfig struct {
	DisplayCurrency string   // Currency used for formatted summary figures
	FXCurrencies    []string // Non-USD currencies whose USD<CUR>=X rate is always fetched
	BenchmarkSymbol string   // Ticker used as the performance benchmark
}

// SnapshotConfig holds the schedule of the daily performance snapshot job.
type SnapshotConfig struct {
	Enabled  bool
	Schedule string // Standard 5-field cron expression
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("MARKET_DATA_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_DATA_TIMEOUT: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnv("MARKET_DATA_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_DATA_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("invalid MARKET_DATA_CONCURRENCY: must be at least 1, got %d", concurrency)
	}

	snapshotEnabled, err := strconv.ParseBool(getEnv("SNAPSHOT_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_ENABLED: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
			JSON:  getEnv("LOG_FORMAT", "console") == "json",
		},
		MarketData: MarketDataConfig{
			Timeout:     timeout,
			Concurrency: concurrency,
		},
		Valuation: ValuationConfig{
			DisplayCurrency: strings.ToUpper(getEnv("DISPLAY_CURRENCY", "USD")),
			FXCurrencies:    upperAll(splitList(getEnv("FX_CURRENCIES", "EUR,HUF"))),
			BenchmarkSymbol: strings.ToUpper(getEnv("BENCHMARK_SYMBOL", "SPY")),
		},
		Snapshot: SnapshotConfig{
			Enabled:  snapshotEnabled,
			Schedule: getEnv("SNAPSHOT_SCHEDULE", "0 22 * * 1-5"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func upperAll(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
	return values
}
