package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	MarketData MarketDataConfig
	Benchmark  BenchmarkConfig
	Sheets     SheetsConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MarketDataConfig contains credentials and options for the remote
// fundamentals API and its fetch cache.
type MarketDataConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// BenchmarkConfig holds benchmark and cache-warming settings.
type BenchmarkConfig struct {
	MaxPeers       int
	WarmSchedule   string
	WarmIndustries []string
}

// SheetsConfig contains configuration for the optional Google Sheets export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the export has been configured at all.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" || c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := parseDuration("MARKETDATA_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("MARKETDATA_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	maxPeers, err := parseInt("BENCHMARK_MAX_PEERS", "8")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MarketData: MarketDataConfig{
			BaseURL:  os.Getenv("MARKETDATA_BASE_URL"),
			APIKey:   os.Getenv("MARKETDATA_API_KEY"),
			Timeout:  timeout,
			CacheTTL: cacheTTL,
		},
		Benchmark: BenchmarkConfig{
			MaxPeers:       maxPeers,
			WarmSchedule:   getenvWithDefault("CACHE_WARM_SCHEDULE", "0 * * * *"),
			WarmIndustries: splitList(os.Getenv("CACHE_WARM_INDUSTRIES")),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_RESULTS_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "finhealth"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MarketData.BaseURL == "" {
		return errors.New("MARKETDATA_BASE_URL must be provided")
	}
	if c.MarketData.Timeout <= 0 {
		return errors.New("MARKETDATA_TIMEOUT must be positive")
	}
	if c.MarketData.CacheTTL <= 0 {
		return errors.New("MARKETDATA_CACHE_TTL must be positive")
	}

	if c.Benchmark.MaxPeers <= 0 {
		return errors.New("BENCHMARK_MAX_PEERS must be positive")
	}
	if c.Benchmark.WarmSchedule == "" {
		return errors.New("CACHE_WARM_SCHEDULE must be provided")
	}

	// The sheets export is optional, but a half-configured one is a mistake.
	if c.Sheets.Enabled() {
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when sheets export is enabled")
		case c.Sheets.SpreadsheetID == "":
			return errors.New("GOOGLE_SHEET_RESULTS_ID must be provided when sheets export is enabled")
		}
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getenvWithDefault(key, fallback)
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return value, nil
}

func parseInt(key, fallback string) (int, error) {
	raw := getenvWithDefault(key, fallback)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid integer: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
