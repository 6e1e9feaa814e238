package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: "sqlite" serves the shared collections from the
	// configured database, "none" reports every collection as unavailable
	// so clients fall back to local-only mode.
	DataBackend string

	// Database
	SQLiteDBPath string

	// Exchange rates
	RatePrimaryURL   string
	RateSecondaryURL string
	RateCacheTTL     time.Duration
	RateFallbackUSD  float64
	RateFallbackARS  float64

	// Client (CLI) settings
	APIBaseURL          string
	LocalDataDir        string
	RateRefreshInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/brasil2026.db"),

		RatePrimaryURL:   getEnv("RATE_PRIMARY_URL", "https://api.frankfurter.dev/latest?from=BRL&to=USD,ARS"),
		RateSecondaryURL: getEnv("RATE_SECONDARY_URL", "https://open.er-api.com/v6/latest/BRL"),
		RateCacheTTL:     getEnvDuration("RATE_CACHE_TTL", time.Hour),
		RateFallbackUSD:  getEnvFloat("RATE_FALLBACK_USD", 0.18),
		RateFallbackARS:  getEnvFloat("RATE_FALLBACK_ARS", 260),

		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:8080"),
		LocalDataDir:        getEnv("LOCAL_DATA_DIR", "./data/local"),
		RateRefreshInterval: getEnvDuration("RATE_REFRESH_INTERVAL", 15*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite", "none":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite none]", c.DataBackend))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	for _, u := range []struct{ name, value string }{
		{"rate primary URL", c.RatePrimaryURL},
		{"rate secondary URL", c.RateSecondaryURL},
		{"API base URL", c.APIBaseURL},
	} {
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid %s '%s'", u.name, u.value))
		}
	}

	if c.RateCacheTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid rate cache TTL %v: must be at least 1 minute", c.RateCacheTTL))
	} else if c.RateCacheTTL > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid rate cache TTL %v: must be at most 24 hours", c.RateCacheTTL))
	}

	if c.RateRefreshInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid rate refresh interval %v: must be at least 1 minute", c.RateRefreshInterval))
	}

	if c.RateFallbackUSD <= 0 {
		errs = append(errs, fmt.Sprintf("invalid fallback USD rate %v: must be positive", c.RateFallbackUSD))
	}
	if c.RateFallbackARS <= 0 {
		errs = append(errs, fmt.Sprintf("invalid fallback ARS rate %v: must be positive", c.RateFallbackARS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
