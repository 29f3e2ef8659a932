package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/tax"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Tax      tax.Config
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

// MarketConfig holds market-data collaborator configuration. A cached quote
// is fresh within TTL, stale between TTL and MaxAge, unavailable beyond.
type MarketConfig struct {
	TTL             time.Duration
	MaxAge          time.Duration
	FetchTimeout    time.Duration
	RefreshSchedule string // cron spec for the background quote refresh
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/equitrack.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Market: MarketConfig{
			TTL:             getEnvDuration("MARKET_CACHE_TTL", 5*time.Minute),
			MaxAge:          getEnvDuration("MARKET_CACHE_MAX_AGE", 24*time.Hour),
			FetchTimeout:    getEnvDuration("MARKET_FETCH_TIMEOUT", 10*time.Second),
			RefreshSchedule: getEnv("MARKET_REFRESH_SCHEDULE", "@every 5m"),
		},
		Tax: tax.DefaultConfig(),
	}

	// Rate overrides apply to future computations only; stored transactions
	// are never touched by a configuration change.
	if err := overrideRate(&config.Tax.FlatRate, "TAX_FLAT_RATE"); err != nil {
		return nil, err
	}
	if err := overrideRate(&config.Tax.FlatIncomeShare, "TAX_FLAT_INCOME_SHARE"); err != nil {
		return nil, err
	}
	if err := overrideRate(&config.Tax.FlatSocialShare, "TAX_FLAT_SOCIAL_SHARE"); err != nil {
		return nil, err
	}
	if err := overrideRate(&config.Tax.SocialDeductibleRate, "TAX_SOCIAL_DEDUCTIBLE_RATE"); err != nil {
		return nil, err
	}
	if err := overrideRate(&config.Tax.DividendAllowance, "TAX_DIVIDEND_ALLOWANCE"); err != nil {
		return nil, err
	}
	if brackets := os.Getenv("TAX_BRACKETS"); brackets != "" {
		parsed, err := parseBrackets(brackets)
		if err != nil {
			return nil, err
		}
		config.Tax.Brackets = parsed
	}
	if err := config.Tax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax configuration: %w", err)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// parseBrackets parses a "lowerBound:rate,lowerBound:rate,..." list,
// e.g. "0:0,11294:0.11,28797:0.30".
func parseBrackets(value string) ([]tax.Bracket, error) {
	var brackets []tax.Bracket
	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid bracket %q, expected lowerBound:rate", pair)
		}
		lower, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid bracket lower bound %q: %w", parts[0], err)
		}
		rate, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid bracket rate %q: %w", parts[1], err)
		}
		brackets = append(brackets, tax.Bracket{LowerBound: lower, Rate: rate})
	}
	return brackets, nil
}

func overrideRate(target *decimal.Decimal, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
