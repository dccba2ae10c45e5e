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

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// devJWTSecret is only accepted with the in-memory store
const devJWTSecret = "dev-secret-change-me"

// Config holds application configuration
type Config struct {
	Port         string
	StoreDriver  string
	DatabaseURL  string
	JWTSecret    string
	TokenTTL     time.Duration
	BidPolicy    string
	ExpandSeller bool
	ExpandBids   bool
	ExpandBidder bool
	ExpandEmail  bool
	LogLevel     string
	SeedDemoData bool
}

// Load reads an optional .env file and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := &Config{
		Port:         GetEnv("PORT", "8080"),
		StoreDriver:  strings.ToLower(GetEnv("STORE_DRIVER", DriverMemory)),
		DatabaseURL:  GetEnv("DATABASE_URL", ""),
		JWTSecret:    GetEnv("JWT_SECRET", ""),
		TokenTTL:     GetEnvDuration("TOKEN_TTL", 24*time.Hour),
		BidPolicy:    GetEnv("BID_POLICY", "presence"),
		ExpandSeller: GetEnvBool("EXPAND_SELLER", true),
		ExpandBids:   GetEnvBool("EXPAND_BIDS", true),
		ExpandBidder: GetEnvBool("EXPAND_BIDDER", true),
		ExpandEmail:  GetEnvBool("EXPAND_EMAIL", false),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
	}
	cfg.SeedDemoData = GetEnvBool("SEED_DEMO_DATA", cfg.StoreDriver == DriverMemory)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
		if c.JWTSecret == "" {
			c.JWTSecret = devJWTSecret
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("config: JWT_SECRET is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// GetEnv returns the value of key or fallback when unset or empty
func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetEnvBool parses key as a boolean, falling back on unset or malformed values
func GetEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// GetEnvDuration parses key as a time.Duration, falling back on unset or malformed values
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
