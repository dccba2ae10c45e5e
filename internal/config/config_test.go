package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "STORE_DRIVER", "DATABASE_URL", "JWT_SECRET", "TOKEN_TTL", "BID_POLICY",
	"EXPAND_SELLER", "EXPAND_BIDS", "EXPAND_BIDDER", "EXPAND_EMAIL", "LOG_LEVEL", "SEED_DEMO_DATA",
}

// clearEnv blanks every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, DriverMemory, cfg.StoreDriver)
	require.Equal(t, devJWTSecret, cfg.JWTSecret)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "presence", cfg.BidPolicy)
	require.True(t, cfg.ExpandSeller)
	require.True(t, cfg.ExpandBids)
	require.True(t, cfg.ExpandBidder)
	require.False(t, cfg.ExpandEmail)
	require.True(t, cfg.SeedDemoData)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/market")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("EXPAND_EMAIL", "true")
	t.Setenv("EXPAND_BIDS", "not-a-bool")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, DriverPostgres, cfg.StoreDriver)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.True(t, cfg.ExpandEmail)
	require.True(t, cfg.ExpandBids, "malformed values fall back to the default")
	require.False(t, cfg.SeedDemoData, "seeding is off by default for databases")
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set
	for _, k := range []string{"BID_POLICY", "LOG_LEVEL"} {
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BID_POLICY=above-highest\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("BID_POLICY")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "above-highest", cfg.BidPolicy)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown_driver", env: map[string]string{"STORE_DRIVER": "mongo"}},
		{name: "postgres_without_url", env: map[string]string{"STORE_DRIVER": "postgres", "JWT_SECRET": "x"}},
		{name: "sqlite_without_secret", env: map[string]string{"STORE_DRIVER": "sqlite", "DATABASE_URL": "market.db"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}
