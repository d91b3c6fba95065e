package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.False(t, cfg.IsProduction())
	require.Equal(t, "mysql", cfg.Database.Type)
	require.Equal(t, float64(18), cfg.Marketplace.CommissionRate)
	require.Equal(t, float64(7), cfg.Marketplace.TrustFeeRate)
	require.Equal(t, float64(100), cfg.Marketplace.MinBudget)
	require.Equal(t, 20, cfg.Marketplace.DefaultPageLimit)
	require.Equal(t, 100, cfg.Marketplace.MaxPageLimit)
	require.Equal(t, float64(25), cfg.Marketplace.DefaultRadiusKm)
	require.Equal(t, 10*time.Minute, cfg.Marketplace.CategoryCacheTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MARKETPLACE_PLATFORM_COMMISSION", "20")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, float64(20), cfg.Marketplace.CommissionRate)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("DATABASE:\n  TYPE: postgres\n  PORT: \"5432\"\nMARKETPLACE:\n  MIN_BUDGET: 250\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.Database.Type)
	require.Equal(t, "5432", cfg.Database.Port)
	require.Equal(t, float64(250), cfg.Marketplace.MinBudget)
}
