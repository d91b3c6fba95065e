package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"

	"worker-finder/pkg/config"
)

func TestDialect(t *testing.T) {
	cases := map[string]string{
		"mysql":    "mysql",
		"":         "mysql",
		"postgres": "postgres",
		"sqlite":   "sqlite",
	}

	for typ, want := range cases {
		cfg := &config.Config{}
		cfg.Database.Type = typ
		d, err := Dialect(cfg)
		require.NoError(t, err)
		require.Equal(t, want, d.Name())
	}

	cfg := &config.Config{}
	cfg.Database.Type = "oracle"
	_, err := Dialect(cfg)
	require.Error(t, err)
}

func TestMigrateDisabledIsNoop(t *testing.T) {
	require.NoError(t, Migrate(&config.Config{}, nil))
}

func TestZapGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapGormLogger(zap.New(core), logger.Info, true)
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), fc, nil)
	l.Trace(ctx, time.Now(), fc, errors.New("boom"))
	l.Trace(ctx, time.Now(), fc, logger.ErrRecordNotFound)

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])

	silent := l.LogMode(logger.Silent)
	silent.Trace(ctx, time.Now(), fc, errors.New("boom"))
	require.Len(t, logs.All(), 3)
}
