package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worker-finder/pkg/config"
	"worker-finder/pkg/db"
	"worker-finder/pkg/hashistack/secretmanager"
	"worker-finder/pkg/logger"
	"worker-finder/pkg/redis"
	"worker-finder/services/category"
)

func main() {
	opts := []fx.Option{
		secretmanager.Optional(),
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		fx.Provide(category.NewService),
		fx.Invoke(seed),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return fxevent.NopLogger
		}),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func seed(conn *gorm.DB, svc *category.Service) error {
	if err := conn.AutoMigrate(&category.Category{}); err != nil {
		return err
	}

	n, err := svc.Seed(context.Background(), category.Defaults)
	if err != nil {
		zap.L().Error("failed to seed categories", zap.Error(err))
		return err
	}

	zap.L().Info("categories seeded", zap.Int64("inserted", n), zap.Int("catalog", len(category.Defaults)))
	return nil
}
