package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worker-finder/pkg/config"
	"worker-finder/pkg/db"
	"worker-finder/pkg/hashistack/secretmanager"
	"worker-finder/pkg/logger"
	"worker-finder/pkg/profiling"
	"worker-finder/pkg/redis"
	"worker-finder/pkg/task"
	"worker-finder/services/jobevent"
)

func main() {
	opts := []fx.Option{
		secretmanager.Optional(),
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		profiling.Module,
		task.Server,
		jobevent.ConsumerModule,
		fx.Invoke(migrate),
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func migrate(cfg *config.Config, conn *gorm.DB) error {
	return db.Migrate(cfg, conn, &jobevent.JobEvent{})
}
