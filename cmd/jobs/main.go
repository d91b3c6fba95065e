package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worker-finder/pkg/access"
	"worker-finder/pkg/commission"
	"worker-finder/pkg/config"
	"worker-finder/pkg/db"
	"worker-finder/pkg/featureflags"
	"worker-finder/pkg/gen"
	"worker-finder/pkg/hashistack/secretmanager"
	"worker-finder/pkg/health"
	"worker-finder/pkg/logger"
	"worker-finder/pkg/middleware"
	"worker-finder/pkg/otelcol"
	"worker-finder/pkg/profiling"
	"worker-finder/pkg/redis"
	"worker-finder/pkg/server"
	"worker-finder/pkg/task"
	"worker-finder/services/category"
	"worker-finder/services/job"
	"worker-finder/services/jobevent"
	"worker-finder/services/notification"
	"worker-finder/services/profile"
)

func main() {
	opts := []fx.Option{
		secretmanager.Optional(),
		config.Module,
		logger.Module,
		db.Module,
		gen.Module,
		redis.Module,
		otelcol.Module,
		profiling.Module,
		featureflags.Module,
		access.Module,
		middleware.Module,
		commission.Module,
		task.Client,
		jobevent.PublisherModule,
		health.Module,
		health.GRPC,
		profile.Module,
		category.Module,
		notification.Module,
		job.Module,
		fx.Invoke(migrate),
		server.ProvideGRPCServer,
		server.ProvideHTTPServer,
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
	models := append(profile.Models(), job.Models()...)
	models = append(models,
		&category.Category{},
		&notification.Notification{},
		&jobevent.JobEvent{},
	)
	return db.Migrate(cfg, conn, models...)
}
