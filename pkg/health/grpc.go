package health

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported for the API.
const ServiceName = "worker_finder.jobs"

var GRPC = fx.Module("health.grpc",
	fx.Provide(grpchealth.NewServer),
	fx.Invoke(RegisterGRPC),
)

// RegisterGRPC exposes grpc.health.v1 and keeps its serving status in sync
// with Check.
func RegisterGRPC(lc fx.Lifecycle, srv *grpc.Server, hs *grpchealth.Server, h HealthService) {
	healthpb.RegisterHealthServer(srv, hs)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go Watch(ctx, hs, h, 10*time.Second)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			hs.Shutdown()
			return nil
		},
	})
}

// Watch refreshes the serving status every interval until ctx is done.
func Watch(ctx context.Context, hs *grpchealth.Server, h HealthService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		Sync(ctx, hs, h)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sync sets the overall and per service status from a single Check.
func Sync(ctx context.Context, hs *grpchealth.Server, h HealthService) {
	status := healthpb.HealthCheckResponse_SERVING
	if result := h.Check(ctx); result.Status != StatusHealthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		zap.L().Warn("readiness check failed", zap.String("message", result.Message))
	}

	hs.SetServingStatus("", status)
	hs.SetServingStatus(ServiceName, status)
}
