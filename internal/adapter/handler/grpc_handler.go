package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// CoffeeServiceName is the service name reported by the gRPC health server
// alongside the overall ("") status.
const CoffeeServiceName = "coffee.CoffeeService"

// GRPCHealth serves grpc.health.v1 and keeps its status in step with a
// periodic readiness probe of the store and the broker.
type GRPCHealth struct {
	server   *health.Server
	checks   []HealthCheck
	interval time.Duration
	logger   *zap.Logger
}

func NewGRPCHealth(logger *zap.Logger, interval time.Duration, checks ...HealthCheck) *GRPCHealth {
	g := &GRPCHealth{
		server:   health.NewServer(),
		checks:   checks,
		interval: interval,
		logger:   logger,
	}
	g.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return g
}

func (g *GRPCHealth) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, g.server)
}

// Probe runs the readiness checks once and publishes the result.
func (g *GRPCHealth) Probe(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	failures := runChecks(ctx, g.checks)

	status := grpc_health_v1.HealthCheckResponse_SERVING
	for name, err := range failures {
		g.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	g.setStatus(status)
	return status
}

// Run probes immediately and then on every interval until ctx is done, at
// which point all services are reported NOT_SERVING.
func (g *GRPCHealth) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			g.server.Shutdown()
			return
		case <-ticker.C:
			g.Probe(ctx)
		}
	}
}

func (g *GRPCHealth) setStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	g.server.SetServingStatus("", status)
	g.server.SetServingStatus(CoffeeServiceName, status)
}
