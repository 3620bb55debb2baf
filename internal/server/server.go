package server

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/expedientes/internal/metrics"
)

// NewGRPCServer builds a server with ExpedienteService, the standard health
// service (overall and per-service SERVING) and reflection for grpcurl.
func NewGRPCServer(svc ExpedienteServer, logger *slog.Logger, m *metrics.Metrics, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(UnaryInterceptor(logger, m)))
	s := grpc.NewServer(opts...)

	RegisterExpedienteServer(s, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(s)
	return s, hs
}
