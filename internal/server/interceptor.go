package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/metrics"
)

// RequestIDHeader is read from incoming metadata and echoed in the response header.
const RequestIDHeader = "x-request-id"

// UnaryInterceptor tags each call with a request ID and a scoped logger,
// logs the outcome and counts it.
func UnaryInterceptor(logger *slog.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				requestID = v[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		log := logger.With("request_id", requestID, "method", info.FullMethod)
		ctx = common.WithRequestID(ctx, requestID)
		ctx = common.WithLogger(ctx, log)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		m.ObserveRPC(info.FullMethod, code.String())
		if err != nil {
			log.Warn("grpc request failed", "code", code.String(), "error", err, "duration_ms", time.Since(start).Milliseconds())
		} else {
			log.Debug("grpc request", "code", code.String(), "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
