package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"user-service/internal/adapter/grpc/middleware"
	"user-service/internal/adapter/ratelimit"
	"user-service/pkg/logger"
)

// ServiceName is the name reported by the gRPC health service.
const ServiceName = "user-service"

// SetupGRPC creates the gRPC server carrying the standard health service.
// Calls pass through the request id and rate limit interceptors.
func SetupGRPC(l *zap.Logger, rateLimiter *ratelimit.Limiter) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RateLimitInterceptor(rateLimiter),
		),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	l.Info("gRPC server configured", zap.String("health_service", ServiceName))

	return grpcServer, healthServer
}
