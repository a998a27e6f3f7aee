package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	ginhandler "user-service/internal/adapter/gin/handler"
	ginrouter "user-service/internal/adapter/gin/router"
	"user-service/internal/adapter/ratelimit"
	"user-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Health *health.Server
	Gin    *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	rateLimiter *ratelimit.Limiter,
	handler *ginhandler.UserHandler,
	healthCheck ginrouter.HealthCheck,
) *Server {
	grpcServer, healthServer := SetupGRPC(l, rateLimiter)
	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   grpcServer,
		Health: healthServer,
		Gin: SetupGinServer(handler, rateLimiter, healthCheck, cfg.App.TrustedProxies,
			httpAddress(cfg), cfg.App.Environment, l),
	}
}

// Start runs the gRPC and Gin servers and blocks until both have stopped.
// When either fails, the other is closed so the failure is returned promptly.
// A Gin server closed by Shutdown is not reported as an error.
func (s *Server) Start() error {
	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		if err := s.startGRPC(); err != nil {
			return fmt.Errorf("failed to start gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start Gin server: %w", err)
		}
		return nil
	})

	// gctx is also canceled when Wait returns, so this goroutine always exits.
	go func() {
		<-gctx.Done()
		s.GRPC.Stop()
		_ = s.Gin.Close()
	}()

	return g.Wait()
}

// Shutdown marks the health service as not serving and stops both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Health.Shutdown()

	var errs []error
	if s.Gin != nil {
		s.Logger.Info("shutting down Gin server...")
		if err := s.Gin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	if s.GRPC != nil {
		s.Logger.Info("shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.GRPC.Stop()
		}
	}

	return errors.Join(errs...)
}

func (s *Server) startGRPC() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC server running", zap.String("address", grpcAddress(s.Config)))
	return s.GRPC.Serve(lis)
}

func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
