package middleware

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-service/internal/adapter/ratelimit"
	"user-service/internal/metrics"
)

// RateLimitInterceptor returns a gRPC unary interceptor that rejects calls over
// the limiter's window with codes.ResourceExhausted. Keys are per method and client IP.
func RateLimitInterceptor(limiter *ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		// Skip rate limiting if disabled
		if !limiter.Enabled() {
			return handler(ctx, req)
		}

		d := limiter.Allow(ctx, info.FullMethod, clientIP(ctx))
		if !d.Allowed {
			metrics.RateLimitedTotal.WithLabelValues("grpc").Inc()
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %d requests in %d seconds (limit: %d)",
				d.Count, limiter.Config().WindowSeconds, d.Limit)
		}

		return handler(ctx, req)
	}
}

// clientIP returns the host of the connection peer. Forwarding metadata is
// client controlled and is not used, and the port is dropped so that new
// connections share one window.
func clientIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
