package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-service/api/swagger"
	"user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/gin/middleware"
	"user-service/internal/adapter/ratelimit"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// APIVersion is the version served under /api/v1.
const APIVersion = "1"

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter and health may be nil. X-Forwarded-For is honoured only from
// trustedProxies; with none, the client IP is the TCP peer.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *ratelimit.Limiter,
	health HealthCheck,
	trustedProxies []string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", trustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "user-service",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/openapi/user.swagger.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swagger.Spec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/openapi/user.swagger.json"),
	)))

	// API v1 routes
	v1 := router.Group("/api/v" + APIVersion)
	v1.Use(middleware.APIVersion(APIVersion))
	v1.Use(middleware.RateLimit(rateLimiter))
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.PUT("", userHandler.UpdateUser)
			users.GET("/:id", userHandler.GetUser)
		}
	}

	return router
}
