package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                                    // Echo web framework handles routing
	"github.com/prometheus/client_golang/prometheus/promhttp"        // promhttp serves the metrics endpoint
	"github.com/redis/go-redis/v9"                                   // redis client backs the rate limiter

	"github.com/iliyamo/movie-ticket-api/internal/config"     // runtime configuration
	"github.com/iliyamo/movie-ticket-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-ticket-api/internal/middleware" // JWT, role and rate-limit middleware
)

// RegisterRoutes wires every endpoint of the service onto the provided Echo
// instance. The ticket CRUD routes are public; the cache-clear route
// requires an ADMIN token issued by the login endpoint. The rate limiter
// applies to the whole /v1 surface and degrades to a no-op when Redis is
// unavailable.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, th *handler.TicketHandler, ah *handler.AuthHandler) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)
	// Prometheus scrape endpoint (cache hit/miss/invalidation counters).
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.Use(middleware.NewFixedWindow(config.LoadRateLimitConfig(), rdb))

	// Admin login issuing the JWT used for protected routes.
	v1.POST("/auth/login", ah.Login)

	// Ticket CRUD.
	t := v1.Group("/tickets")
	t.GET("", th.List)
	t.GET("/:id", th.Get)
	t.POST("", th.Create)
	t.PUT("/:id", th.Update)
	t.DELETE("/:id", th.Delete)

	// Administrative cache clear, ADMIN-only.
	admin := v1.Group("/cache")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.DELETE("/tickets", th.ClearCache)
}
