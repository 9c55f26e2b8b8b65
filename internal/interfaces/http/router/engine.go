package router

import (
	"time"

	"github.com/finsuite/backend/internal/infrastructure/auth"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/logger"
	"github.com/finsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewEngine creates a gin engine with the middleware stack shared by every service.
// Order: request ID, recovery, access log, security headers, CORS, body limit,
// tracing, then forwarding of the caller's Authorization header to peer calls.
// extra handlers (metrics, for instance) run after tracing.
func NewEngine(cfg *config.Config, log *zap.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// Obfuscated client codes may carry an escaped '/'
	engine.UseRawPath = true

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.ForwardAuthorization())
	if len(extra) > 0 {
		engine.Use(extra...)
	}

	return engine
}

// Authentication returns the bearer token middleware for the API group.
// With required set, requests without a valid token are rejected except on the
// public user routes; otherwise a valid token is attached when present.
func Authentication(required bool, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	if !required {
		return middleware.OptionalJWTAuthMiddleware(jwtService)
	}

	cfg := middleware.DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	cfg.Logger = log
	return middleware.JWTAuthMiddlewareWithConfig(cfg)
}
