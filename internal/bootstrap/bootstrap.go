// Package bootstrap assembles the process-wide dependencies shared by every
// service binary: configuration, logging, telemetry, database and token revocation.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsuite/backend/internal/infrastructure/auth"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/logger"
	"github.com/finsuite/backend/internal/infrastructure/peer"
	"github.com/finsuite/backend/internal/infrastructure/persistence"
	"github.com/finsuite/backend/internal/infrastructure/ratelimit"
	"github.com/finsuite/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds one service's dependencies. Close releases them in reverse order.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Tracer *telemetry.TracerProvider
	Meter  *telemetry.MeterProvider
	DB     *persistence.Database

	redis   *redis.Client
	closers []func(context.Context) error
}

// New loads the configuration of service and starts logging and telemetry
func New(ctx context.Context, service string) (*App, error) {
	cfg, err := config.Load(service)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig is New with an already loaded configuration
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(logger.Config{
		Service: cfg.App.Name,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{Config: cfg, Logger: log}
	app.onClose(func(context.Context) error {
		_ = log.Sync()
		return nil
	})

	telCfg := telemetry.ConfigFrom(cfg)

	logs, err := telemetry.NewLoggerProvider(ctx, telCfg, log)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.onClose(logs.Shutdown)
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	app.Logger = telemetry.Bridge(log, cfg.App.Name, logs, level)

	app.Tracer, err = telemetry.NewTracerProvider(ctx, telCfg, app.Logger)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.onClose(app.Tracer.Shutdown)

	app.Meter, err = telemetry.NewMeterProvider(ctx, telCfg, app.Logger)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.onClose(app.Meter.Shutdown)

	app.Logger.Info("Starting service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	return app, nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// OpenDatabase connects to the configured database and, when
// database.auto_migrate is set, creates the tables of models
func (a *App) OpenDatabase(models ...any) (*persistence.Database, error) {
	db, err := persistence.NewDatabase(&a.Config.Database, a.Logger, logger.MapGormLogLevel(a.Config.Log.Level))
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return db.Close() })

	if a.Config.Database.AutoMigrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, err
		}
		a.Logger.Info("Database schema migrated", zap.Int("models", len(models)))
	}

	a.Logger.Info("Database connected successfully", zap.String("driver", a.Config.Database.Driver))
	a.DB = db
	return db, nil
}

// JWTService returns the token service built from the jwt section
func (a *App) JWTService() *auth.JWTService {
	return auth.NewJWTService(a.Config.JWT)
}

// TokenBlacklist returns a Redis-backed blacklist when redis.enabled is set,
// otherwise one held in process memory
func (a *App) TokenBlacklist(ctx context.Context) (auth.TokenBlacklist, error) {
	if !a.Config.Redis.Enabled {
		a.Logger.Info("Redis disabled, revoked tokens are kept in memory")
		return auth.NewInMemoryTokenBlacklist(), nil
	}

	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewRedisTokenBlacklist(client), nil
}

// SignInLimiter returns the limiter guarding sign-up and sign-in, or nil
// when auth.sign_in_limit is zero. It shares Redis with the blacklist when enabled.
func (a *App) SignInLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	limit, window := a.Config.Auth.SignInLimit, a.Config.Auth.SignInWindow
	if limit <= 0 {
		return nil, nil
	}
	if !a.Config.Redis.Enabled {
		return ratelimit.NewMemoryLimiter(limit, window), nil
	}

	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRedisLimiter(client, "iam:signin:", limit, window), nil
}

// redisClient connects once and reuses the client afterwards
func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}

	client, err := auth.NewRedisClient(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return client.Close() })
	a.Logger.Info("Connected to Redis", zap.String("addr", a.Config.Redis.Address()))
	a.redis = client
	return client, nil
}

// PeerCaller returns an instrumented caller for the peer service at baseURL
func (a *App) PeerCaller(name, baseURL string) *peer.Caller {
	caller := peer.NewCaller(name, baseURL, a.Config.Outbound.MaxBodyBytes, a.Logger)
	if err := caller.Instrument(a.Meter.Meter("peer")); err != nil {
		a.Logger.Warn("Peer call metrics disabled", zap.String("peer", name), zap.Error(err))
	}
	return caller
}

// Close releases everything acquired so far, most recent first
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
