package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	identityapp "github.com/finsuite/backend/internal/application/identity"
	"github.com/finsuite/backend/internal/bootstrap"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/persistence"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"github.com/finsuite/backend/internal/infrastructure/server"
	"github.com/finsuite/backend/internal/interfaces/http/handler"
	"github.com/finsuite/backend/internal/interfaces/http/middleware"
	"github.com/finsuite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			IAM Service API
//	@version		1.0
//	@description	User sign-up and sign-in. Issues the bearer tokens accepted by the other services.

//	@host		localhost:8050
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, config.ServiceIAM)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
	}()
	cfg, log := app.Config, app.Logger

	if err := middleware.SetupValidator(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	db, err := app.OpenDatabase(&models.UserModel{})
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}

	blacklist, err := app.TokenBlacklist(ctx)
	if err != nil {
		log.Error("Failed to initialize token blacklist", zap.Error(err))
		return err
	}

	limiter, err := app.SignInLimiter(ctx)
	if err != nil {
		log.Error("Failed to initialize sign-in limiter", zap.Error(err))
		return err
	}
	var guards []gin.HandlerFunc
	if limiter != nil {
		guards = append(guards, middleware.RateLimit(limiter, log))
	}

	jwtService := app.JWTService()
	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(db.DB), jwtService, blacklist, log)

	engine := router.NewEngine(cfg, log, middleware.HTTPMetrics(app.Meter, log))
	engine.GET("/health", handler.NewSystemHandler(cfg.App.Name, version, db).Health)

	// Sign-up and sign-in are skipped by the default JWT config
	router.NewRouter(engine).
		Use(router.Authentication(true, jwtService, blacklist, log), middleware.SpanEnricher()).
		Register(router.UserRoutes(handler.NewUserHandler(authService), guards...)).
		Setup()

	return server.New(cfg.App.Port, cfg.HTTP, engine, log).Run(ctx)
}
