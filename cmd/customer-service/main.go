package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	partnerapp "github.com/finsuite/backend/internal/application/partner"
	"github.com/finsuite/backend/internal/bootstrap"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/obfuscation"
	"github.com/finsuite/backend/internal/infrastructure/peer"
	"github.com/finsuite/backend/internal/infrastructure/persistence"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"github.com/finsuite/backend/internal/infrastructure/server"
	"github.com/finsuite/backend/internal/interfaces/http/handler"
	"github.com/finsuite/backend/internal/interfaces/http/middleware"
	"github.com/finsuite/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Customer Service API
//	@version		1.0
//	@description	Client records addressed by an obfuscated public code. Client detail is enriched with the products held in the product service.

//	@host		localhost:8030
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

	app, err := bootstrap.New(ctx, config.ServiceCustomer)
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

	codec, err := obfuscation.NewCodec(cfg.Obfuscation.Key)
	if err != nil {
		return err
	}

	db, err := app.OpenDatabase(&models.ClientModel{})
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}

	blacklist, err := app.TokenBlacklist(ctx)
	if err != nil {
		log.Error("Failed to initialize token blacklist", zap.Error(err))
		return err
	}

	products := peer.NewProductCatalog(
		app.PeerCaller(config.ServiceProduct, cfg.Peers.ProductServiceURL),
		peer.FetchPolicy(cfg.Outbound),
	)
	clientService := partnerapp.NewClientService(persistence.NewGormClientRepository(db.DB), products, codec, log)

	engine := router.NewEngine(cfg, log, middleware.HTTPMetrics(app.Meter, log))
	engine.GET("/health", handler.NewSystemHandler(cfg.App.Name, version, db).Health)

	router.NewRouter(engine).
		Use(router.Authentication(cfg.Auth.RequireToken, app.JWTService(), blacklist, log), middleware.SpanEnricher()).
		Register(router.ClientRoutes(handler.NewClientHandler(clientService))).
		Setup()

	return server.New(cfg.App.Port, cfg.HTTP, engine, log).Run(ctx)
}
