package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	catalogapp "github.com/finsuite/backend/internal/application/catalog"
	"github.com/finsuite/backend/internal/bootstrap"
	"github.com/finsuite/backend/internal/infrastructure/config"
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

//	@title			Product Service API
//	@version		1.0
//	@description	Financial products held by clients. Creating a product checks that the owning client exists in the customer service.

//	@host		localhost:8020
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

	app, err := bootstrap.New(ctx, config.ServiceProduct)
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

	db, err := app.OpenDatabase(&models.ProductModel{})
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}

	blacklist, err := app.TokenBlacklist(ctx)
	if err != nil {
		log.Error("Failed to initialize token blacklist", zap.Error(err))
		return err
	}

	customers := peer.NewCustomerDirectory(
		app.PeerCaller(config.ServiceCustomer, cfg.Peers.CustomerServiceURL),
		peer.ExistencePolicy(cfg.Outbound),
	)
	productService := catalogapp.NewProductService(persistence.NewGormProductRepository(db.DB), customers, log)

	engine := router.NewEngine(cfg, log, middleware.HTTPMetrics(app.Meter, log))
	engine.GET("/health", handler.NewSystemHandler(cfg.App.Name, version, db).Health)

	router.NewRouter(engine).
		Use(router.Authentication(cfg.Auth.RequireToken, app.JWTService(), blacklist, log), middleware.SpanEnricher()).
		Register(router.ProductRoutes(handler.NewProductHandler(productService))).
		Setup()

	return server.New(cfg.App.Port, cfg.HTTP, engine, log).Run(ctx)
}
