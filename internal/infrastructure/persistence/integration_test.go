//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDatabase starts a PostgreSQL container and opens it through NewDatabase
func newPostgresDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("products_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "admin123",
		DBName:       "products_test",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}, zaptest.NewLogger(t), gormlogger.Warn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.AutoMigrate(&models.ProductModel{}, &models.ClientModel{}, &models.UserModel{}))
	return db
}

func TestProductRepository_Postgres(t *testing.T) {
	db := newPostgresDatabase(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	visa, err := catalog.NewProduct(catalog.ProductTypeCreditCard, "Visa", decimal.RequireFromString("100.00"), 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, visa))
	assert.Positive(t, visa.ID)

	dup, err := catalog.NewProduct(catalog.ProductTypeCreditCard, "Visa", decimal.Zero, 7)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

	found, err := repo.FindByID(ctx, visa.ID)
	require.NoError(t, err)
	assert.True(t, visa.Balance.Equal(found.Balance))

	products, err := repo.FindByClientID(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
