package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/finsuite/backend/internal/domain/partner"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/config"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

// newSQLiteDatabase opens a file-backed SQLite database with the schema migrated
func newSQLiteDatabase(t *testing.T, autoMigrate ...any) *Database {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		DBName:       "test",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := NewDatabase(cfg, zaptest.NewLogger(t), gormlogger.Warn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.AutoMigrate(autoMigrate...))
	return db
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, zaptest.NewLogger(t), gormlogger.Silent)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_Ping(t *testing.T) {
	db := newSQLiteDatabase(t)
	assert.NoError(t, db.Ping())
}

func TestProductRepository_SQLite(t *testing.T) {
	db := newSQLiteDatabase(t, &models.ProductModel{})
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	visa, err := catalog.NewProduct(catalog.ProductTypeCreditCard, "Visa", decimal.RequireFromString("100.25"), 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, visa))
	assert.Positive(t, visa.ID)

	exists, err := repo.ExistsByClientIDAndName(ctx, 7, "Visa")
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("unique client and name pair", func(t *testing.T) {
		dup, err := catalog.NewProduct(catalog.ProductTypeDebitCard, "Visa", decimal.Zero, 7)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

		other, err := catalog.NewProduct(catalog.ProductTypeDebitCard, "Visa", decimal.Zero, 8)
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, other))
	})

	t.Run("update keeps the ID", func(t *testing.T) {
		require.NoError(t, visa.UpdateInformation(catalog.ProductTypeCreditCard, "Visa Gold", decimal.NewFromInt(500)))
		require.NoError(t, repo.Save(ctx, visa))

		found, err := repo.FindByID(ctx, visa.ID)
		require.NoError(t, err)
		assert.Equal(t, "Visa Gold", found.Name)
		assert.True(t, decimal.NewFromInt(500).Equal(found.Balance))
	})

	t.Run("list by client", func(t *testing.T) {
		products, err := repo.FindByClientID(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, products, 1)

		products, err = repo.FindByClientID(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, visa.ID))
		_, err := repo.FindByID(ctx, visa.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, visa.ID), shared.ErrNotFound)
	})
}

func TestClientRepository_SQLite(t *testing.T) {
	db := newSQLiteDatabase(t, &models.ClientModel{})
	repo := NewGormClientRepository(db.DB)
	ctx := context.Background()

	ana, err := partner.NewClient("Ana", "Quispe", partner.TypeDocumentDNI, "12345678", 1001)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ana))

	found, err := repo.FindByUniqueCode(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, found.ID)

	taken, err := repo.ExistsByFullName(ctx, "Ana", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByFullName(ctx, "Ana", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	dup, err := partner.NewClient("Luis", "Torres", partner.TypeDocumentDNI, "87654321", 1001)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
}
