package persistence

import (
	"context"

	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all products ordered by ID, optionally of one type
func (r *GormProductRepository) FindAll(ctx context.Context, productType catalog.ProductType) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx)
	if productType != "" {
		query = query.Where("product_type = ?", string(productType))
	}
	return r.find(query)
}

// FindByClientID finds all products held by a client
func (r *GormProductRepository) FindByClientID(ctx context.Context, clientID int64) ([]catalog.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("client_id = ?", clientID))
}

func (r *GormProductRepository) find(query *gorm.DB) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	if err := query.Order("id ASC").Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	db := r.db.WithContext(ctx)

	var err error
	if product.IsNew() {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return translateWriteError(err, "Product with the same name already exists for this client")
	}

	product.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks if a product exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByClientIDAndName checks if a client already holds a product with this name
func (r *GormProductRepository) ExistsByClientIDAndName(ctx context.Context, clientID int64, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("client_id = ? AND name = ?", clientID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
