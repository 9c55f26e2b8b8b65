package persistence

import (
	"context"

	"github.com/finsuite/backend/internal/domain/partner"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id int64) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindByUniqueCode finds a client by its public unique code
func (r *GormClientRepository) FindByUniqueCode(ctx context.Context, uniqueCode int64) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "unique_code = ?", uniqueCode).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all clients ordered by ID
func (r *GormClientRepository) FindAll(ctx context.Context) ([]partner.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&clientModels).Error; err != nil {
		return nil, err
	}

	clients := make([]partner.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	model := models.ClientModelFromDomain(client)
	db := r.db.WithContext(ctx)

	var err error
	if client.IsNew() {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return translateWriteError(err, "Client with the same full name or unique code already exists")
	}

	client.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks if a client exists
func (r *GormClientRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByFullName checks if another client already uses the full name
func (r *GormClientRepository) ExistsByFullName(ctx context.Context, fullName string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("full_name = ?", fullName)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByUniqueCode checks if another client already uses the unique code
func (r *GormClientRepository) ExistsByUniqueCode(ctx context.Context, uniqueCode int64, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("unique_code = ?", uniqueCode)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
