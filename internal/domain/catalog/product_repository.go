package catalog

import (
	"context"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll finds all products ordered by ID; a non-empty productType filters by type
	FindAll(ctx context.Context, productType ProductType) ([]Product, error)

	// FindByClientID finds all products held by a client
	FindByClientID(ctx context.Context, clientID int64) ([]Product, error)

	// Save creates or updates a product; a new product gets its ID assigned
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id int64) error

	// ExistsByID checks if a product exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByClientIDAndName checks if a client already holds a product with this name
	ExistsByClientIDAndName(ctx context.Context, clientID int64, name string) (bool, error)
}
