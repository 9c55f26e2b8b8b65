package partner

import (
	"context"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id int64) (*Client, error)

	// FindByUniqueCode finds a client by its public unique code
	FindByUniqueCode(ctx context.Context, uniqueCode int64) (*Client, error)

	// FindAll finds all clients ordered by ID
	FindAll(ctx context.Context) ([]Client, error)

	// Save creates or updates a client; a new client gets its ID assigned
	Save(ctx context.Context, client *Client) error

	// Delete deletes a client
	Delete(ctx context.Context, id int64) error

	// ExistsByID checks if a client exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByFullName checks if a client with the full name exists.
	// excludeID skips one client, so an update does not collide with itself; 0 checks all.
	ExistsByFullName(ctx context.Context, fullName string, excludeID int64) (bool, error)

	// ExistsByUniqueCode checks if a unique code is taken.
	// excludeID skips one client; 0 checks all.
	ExistsByUniqueCode(ctx context.Context, uniqueCode int64, excludeID int64) (bool, error)
}
