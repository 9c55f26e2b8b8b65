package peer

import (
	"context"
	"errors"
	"fmt"

	partnerapp "github.com/finsuite/backend/internal/application/partner"
)

// CustomerDirectory answers whether a client exists in the customer service
type CustomerDirectory struct {
	caller *Caller
	policy Policy
}

// NewCustomerDirectory creates a customer directory
func NewCustomerDirectory(caller *Caller, policy Policy) *CustomerDirectory {
	return &CustomerDirectory{caller: caller, policy: policy}
}

// ClientExists reports whether the client exists.
// A 404 from the peer is a definite false; any other failure is returned
// wrapped in ErrIndeterminate.
func (d *CustomerDirectory) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	err := d.caller.Get(ctx, d.policy, fmt.Sprintf("/api/v1/clients/id/%d", clientID), nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ProductCatalog fetches products from the product service
type ProductCatalog struct {
	caller *Caller
	policy Policy
}

// NewProductCatalog creates a product catalog
func NewProductCatalog(caller *Caller, policy Policy) *ProductCatalog {
	return &ProductCatalog{caller: caller, policy: policy}
}

// ProductsByClient lists the products held by a client.
// A 404 from the peer yields an empty list; any other failure is returned
// wrapped in ErrIndeterminate.
func (c *ProductCatalog) ProductsByClient(ctx context.Context, clientID int64) ([]partnerapp.ProductSummary, error) {
	var products []partnerapp.ProductSummary
	err := c.caller.Get(ctx, c.policy, fmt.Sprintf("/api/v1/products/client/%d", clientID), &products)
	switch {
	case err == nil:
		if products == nil {
			products = []partnerapp.ProductSummary{}
		}
		return products, nil
	case errors.Is(err, ErrNotFound):
		return []partnerapp.ProductSummary{}, nil
	default:
		return nil, err
	}
}
