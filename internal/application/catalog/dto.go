package catalog

import (
	"time"

	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product.
// Field presence and ranges are checked by the service, in field order.
type CreateProductRequest struct {
	ProductType string           `json:"productType" example:"CREDIT_CARD"`
	Name        string           `json:"name" example:"Visa"`
	Balance     *decimal.Decimal `json:"balance" swaggertype:"number" example:"100.0"`
	ClientID    int64            `json:"clientId" example:"7"`
}

// UpdateProductRequest represents a request to update a product.
// The owning client cannot be changed.
type UpdateProductRequest struct {
	ProductType string           `json:"productType" example:"CREDIT_CARD"`
	Name        string           `json:"name" example:"Visa Gold"`
	Balance     *decimal.Decimal `json:"balance" swaggertype:"number" example:"250.5"`
}

// ListProductsFilter narrows a product listing
type ListProductsFilter struct {
	ProductType string `form:"productType" binding:"omitempty,product_type"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          int64           `json:"id"`
	ProductType string          `json:"productType"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"number"`
	ClientID    int64           `json:"clientId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ProductType: string(p.ProductType),
		Name:        p.Name,
		Balance:     p.Balance,
		ClientID:    p.ClientID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products to ProductResponses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
