package partner

import (
	"time"

	"github.com/finsuite/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	FullName       string `json:"fullName" example:"Ana"`
	FullLastName   string `json:"fullLastName" example:"Torres Vega"`
	TypeDocument   string `json:"typeDocument" binding:"omitempty,type_document" example:"DNI"`
	DocumentNumber string `json:"documentNumber" example:"45879632"`
	UniqueCode     int64  `json:"uniqueCode" example:"1001"`
}

// UpdateClientRequest represents a request to update a client.
// An empty typeDocument keeps the current document type.
type UpdateClientRequest struct {
	FullName       string `json:"fullName" example:"Ana"`
	FullLastName   string `json:"fullLastName" example:"Torres Vega"`
	TypeDocument   string `json:"typeDocument" binding:"omitempty,type_document" example:"PASSPORT"`
	DocumentNumber string `json:"documentNumber" example:"PA458796"`
	UniqueCode     int64  `json:"uniqueCode" example:"1001"`
}

// ClientResponse represents a client in API responses.
// UniqueCode is always rendered in its obfuscated form.
type ClientResponse struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	FullLastName   string    `json:"fullLastName"`
	TypeDocument   string    `json:"typeDocument"`
	DocumentNumber string    `json:"documentNumber"`
	UniqueCode     string    `json:"uniqueCode" example:"i3qN601ACmTR/wM25bA/Og=="`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProductSummary is a product held by a client, as reported by the product service
type ProductSummary struct {
	ID          int64           `json:"id"`
	ProductType string          `json:"productType"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"number"`
	ClientID    int64           `json:"clientId"`
}

// ClientWithProductsResponse is a client merged with the products it holds
type ClientWithProductsResponse struct {
	ClientResponse
	Products []ProductSummary `json:"products"`
}

func toClientResponse(c *partner.Client, codes CodeCipher) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		FullName:       c.FullName,
		FullLastName:   c.FullLastName,
		TypeDocument:   string(c.TypeDocument),
		DocumentNumber: c.DocumentNumber,
		UniqueCode:     codes.Encode(c.UniqueCode),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
