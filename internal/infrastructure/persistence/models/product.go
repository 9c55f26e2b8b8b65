package models

import (
	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product entity.
// ClientID references the customer service and carries no foreign key.
type ProductModel struct {
	BaseModel
	ProductType string          `gorm:"type:varchar(30);not null"`
	Name        string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_client_name,priority:2"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ClientID    int64           `gorm:"not null;index;uniqueIndex:idx_products_client_name,priority:1"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductType: catalog.ProductType(m.ProductType),
		Name:        m.Name,
		Balance:     m.Balance,
		ClientID:    m.ClientID,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProductType = string(p.ProductType)
	m.Name = p.Name
	m.Balance = p.Balance
	m.ClientID = p.ClientID
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
