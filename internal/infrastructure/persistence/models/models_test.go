package models

import (
	"testing"
	"time"

	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/finsuite/backend/internal/domain/identity"
	"github.com/finsuite/backend/internal/domain/partner"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClientModel_Mapping(t *testing.T) {
	now := time.Now()
	client := &partner.Client{
		BaseEntity:     shared.BaseEntity{ID: 3, CreatedAt: now, UpdatedAt: now},
		FullName:       "Ana",
		FullLastName:   "Quispe Rojas",
		TypeDocument:   partner.TypeDocumentPassport,
		DocumentNumber: "AB123456",
		UniqueCode:     1001,
	}

	m := ClientModelFromDomain(client)

	assert.Equal(t, "clients", m.TableName())
	assert.Equal(t, "PASSPORT", m.TypeDocument)
	assert.Equal(t, client, m.ToDomain())
}

func TestProductModel_Mapping(t *testing.T) {
	product := &catalog.Product{
		BaseEntity:  shared.BaseEntity{ID: 9},
		ProductType: catalog.ProductTypeCreditCard,
		Name:        "Visa",
		Balance:     decimal.NewFromFloat(100.25),
		ClientID:    7,
	}

	m := ProductModelFromDomain(product)

	assert.Equal(t, "products", m.TableName())
	assert.Equal(t, "CREDIT_CARD", m.ProductType)
	assert.Equal(t, product, m.ToDomain())
}

func TestUserModel_Mapping(t *testing.T) {
	user := &identity.User{
		BaseEntity:   shared.BaseEntity{ID: 1},
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$hash",
	}

	var m UserModel
	m.FromDomain(user)

	assert.Equal(t, "users", m.TableName())
	assert.Equal(t, user, m.ToDomain())
}
