package catalog

import (
	"fmt"
	"strings"

	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType represents the kind of financial product
type ProductType string

const (
	ProductTypeSavingsAccount    ProductType = "SAVINGS_ACCOUNT"
	ProductTypeCheckingAccount   ProductType = "CHECKING_ACCOUNT"
	ProductTypeCreditCard        ProductType = "CREDIT_CARD"
	ProductTypeDebitCard         ProductType = "DEBIT_CARD"
	ProductTypeLoan              ProductType = "LOAN"
	ProductTypeInvestmentAccount ProductType = "INVESTMENT_ACCOUNT"
	ProductTypeInsurancePolicy   ProductType = "INSURANCE_POLICY"
)

// AllProductTypes returns every supported product type in declaration order
func AllProductTypes() []ProductType {
	return []ProductType{
		ProductTypeSavingsAccount,
		ProductTypeCheckingAccount,
		ProductTypeCreditCard,
		ProductTypeDebitCard,
		ProductTypeLoan,
		ProductTypeInvestmentAccount,
		ProductTypeInsurancePolicy,
	}
}

// IsValid reports whether t is a supported product type
func (t ProductType) IsValid() bool {
	for _, pt := range AllProductTypes() {
		if t == pt {
			return true
		}
	}
	return false
}

// ParseProductType converts a raw value to a ProductType.
// Matching is case-insensitive; the empty string is reported as missing.
func ParseProductType(raw string) (ProductType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Product type cannot be null")
	}
	t := ProductType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Product type %q is not supported", raw))
	}
	return t, nil
}

// Product is a financial product held by a client of the customer service.
// ClientID is an external reference: it is checked against the customer
// service when the product is created and never enforced by storage.
type Product struct {
	shared.BaseEntity
	ProductType ProductType
	Name        string
	Balance     decimal.Decimal
	ClientID    int64
}

// NewProduct creates a new product with validated fields
func NewProduct(productType ProductType, name string, balance decimal.Decimal, clientID int64) (*Product, error) {
	if err := ValidateProductName(name); err != nil {
		return nil, err
	}
	if err := ValidateBalance(&balance); err != nil {
		return nil, err
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product type cannot be null")
	}
	if err := shared.ValidateID(clientID, "Client ID"); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		ProductType: productType,
		Name:        strings.TrimSpace(name),
		Balance:     balance,
		ClientID:    clientID,
	}, nil
}

// UpdateInformation replaces the mutable fields of the product.
// The owning client cannot change after creation.
func (p *Product) UpdateInformation(productType ProductType, name string, balance decimal.Decimal) error {
	if err := ValidateProductName(name); err != nil {
		return err
	}
	if err := ValidateBalance(&balance); err != nil {
		return err
	}
	if !productType.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product type cannot be null")
	}

	p.ProductType = productType
	p.Name = strings.TrimSpace(name)
	p.Balance = balance
	p.Touch()

	return nil
}

// ValidateProductName validates the product name
func ValidateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be null or empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot exceed 200 characters")
	}
	return nil
}

// ValidateBalance validates the balance; nil means the balance was not provided
func ValidateBalance(balance *decimal.Decimal) error {
	if balance == nil || balance.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product balance cannot be null or negative")
	}
	return nil
}
