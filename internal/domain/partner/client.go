package partner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/finsuite/backend/internal/domain/shared"
)

// TypeDocument represents the identity document a client registered with
type TypeDocument string

const (
	TypeDocumentDNI      TypeDocument = "DNI"
	TypeDocumentPassport TypeDocument = "PASSPORT"
	TypeDocumentCE       TypeDocument = "CE"  // Foreigner card
	TypeDocumentRUC      TypeDocument = "RUC" // Taxpayer registry
)

// IsValid reports whether d is a supported document type
func (d TypeDocument) IsValid() bool {
	switch d {
	case TypeDocumentDNI, TypeDocumentPassport, TypeDocumentCE, TypeDocumentRUC:
		return true
	}
	return false
}

// ParseTypeDocument converts a raw value to a TypeDocument; empty defaults to DNI
func ParseTypeDocument(raw string) (TypeDocument, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TypeDocumentDNI, nil
	}
	d := TypeDocument(strings.ToUpper(raw))
	if !d.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Document type %q is not supported", raw))
	}
	return d, nil
}

const (
	maxNameLength     = 70
	minDocumentLength = 6
	maxDocumentLength = 20
)

// Client is a bank customer. ID is internal; UniqueCode is the public
// business key and is only ever exposed in obfuscated form.
type Client struct {
	shared.BaseEntity
	FullName       string
	FullLastName   string
	TypeDocument   TypeDocument
	DocumentNumber string
	UniqueCode     int64
}

// NewClient creates a new client with validated fields
func NewClient(fullName, fullLastName string, typeDocument TypeDocument, documentNumber string, uniqueCode int64) (*Client, error) {
	if typeDocument == "" {
		typeDocument = TypeDocumentDNI
	}
	if err := validateClientFields(fullName, fullLastName, typeDocument, documentNumber, uniqueCode); err != nil {
		return nil, err
	}

	return &Client{
		BaseEntity:     shared.NewBaseEntity(),
		FullName:       strings.TrimSpace(fullName),
		FullLastName:   strings.TrimSpace(fullLastName),
		TypeDocument:   typeDocument,
		DocumentNumber: strings.TrimSpace(documentNumber),
		UniqueCode:     uniqueCode,
	}, nil
}

// UpdateInformation replaces all client details
func (c *Client) UpdateInformation(fullName, fullLastName string, typeDocument TypeDocument, documentNumber string, uniqueCode int64) error {
	if typeDocument == "" {
		typeDocument = c.TypeDocument
	}
	if err := validateClientFields(fullName, fullLastName, typeDocument, documentNumber, uniqueCode); err != nil {
		return err
	}

	c.FullName = strings.TrimSpace(fullName)
	c.FullLastName = strings.TrimSpace(fullLastName)
	c.TypeDocument = typeDocument
	c.DocumentNumber = strings.TrimSpace(documentNumber)
	c.UniqueCode = uniqueCode
	c.Touch()

	return nil
}

func validateClientFields(fullName, fullLastName string, typeDocument TypeDocument, documentNumber string, uniqueCode int64) error {
	if err := validateName(fullName, "Full name"); err != nil {
		return err
	}
	if err := validateName(fullLastName, "Full last name"); err != nil {
		return err
	}
	if !typeDocument.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Document type %q is not supported", typeDocument))
	}
	if err := validateDocumentNumber(documentNumber); err != nil {
		return err
	}
	return shared.ValidateID(uniqueCode, "Unique code")
}

func validateName(name, field string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, field+" cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("%s cannot exceed %d characters", field, maxNameLength))
	}
	return nil
}

func validateDocumentNumber(number string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(number))
	if n < minDocumentLength || n > maxDocumentLength {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Document number must be between %d and %d characters", minDocumentLength, maxDocumentLength))
	}
	return nil
}
