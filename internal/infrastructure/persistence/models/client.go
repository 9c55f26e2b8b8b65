package models

import (
	"github.com/finsuite/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client entity.
type ClientModel struct {
	BaseModel
	FullName       string `gorm:"type:varchar(70);not null;index"`
	FullLastName   string `gorm:"type:varchar(70);not null"`
	TypeDocument   string `gorm:"type:varchar(20);not null;default:'DNI'"`
	DocumentNumber string `gorm:"type:varchar(20);not null"`
	UniqueCode     int64  `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity:     m.BaseModel.ToDomain(),
		FullName:       m.FullName,
		FullLastName:   m.FullLastName,
		TypeDocument:   partner.TypeDocument(m.TypeDocument),
		DocumentNumber: m.DocumentNumber,
		UniqueCode:     m.UniqueCode,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FullName = c.FullName
	m.FullLastName = c.FullLastName
	m.TypeDocument = string(c.TypeDocument)
	m.DocumentNumber = c.DocumentNumber
	m.UniqueCode = c.UniqueCode
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
