// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns; mappers convert between the two.
//
// Each service owns its own database:
// - client.go: clients (customer-service)
// - product.go: products (product-service)
// - user.go: users (iam-service)
package models
