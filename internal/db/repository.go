// Package db implements the schema and integrity layer: durable storage for
// the domain entities and enforcement of their relational constraints.
// Uniqueness and referential failures surface as translated constraint
// violations, never as check-then-act races in application code.
package db

import (
	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Page is one page of a cursor-paginated query. CursorID is empty when the
// query is exhausted; passing it back retrieves the next page.
type Page[T any] struct {
	Data     []T    `json:"data"`
	Count    int    `json:"count"`
	CursorID string `json:"cursor_id,omitempty"`
}
