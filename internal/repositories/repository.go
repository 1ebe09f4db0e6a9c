package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository groups the stores the portal reads and writes. Every method of
// the grouped repositories takes an optional transaction; nil means the
// shared connection.
type Repository interface {
	Assignment() AssignmentRepository
	Class() ClassRepository
	Catalog() CatalogRepository

	// WithTransaction runs fn in a single database transaction, rolling back
	// when fn returns an error.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
