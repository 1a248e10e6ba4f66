package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands repositories a request-scoped handle, either plain or
// inside a transaction. Repositories never open transactions themselves.
type Transactor interface {
	DB(ctx context.Context) *gorm.DB
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
