// Package store persists seeded rows. Every seeding run goes through one
// transaction so a failed run leaves nothing behind.
package store

import (
	"context"
	"errors"

	"modelseed/internal/entity"
)

// ErrNoPrimaryKey is returned when an inserted entity has no primary key to report.
var ErrNoPrimaryKey = errors.New("store: entity has no primary key")

// Writer inserts rows inside an open transaction.
type Writer interface {
	// Insert persists row as a new instance of d and returns its primary key.
	Insert(ctx context.Context, d *entity.Descriptor, row entity.Row) (any, error)
}

// Store opens transactions. fn's writer is only valid during fn. A non-nil
// error from fn rolls the transaction back.
type Store interface {
	Transaction(ctx context.Context, fn func(w Writer) error) error
}
