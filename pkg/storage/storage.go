// Package storage defines the repository contract shared by every backend.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Repository defines behavior for persisting one kind of entity. Both
// resource collections share the same contract, so backends are written
// once and instantiated per kind.
type Repository[E any] interface {
	Create(ctx context.Context, e E) error
	Get(ctx context.Context, id string) (E, error)
	List(ctx context.Context) ([]E, error)
	Update(ctx context.Context, e E) error
	Delete(ctx context.Context, id string) error
}
