// Package memory implements an insertion-ordered in-memory repository.
package memory

import (
	"context"
	"sync"

	"mealflow/pkg/storage"
)

// Repository keeps entities in a slice so List preserves insertion order.
// The mutex serializes writes because net/http serves requests concurrently.
type Repository[E any] struct {
	mu    sync.Mutex
	items []E
	id    func(E) string
}

// New creates an empty repository. id extracts an entity's identifier.
func New[E any](id func(E) string) *Repository[E] {
	return &Repository[E]{id: id}
}

// Create appends the entity. Id uniqueness is the caller's concern.
func (r *Repository[E]) Create(ctx context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, e)
	return nil
}

// Get returns the first entity with the given id.
func (r *Repository[E]) Get(ctx context.Context, id string) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	var zero E
	return zero, storage.ErrNotFound
}

// List returns a snapshot of all entities in insertion order.
func (r *Repository[E]) List(ctx context.Context) ([]E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]E, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Update replaces the stored entity sharing the argument's id.
func (r *Repository[E]) Update(ctx context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(r.id(e))
	if i < 0 {
		return storage.ErrNotFound
	}
	r.items[i] = e
	return nil
}

// Delete removes the entity at the id's position, shifting the rest down.
func (r *Repository[E]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return storage.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// indexOf is called with the lock held.
func (r *Repository[E]) indexOf(id string) int {
	for i, e := range r.items {
		if r.id(e) == id {
			return i
		}
	}
	return -1
}
