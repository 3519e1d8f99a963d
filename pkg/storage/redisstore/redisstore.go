// Package redisstore implements a redis-backed repository. Entities are
// stored as JSON values; a per-kind id list preserves insertion order.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"mealflow/pkg/storage"
)

// Repository stores one entity kind under a shared key prefix.
type Repository[E any] struct {
	client *redis.Client
	prefix string
	id     func(E) string
}

// New creates a repository for one entity kind. id extracts an entity's
// identifier.
func New[E any](client *redis.Client, prefix string, id func(E) string) *Repository[E] {
	return &Repository[E]{client: client, prefix: prefix, id: id}
}

func (r *Repository[E]) key(id string) string { return r.prefix + ":" + id }
func (r *Repository[E]) listKey() string      { return r.prefix + ":ids" }

// Create stores the entity and appends its id to the ordering list.
func (r *Repository[E]) Create(ctx context.Context, e E) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	id := r.id(e)
	if err := r.client.Set(ctx, r.key(id), b, 0).Err(); err != nil {
		return err
	}
	return r.client.RPush(ctx, r.listKey(), id).Err()
}

// Get retrieves an entity by id.
func (r *Repository[E]) Get(ctx context.Context, id string) (E, error) {
	var e E
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return e, storage.ErrNotFound
	}
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(b, &e)
	return e, err
}

// List returns all entities in insertion order.
func (r *Repository[E]) List(ctx context.Context) ([]E, error) {
	ids, err := r.client.LRange(ctx, r.listKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		e, err := r.Get(ctx, id)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update replaces an existing entity.
func (r *Repository[E]) Update(ctx context.Context, e E) error {
	key := r.key(r.id(e))
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, 0).Err()
}

// Delete removes an entity and its id from the ordering list.
func (r *Repository[E]) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return r.client.LRem(ctx, r.listKey(), 1, id).Err()
}
