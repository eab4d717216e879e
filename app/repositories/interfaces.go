package repositories

import (
	"context"

	"postboard/app/models"
)

// Store is the key-value collaborator posts are kept in.
type Store interface {
	// Keys returns every key in the store's listing order.
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites key unconditionally. New posts go through PutIfAbsent; Put is
	// the write-through path for seeding and admin tooling.
	Put(ctx context.Context, key string, value []byte) error
	// PutIfAbsent writes value only when key is unused, else returns ErrKeyExists.
	PutIfAbsent(ctx context.Context, key string, value []byte) error
	Close() error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	List(ctx context.Context) ([]*models.Post, error)
}
