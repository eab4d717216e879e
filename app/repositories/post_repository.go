package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/app/models"
)

// maxKeyAttempts bounds how many later milliseconds Create tries after a key collision.
const maxKeyAttempts = 10

// KVPostRepository implements PostRepository over a key-value Store
type KVPostRepository struct {
	store Store
	now   func() time.Time
}

// NewPostRepository creates a new KVPostRepository
func NewPostRepository(store Store) *KVPostRepository {
	return &KVPostRepository{store: store, now: time.Now}
}

// SetClock replaces the time source used to build keys.
func (r *KVPostRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Create stores a post under "<unix millis>:<username>" and returns the key.
// Two posts from the same user in the same millisecond do not overwrite each other:
// the later one moves to the next free millisecond.
func (r *KVPostRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	data, err := marshalEntity(post)
	if err != nil {
		return "", err
	}

	created := r.now()
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key := post.Key(created)
		err := r.store.PutIfAbsent(ctx, key, data)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrKeyExists) {
			return "", fmt.Errorf("failed to store post %q: %w", key, err)
		}
		created = created.Add(time.Millisecond)
	}
	return "", fmt.Errorf("failed to store post for %q: %w", post.Username, ErrKeyExists)
}

// List returns every stored post in the store's listing order
func (r *KVPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	posts := make([]*models.Post, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Listed but gone; nothing in this service deletes, so skip it.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get post %q: %w", key, err)
		}

		var post models.Post
		if err := unmarshalEntity(data, &post); err != nil {
			return nil, fmt.Errorf("post %q: %w", key, err)
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
