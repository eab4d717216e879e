package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store using BadgerDB
type BadgerStore struct {
	db     *badger.DB
	prefix string
}

// OpenBadger opens the Badger DB at path. An empty path opens an in-memory DB.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerStore creates a BadgerStore over db. Keys are namespaced under PostKeyPrefix.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, prefix: PostKeyPrefix}
}

// Keys lists keys in Badger's byte order.
func (s *BadgerStore) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(s.prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), s.prefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Get retrieves the value stored under key
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value under key, replacing any previous value
func (s *BadgerStore) Put(ctx context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), value)
	})
}

// PutIfAbsent stores value under key unless the key is already present.
func (s *BadgerStore) PutIfAbsent(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(s.key(key))
		if err == nil {
			return ErrKeyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(s.key(key), value)
	})
	// A concurrent writer committed the same key first.
	if errors.Is(err, badger.ErrConflict) {
		return ErrKeyExists
	}
	return err
}

// Close closes the underlying DB
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) key(key string) []byte {
	return []byte(s.prefix + key)
}
