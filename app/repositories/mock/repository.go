package mock

import (
	"context"
	"sync"

	"postboard/app/repositories"
)

// Store is an in-memory repositories.Store. Keys are listed in insertion order.
type Store struct {
	values map[string][]byte
	order  []string
	mutex  sync.RWMutex

	// Err, when set, is returned by every operation.
	Err error
}

func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (m *Store) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.values = make(map[string][]byte)
	m.order = nil
}

func (m *Store) Keys(ctx context.Context) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys, nil
}

func (m *Store) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	value, exists := m.values[key]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return value, nil
}

func (m *Store) Put(ctx context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.set(key, value)
	return nil
}

func (m *Store) PutIfAbsent(ctx context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.values[key]; exists {
		return repositories.ErrKeyExists
	}
	m.set(key, value)
	return nil
}

func (m *Store) Close() error {
	return nil
}

func (m *Store) set(key string, value []byte) {
	if _, exists := m.values[key]; !exists {
		m.order = append(m.order, key)
	}
	m.values[key] = append([]byte(nil), value...)
}
