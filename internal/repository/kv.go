package repository

import (
	"sort"
	"strings"
	"sync"
)

// KVStore is the storage medium: string keys holding serialized collections.
type KVStore interface {
	// Get returns the value for key and whether it exists
	Get(key string) (string, bool, error)

	// Set creates or replaces the value for key
	Set(key, value string) error

	// Delete removes the given keys; missing keys are ignored
	Delete(keys ...string) error

	// Keys lists stored keys starting with prefix, sorted
	Keys(prefix string) ([]string, error)

	// Batch runs fn against a store whose writes commit together or not at all
	Batch(fn func(tx KVStore) error) error
}

// MemoryKVStore is an in-process KVStore used in tests and for ephemeral runs.
type MemoryKVStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKVStore creates an empty MemoryKVStore
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string]string)}
}

func (m *MemoryKVStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKVStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKVStore) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryKVStore) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return keysWithPrefix(m.data, prefix), nil
}

// Batch stages writes on a copy and swaps it in only when fn succeeds.
func (m *MemoryKVStore) Batch(fn func(tx KVStore) error) error {
	m.mu.Lock()
	staged := make(map[string]string, len(m.data))
	for k, v := range m.data {
		staged[k] = v
	}
	m.mu.Unlock()

	tx := &stagedKV{data: staged}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = tx.data
	m.mu.Unlock()
	return nil
}

// stagedKV is the unlocked view handed to MemoryKVStore.Batch callbacks.
type stagedKV struct {
	data map[string]string
}

func (s *stagedKV) Get(key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stagedKV) Set(key, value string) error {
	s.data[key] = value
	return nil
}

func (s *stagedKV) Delete(keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stagedKV) Keys(prefix string) ([]string, error) {
	return keysWithPrefix(s.data, prefix), nil
}

func (s *stagedKV) Batch(fn func(tx KVStore) error) error {
	return fn(s)
}

func keysWithPrefix(data map[string]string, prefix string) []string {
	keys := make([]string, 0)
	for k := range data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
