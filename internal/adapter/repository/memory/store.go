// Package memory provides an in-process Store backed by a map. It is the
// default persistence medium for tests and for running without a data
// directory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// Store implements usecase.Store over a mutex-guarded map.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{values: map[string][]byte{}}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, usecase.ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// List returns all records whose key starts with prefix, in ascending key
// order.
func (s *Store) List(ctx context.Context, prefix string) ([]usecase.KeyValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []usecase.KeyValue
	for key, value := range s.values {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		copied := make([]byte, len(value))
		copy(copied, value)
		out = append(out, usecase.KeyValue{Key: key, Value: copied})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
