// Package badger provides the on-disk Store used in production. BadgerDB
// gives the single-process key-value semantics the repositories expect:
// whole-value reads and writes, ordered prefix iteration, no external server.
package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// Store implements usecase.Store over a badger database. Write transactions
// retry with exponential backoff when badger reports a conflict.
type Store struct {
	db *badgerdb.DB

	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// NewStore opens (or creates) the database at dir.
func NewStore(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	return &Store{
		db:              db,
		maxRetries:      3,
		initialInterval: 10 * time.Millisecond,
		maxInterval:     250 * time.Millisecond,
		maxElapsedTime:  5 * time.Second,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, usecase.ErrKeyNotFound
		}
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.update(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.update(ctx, func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

// List returns all records under prefix in ascending key order.
func (s *Store) List(ctx context.Context, prefix string) ([]usecase.KeyValue, error) {
	var out []usecase.KeyValue
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, usecase.KeyValue{
				Key:   string(item.KeyCopy(nil)),
				Value: value,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list %s: %w", prefix, err)
	}
	return out, nil
}

// update runs fn in a read-write transaction with exponential backoff on
// transaction conflicts.
func (s *Store) update(ctx context.Context, fn func(txn *badgerdb.Txn) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = s.maxInterval
	b.MaxElapsedTime = s.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := s.db.Update(fn)
		if err == nil {
			return nil
		}

		if !errors.Is(err, badgerdb.ErrConflict) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > s.maxRetries {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(b, ctx))
}
