package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// ErrKeyNotFound is returned by Store.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is one record read from a Store prefix scan.
type KeyValue struct {
	Key   string
	Value []byte
}

// Store is the injected persistence medium: a single-process key-value store
// with whole-value read/write semantics. List returns records in ascending
// key order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]KeyValue, error)
}

// MemberRepository defines data access for members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	List(ctx context.Context) ([]*domain.Member, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]*domain.Transaction, error)
}

// JournalRepository defines data access for journal entries.
type JournalRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	Delete(ctx context.Context, id string) error
}

// StockRepository defines data access for stock items.
type StockRepository interface {
	Save(ctx context.Context, item *domain.StockItem) error
	GetByCode(ctx context.Context, code string) (*domain.StockItem, error)
	List(ctx context.Context) ([]*domain.StockItem, error)
}

// RatioRepository defines data access for conversion ratios.
type RatioRepository interface {
	Save(ctx context.Context, ratio *domain.ConversionRatio) error
	Get(ctx context.Context, baseProduct, fromUnit, toUnit string) (*domain.ConversionRatio, error)
	List(ctx context.Context) ([]*domain.ConversionRatio, error)
}

// AuditRepository defines data access for audit logs. List returns entries
// newest first.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	Count(ctx context.Context) (int, error)
	DeleteOldest(ctx context.Context, n int) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
