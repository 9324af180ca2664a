package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

const stockCachePrefix = "stock:"

// StockBalanceStore is the cached view of per-item quantities and the sole
// writer of quantity changes. Reads go cache-first with a recompute from the
// backing collection on miss; every write rewrites the cached entry together
// with the backing record, so a read after a write in the same process always
// observes the new value.
type StockBalanceStore struct {
	stock StockRepository
	cache Cache
	ttl   time.Duration
}

// NewStockBalanceStore creates a new StockBalanceStore.
func NewStockBalanceStore(stock StockRepository, cache Cache, ttl time.Duration) *StockBalanceStore {
	return &StockBalanceStore{
		stock: stock,
		cache: cache,
		ttl:   ttl,
	}
}

// Get returns the item, from cache when possible.
func (s *StockBalanceStore) Get(ctx context.Context, code string) (*domain.StockItem, error) {
	if cached, err := s.cache.Get(ctx, stockCachePrefix+code); err == nil && cached != nil {
		var item domain.StockItem
		if err := json.Unmarshal(cached, &item); err == nil {
			return &item, nil
		}
		// Corrupt cache entry, fall through to the backing store.
		s.cache.Delete(ctx, stockCachePrefix+code)
	}

	item, err := s.stock.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrStockItemNotFound) {
			return nil, err
		}
		return nil, domain.NewSystemError(err, "failed to load stock item").
			With("code", code)
	}

	s.fillCache(ctx, item)

	return item, nil
}

// List returns all items from the backing collection.
func (s *StockBalanceStore) List(ctx context.Context) ([]*domain.StockItem, error) {
	items, err := s.stock.List(ctx)
	if err != nil {
		return nil, domain.NewSystemError(err, "failed to list stock items")
	}
	return items, nil
}

// Save writes an item record and its cached view. Used for item
// configuration; quantity changes go through Apply.
func (s *StockBalanceStore) Save(ctx context.Context, item *domain.StockItem) error {
	item.UpdatedAt = time.Now().UTC()
	if err := s.stock.Save(ctx, item); err != nil {
		return domain.NewSystemError(err, "failed to persist stock item").
			With("code", item.Code)
	}

	s.fillCache(ctx, item)

	return nil
}

// Apply adjusts an item's quantity by delta and returns the updated item.
// The resulting quantity must stay non-negative.
func (s *StockBalanceStore) Apply(ctx context.Context, code string, delta int64) (*domain.StockItem, error) {
	item, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	updated := item.Quantity + delta
	if updated < 0 {
		return nil, domain.NewBusinessError(domain.ErrInsufficientStock,
			fmt.Sprintf("insufficient stock: %d %s available, %d requested", item.Quantity, item.Unit, -delta)).
			With("code", code).
			With("available", item.Quantity).
			With("requested", -delta)
	}

	item.Quantity = updated
	item.UpdatedAt = time.Now().UTC()

	if err := s.stock.Save(ctx, item); err != nil {
		return nil, domain.NewSystemError(err, "failed to persist stock quantity").
			With("code", code)
	}

	s.fillCache(ctx, item)

	return item, nil
}

// Invalidate drops the cached view of an item.
func (s *StockBalanceStore) Invalidate(ctx context.Context, code string) {
	s.cache.Delete(ctx, stockCachePrefix+code)
}

// fillCache rewrites the cached entry. If the rewrite fails the entry is
// dropped instead, forcing the next read back to the backing collection.
func (s *StockBalanceStore) fillCache(ctx context.Context, item *domain.StockItem) {
	data, err := json.Marshal(item)
	if err != nil {
		s.cache.Delete(ctx, stockCachePrefix+item.Code)
		return
	}
	if err := s.cache.Set(ctx, stockCachePrefix+item.Code, data, s.ttl); err != nil {
		s.cache.Delete(ctx, stockCachePrefix+item.Code)
	}
}
