package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// StockRepo implements usecase.StockRepository.
type StockRepo struct {
	store usecase.Store
}

// NewStockRepo creates a new StockRepo.
func NewStockRepo(store usecase.Store) *StockRepo {
	return &StockRepo{store: store}
}

type stockRecord struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	BaseProduct string    `json:"base_product"`
	Unit        string    `json:"unit"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Save writes a stock item, replacing any previous record for the code.
func (r *StockRepo) Save(ctx context.Context, item *domain.StockItem) error {
	record := stockRecord{
		Code:        item.Code,
		Name:        item.Name,
		BaseProduct: item.BaseProduct,
		Unit:        item.Unit,
		Quantity:    item.Quantity,
		UpdatedAt:   item.UpdatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal stock item: %w", err)
	}

	return r.store.Set(ctx, stockKey(item.Code), data)
}

// GetByCode retrieves a stock item by its denomination code.
func (r *StockRepo) GetByCode(ctx context.Context, code string) (*domain.StockItem, error) {
	data, err := r.store.Get(ctx, stockKey(code))
	if err != nil {
		if errors.Is(err, usecase.ErrKeyNotFound) {
			return nil, domain.ErrStockItemNotFound
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}

	return unmarshalStockItem(data)
}

// List returns all stock items in code order.
func (r *StockRepo) List(ctx context.Context) ([]*domain.StockItem, error) {
	records, err := r.store.List(ctx, stockPrefix)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}

	items := make([]*domain.StockItem, 0, len(records))
	for _, record := range records {
		item, err := unmarshalStockItem(record.Value)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func unmarshalStockItem(data []byte) (*domain.StockItem, error) {
	var record stockRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal stock item: %w", err)
	}

	return &domain.StockItem{
		Code:        record.Code,
		Name:        record.Name,
		BaseProduct: record.BaseProduct,
		Unit:        record.Unit,
		Quantity:    record.Quantity,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}
