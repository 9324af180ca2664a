package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// RatioRepo implements usecase.RatioRepository.
type RatioRepo struct {
	store usecase.Store
}

// NewRatioRepo creates a new RatioRepo.
func NewRatioRepo(store usecase.Store) *RatioRepo {
	return &RatioRepo{store: store}
}

type ratioRecord struct {
	BaseProduct string          `json:"base_product"`
	FromUnit    string          `json:"from_unit"`
	ToUnit      string          `json:"to_unit"`
	Ratio       decimal.Decimal `json:"ratio"`
}

// Save writes a ratio, replacing any previous one for the same direction.
func (r *RatioRepo) Save(ctx context.Context, ratio *domain.ConversionRatio) error {
	if err := ratio.Validate(); err != nil {
		return err
	}

	record := ratioRecord{
		BaseProduct: ratio.BaseProduct,
		FromUnit:    ratio.FromUnit,
		ToUnit:      ratio.ToUnit,
		Ratio:       ratio.Ratio,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal ratio: %w", err)
	}

	return r.store.Set(ctx, ratioKey(ratio.BaseProduct, ratio.FromUnit, ratio.ToUnit), data)
}

// Get retrieves the ratio for one conversion direction.
func (r *RatioRepo) Get(ctx context.Context, baseProduct, fromUnit, toUnit string) (*domain.ConversionRatio, error) {
	data, err := r.store.Get(ctx, ratioKey(baseProduct, fromUnit, toUnit))
	if err != nil {
		if errors.Is(err, usecase.ErrKeyNotFound) {
			return nil, domain.ErrRatioNotFound
		}
		return nil, fmt.Errorf("get ratio: %w", err)
	}

	return unmarshalRatio(data)
}

// List returns all configured ratios.
func (r *RatioRepo) List(ctx context.Context) ([]*domain.ConversionRatio, error) {
	records, err := r.store.List(ctx, ratioPrefix)
	if err != nil {
		return nil, fmt.Errorf("list ratios: %w", err)
	}

	ratios := make([]*domain.ConversionRatio, 0, len(records))
	for _, record := range records {
		ratio, err := unmarshalRatio(record.Value)
		if err != nil {
			return nil, err
		}
		ratios = append(ratios, ratio)
	}
	return ratios, nil
}

func unmarshalRatio(data []byte) (*domain.ConversionRatio, error) {
	var record ratioRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal ratio: %w", err)
	}

	return &domain.ConversionRatio{
		BaseProduct: record.BaseProduct,
		FromUnit:    record.FromUnit,
		ToUnit:      record.ToUnit,
		Ratio:       record.Ratio,
	}, nil
}
