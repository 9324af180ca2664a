package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// ConversionCalculator resolves configured unit-pair ratios and computes
// integral target quantities.
type ConversionCalculator struct {
	ratios RatioRepository
}

// NewConversionCalculator creates a new ConversionCalculator.
func NewConversionCalculator(ratios RatioRepository) *ConversionCalculator {
	return &ConversionCalculator{ratios: ratios}
}

// Ratio looks up the configured ratio for a base product and unit pair. A
// missing ratio is a business error the user can fix by configuring one.
func (c *ConversionCalculator) Ratio(ctx context.Context, baseProduct, fromUnit, toUnit string) (*domain.ConversionRatio, error) {
	ratio, err := c.ratios.Get(ctx, baseProduct, fromUnit, toUnit)
	if err != nil {
		if errors.Is(err, domain.ErrRatioNotFound) {
			return nil, domain.NewBusinessError(domain.ErrRatioNotFound,
				fmt.Sprintf("no conversion ratio configured for %s: %s to %s", baseProduct, fromUnit, toUnit)).
				With("base_product", baseProduct).
				With("from_unit", fromUnit).
				With("to_unit", toUnit).
				Suggest("configure a ratio for this unit pair before transforming stock")
		}
		return nil, domain.NewSystemError(err, "failed to load conversion ratio")
	}

	if err := ratio.Validate(); err != nil {
		return nil, domain.NewCalculationError(err, "configured conversion ratio is unusable").
			With("ratio", ratio.Ratio.String())
	}

	return ratio, nil
}

// TargetQuantity computes the integral quantity sourceQuantity yields under
// ratio, rejecting fractional results.
func (c *ConversionCalculator) TargetQuantity(sourceQuantity int64, ratio decimal.Decimal) (int64, error) {
	return domain.TargetQuantity(sourceQuantity, ratio)
}
