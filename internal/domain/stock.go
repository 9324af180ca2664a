package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is one denomination of a product. Two items sharing a BaseProduct
// but carrying different units are transformation-compatible.
type StockItem struct {
	UpdatedAt   time.Time
	Code        string
	Name        string
	BaseProduct string
	Unit        string
	Quantity    int64
}

// ConversionRatio configures how many target units one source unit yields for
// a base product. Absence of a ratio is a business error, not a system fault.
type ConversionRatio struct {
	BaseProduct string
	FromUnit    string
	ToUnit      string
	Ratio       decimal.Decimal
}

// Validate checks the ratio is usable.
func (r *ConversionRatio) Validate() error {
	if r.BaseProduct == "" || r.FromUnit == "" || r.ToUnit == "" {
		return ErrRatioNotFound
	}
	if r.Ratio.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidRatio
	}
	return nil
}
