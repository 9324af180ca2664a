package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// TargetQuantity computes the integral quantity a transformation yields.
// Fractional results are rejected rather than rounded, so stock is never
// silently lost or fabricated.
func TargetQuantity(sourceQuantity int64, ratio decimal.Decimal) (int64, error) {
	if sourceQuantity <= 0 {
		return 0, NewValidationError(ErrInvalidQuantity, "source quantity must be positive")
	}

	if ratio.LessThanOrEqual(decimal.Zero) {
		return 0, NewCalculationError(ErrInvalidRatio, "conversion ratio must be positive").
			With("ratio", ratio.String())
	}

	result := decimal.NewFromInt(sourceQuantity).Mul(ratio)

	if !result.IsInteger() {
		return 0, NewCalculationError(ErrFractionalQuantity, "transformation result is not a whole quantity").
			With("source_quantity", sourceQuantity).
			With("ratio", ratio.String()).
			With("result", result.String()).
			Suggest("adjust the quantity so the result is a whole number of target units")
	}

	if result.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, NewCalculationError(ErrQuantityOutOfRange, "transformation result overflows").
			With("source_quantity", sourceQuantity).
			With("ratio", ratio.String())
	}

	return result.IntPart(), nil
}
