package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantCategory    ErrorCategory
		wantRecoverable bool
	}{
		{
			name:            "validation",
			err:             NewValidationError(ErrInvalidAmount, "amount must be positive"),
			wantCategory:    CategoryValidation,
			wantRecoverable: true,
		},
		{
			name:            "business",
			err:             NewBusinessError(ErrInsufficientBalance, "not enough balance"),
			wantCategory:    CategoryBusiness,
			wantRecoverable: true,
		},
		{
			name:            "calculation",
			err:             NewCalculationError(ErrFractionalQuantity, "fractional result"),
			wantCategory:    CategoryCalculation,
			wantRecoverable: false,
		},
		{
			name:            "system",
			err:             NewSystemError(fmt.Errorf("disk full"), "persistence failed"),
			wantCategory:    CategorySystem,
			wantRecoverable: false,
		},
		{
			name:            "foreign error defaults to system",
			err:             fmt.Errorf("something unexpected"),
			wantCategory:    CategorySystem,
			wantRecoverable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.wantCategory {
				t.Fatalf("CategoryOf() = %s, want %s", got, tt.wantCategory)
			}

			if got := IsRecoverable(tt.err); got != tt.wantRecoverable {
				t.Fatalf("IsRecoverable() = %v, want %v", got, tt.wantRecoverable)
			}
		})
	}
}

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := NewBusinessError(ErrRatioNotFound, "no ratio for karton to pcs")

	if !errors.Is(err, ErrRatioNotFound) {
		t.Fatal("expected errors.Is to match the wrapped sentinel")
	}
}

func TestErrorContextAndSuggestions(t *testing.T) {
	err := NewBusinessError(ErrInsufficientBalance, "amount exceeds balance").
		With("member_id", "M-001").
		With("amount", "100000").
		Suggest("check the member's outstanding balance first")

	if err.Context["member_id"] != "M-001" {
		t.Fatalf("context not carried: %v", err.Context)
	}

	if len(err.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %v", err.Suggestions)
	}
}

func TestErrorMessageHidesCauseDetail(t *testing.T) {
	cause := fmt.Errorf("pq: connection reset at 10.0.0.3")
	err := NewSystemError(cause, "persistence failed")

	if err.Message != "persistence failed" {
		t.Fatalf("user-visible message changed: %q", err.Message)
	}
}
