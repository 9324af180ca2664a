package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name         string
		req          PaymentRequest
		balance      decimal.Decimal
		wantValid    bool
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "happy path partial payment",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindDebtPayment,
				Amount:   decimal.NewFromInt(50000),
			},
			balance:   decimal.NewFromInt(100000),
			wantValid: true,
		},
		{
			name: "exact balance emits warning not error",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindDebtPayment,
				Amount:   decimal.NewFromInt(100000),
			},
			balance:      decimal.NewFromInt(100000),
			wantValid:    true,
			wantWarnings: 1,
		},
		{
			name: "amount exceeds balance",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindCreditPayment,
				Amount:   decimal.NewFromInt(100001),
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "zero amount",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindDebtPayment,
				Amount:   decimal.Zero,
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "negative amount",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindDebtPayment,
				Amount:   decimal.NewFromInt(-5),
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "unknown payment type",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     TransactionKind("loan_shark"),
				Amount:   decimal.NewFromInt(100),
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "transformation kind is not a payment",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindStockTransformation,
				Amount:   decimal.NewFromInt(100),
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "missing member id",
			req: PaymentRequest{
				Kind:   KindDebtPayment,
				Amount: decimal.NewFromInt(100),
			},
			balance:    decimal.NewFromInt(100000),
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "amount above hard maximum",
			req: PaymentRequest{
				MemberID: "M-001",
				Kind:     KindDebtPayment,
				Amount:   decimal.RequireFromString("1000000000001"),
			},
			balance:    decimal.RequireFromString("2000000000000"),
			wantValid:  false,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePayment(tt.req, tt.balance)

			if got.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", got.Valid, tt.wantValid, got.Errors)
			}

			if len(got.Errors) != tt.wantErrors {
				t.Fatalf("got %d errors %v, want %d", len(got.Errors), got.Errors, tt.wantErrors)
			}

			if len(got.Warnings) != tt.wantWarnings {
				t.Fatalf("got %d warnings %v, want %d", len(got.Warnings), got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestValidateTransformation(t *testing.T) {
	source := &StockItem{Code: "GULA-C", Name: "Gula (karton)", BaseProduct: "GULA", Unit: "karton", Quantity: 10}
	target := &StockItem{Code: "GULA-P", Name: "Gula (pcs)", BaseProduct: "GULA", Unit: "pcs", Quantity: 4}
	ratio := &ConversionRatio{BaseProduct: "GULA", FromUnit: "karton", ToUnit: "pcs", Ratio: decimal.NewFromInt(12)}

	tests := []struct {
		name      string
		req       TransformationRequest
		snapshot  TransformationSnapshot
		wantValid bool
		wantMsg   string
	}{
		{
			name:      "happy path",
			req:       TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-P", Quantity: 3},
			snapshot:  TransformationSnapshot{Source: source, Target: target, Ratio: ratio},
			wantValid: true,
		},
		{
			name:      "entire stock is allowed",
			req:       TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-P", Quantity: 10},
			snapshot:  TransformationSnapshot{Source: source, Target: target, Ratio: ratio},
			wantValid: true,
		},
		{
			name:     "missing ratio",
			req:      TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-P", Quantity: 3},
			snapshot: TransformationSnapshot{Source: source, Target: target},
			wantMsg:  "no conversion ratio configured",
		},
		{
			name:     "insufficient stock",
			req:      TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-P", Quantity: 11},
			snapshot: TransformationSnapshot{Source: source, Target: target, Ratio: ratio},
			wantMsg:  "insufficient stock",
		},
		{
			name:     "unknown source item",
			req:      TransformationRequest{SourceCode: "NOPE", TargetCode: "GULA-P", Quantity: 1},
			snapshot: TransformationSnapshot{Target: target, Ratio: ratio},
			wantMsg:  "not found",
		},
		{
			name: "incompatible base products",
			req:  TransformationRequest{SourceCode: "GULA-C", TargetCode: "BERAS-P", Quantity: 1},
			snapshot: TransformationSnapshot{
				Source: source,
				Target: &StockItem{Code: "BERAS-P", BaseProduct: "BERAS", Unit: "pcs"},
				Ratio:  ratio,
			},
			wantMsg: "do not share a base product",
		},
		{
			name:     "zero quantity",
			req:      TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-P", Quantity: 0},
			snapshot: TransformationSnapshot{Source: source, Target: target, Ratio: ratio},
			wantMsg:  "quantity must be positive",
		},
		{
			name:     "same item",
			req:      TransformationRequest{SourceCode: "GULA-C", TargetCode: "GULA-C", Quantity: 1},
			snapshot: TransformationSnapshot{Source: source, Target: source, Ratio: ratio},
			wantMsg:  "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTransformation(tt.req, tt.snapshot)

			if got.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", got.Valid, tt.wantValid, got.Errors)
			}

			if tt.wantMsg != "" {
				found := false
				for _, msg := range got.Errors {
					if strings.Contains(msg, tt.wantMsg) {
						found = true
					}
				}
				if !found {
					t.Fatalf("expected an error containing %q, got %v", tt.wantMsg, got.Errors)
				}
			}
		})
	}
}

func TestValidateTransformationNeverMutatesSnapshot(t *testing.T) {
	source := &StockItem{Code: "A", BaseProduct: "P", Unit: "box", Quantity: 5}
	target := &StockItem{Code: "B", BaseProduct: "P", Unit: "pcs", Quantity: 1}
	ratio := &ConversionRatio{BaseProduct: "P", FromUnit: "box", ToUnit: "pcs", Ratio: decimal.NewFromInt(10)}

	ValidateTransformation(
		TransformationRequest{SourceCode: "A", TargetCode: "B", Quantity: 2},
		TransformationSnapshot{Source: source, Target: target, Ratio: ratio},
	)

	if source.Quantity != 5 || target.Quantity != 1 {
		t.Fatalf("snapshot mutated: source=%d target=%d", source.Quantity, target.Quantity)
	}
}
