package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

func TestBalanceCalculator(t *testing.T) {
	ctx := context.Background()

	member := &domain.Member{
		ID:            "M-001",
		Name:          "Budi Santoso",
		OpeningDebt:   decimal.NewFromInt(100000),
		OpeningCredit: decimal.NewFromInt(25000),
	}

	completed := func(kind domain.TransactionKind, amount int64) *domain.Transaction {
		return &domain.Transaction{
			ID:       fmt.Sprintf("T-%s-%d", kind, amount),
			MemberID: "M-001",
			Kind:     kind,
			Amount:   decimal.NewFromInt(amount),
			Status:   domain.StatusCompleted,
		}
	}

	tests := []struct {
		name    string
		history []*domain.Transaction
		kind    domain.TransactionKind
		want    int64
	}{
		{
			name: "no history returns opening debt",
			kind: domain.KindDebtPayment,
			want: 100000,
		},
		{
			name: "completed debt payments reduce debt",
			history: []*domain.Transaction{
				completed(domain.KindDebtPayment, 30000),
				completed(domain.KindDebtPayment, 20000),
			},
			kind: domain.KindDebtPayment,
			want: 50000,
		},
		{
			name: "credit payments do not affect debt balance",
			history: []*domain.Transaction{
				completed(domain.KindCreditPayment, 10000),
			},
			kind: domain.KindDebtPayment,
			want: 100000,
		},
		{
			name: "credit balance replays credit payments only",
			history: []*domain.Transaction{
				completed(domain.KindCreditPayment, 10000),
				completed(domain.KindDebtPayment, 30000),
			},
			kind: domain.KindCreditPayment,
			want: 15000,
		},
		{
			name: "rolled back transactions are ignored",
			history: []*domain.Transaction{
				completed(domain.KindDebtPayment, 30000),
				{
					ID: "T-rb", MemberID: "M-001", Kind: domain.KindDebtPayment,
					Amount: decimal.NewFromInt(40000), Status: domain.StatusRolledBack,
				},
			},
			kind: domain.KindDebtPayment,
			want: 70000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := newFakeTransactionRepo()
			for _, txn := range tt.history {
				if err := txns.Create(ctx, txn); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}

			calc := NewBalanceCalculator(newFakeMemberRepo(member), txns)

			got, err := calc.Balance(ctx, "M-001", tt.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("Balance() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestBalanceCalculatorUnknownMemberIsZero(t *testing.T) {
	calc := NewBalanceCalculator(newFakeMemberRepo(), newFakeTransactionRepo())

	got, err := calc.Balance(context.Background(), "nobody", domain.KindDebtPayment)
	if err != nil {
		t.Fatalf("unknown member must not be an error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("Balance() = %s, want 0", got)
	}
}

func TestBalanceCalculatorRejectsNonPaymentKind(t *testing.T) {
	calc := NewBalanceCalculator(newFakeMemberRepo(), newFakeTransactionRepo())

	_, err := calc.Balance(context.Background(), "M-001", domain.KindStockTransformation)
	if domain.CategoryOf(err) != domain.CategoryValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBalanceCalculatorWrapsRepoFailure(t *testing.T) {
	member := &domain.Member{ID: "M-001", OpeningDebt: decimal.NewFromInt(1000)}
	txns := newFakeTransactionRepo()
	txns.listErr = fmt.Errorf("store offline")

	calc := NewBalanceCalculator(newFakeMemberRepo(member), txns)

	_, err := calc.Balance(context.Background(), "M-001", domain.KindDebtPayment)
	if domain.CategoryOf(err) != domain.CategorySystem {
		t.Fatalf("expected system error, got %v", err)
	}
}
