package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// TransformationDetailResponse describes a stock re-denomination.
type TransformationDetailResponse struct {
	SourceCode     string          `json:"source_code"`
	TargetCode     string          `json:"target_code"`
	SourceQuantity int64           `json:"source_quantity"`
	TargetQuantity int64           `json:"target_quantity"`
	Ratio          decimal.Decimal `json:"ratio"`
}

// TransactionResponse represents a committed transaction in API responses.
type TransactionResponse struct {
	ID             string                        `json:"id"`
	MemberID       string                        `json:"member_id,omitempty"`
	JournalID      string                        `json:"journal_id"`
	BatchID        *string                       `json:"batch_id,omitempty"`
	Kind           string                        `json:"kind"`
	Status         string                        `json:"status"`
	Mode           string                        `json:"mode"`
	Amount         decimal.Decimal               `json:"amount"`
	BalanceBefore  decimal.Decimal               `json:"balance_before"`
	BalanceAfter   decimal.Decimal               `json:"balance_after"`
	Transformation *TransformationDetailResponse `json:"transformation,omitempty"`
	Warnings       []string                      `json:"warnings,omitempty"`
	Timestamp      time.Time                     `json:"timestamp"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction, warnings []string) *TransactionResponse {
	resp := &TransactionResponse{
		ID:            t.ID,
		MemberID:      t.MemberID,
		JournalID:     t.JournalID,
		BatchID:       t.BatchID,
		Kind:          string(t.Kind),
		Status:        string(t.Status),
		Mode:          string(t.Mode),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Warnings:      warnings,
		Timestamp:     t.Timestamp,
	}
	if t.Transformation != nil {
		resp.Transformation = &TransformationDetailResponse{
			SourceCode:     t.Transformation.SourceCode,
			TargetCode:     t.Transformation.TargetCode,
			SourceQuantity: t.Transformation.SourceQuantity,
			TargetQuantity: t.Transformation.TargetQuantity,
			Ratio:          t.Transformation.Ratio,
		}
	}
	return resp
}

// BatchItemErrorResponse reports one failed batch item.
type BatchItemErrorResponse struct {
	Index   int    `json:"index"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BatchResponse is the aggregate outcome of a batch run.
type BatchResponse struct {
	BatchID      string                   `json:"batch_id"`
	Total        int                      `json:"total"`
	SuccessCount int                      `json:"success_count"`
	FailureCount int                      `json:"failure_count"`
	SkippedCount int                      `json:"skipped_count"`
	Cancelled    bool                     `json:"cancelled"`
	Transactions []*TransactionResponse   `json:"transactions"`
	Errors       []BatchItemErrorResponse `json:"errors,omitempty"`
}

// BatchFromResult converts a batch result to a response.
func BatchFromResult(result *usecase.BatchResult) *BatchResponse {
	resp := &BatchResponse{
		BatchID:      result.BatchID,
		Total:        result.Total,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		SkippedCount: result.SkippedCount,
		Cancelled:    result.Cancelled,
		Transactions: make([]*TransactionResponse, 0, len(result.Transactions)),
	}
	for _, txn := range result.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionFromDomain(txn, nil))
	}
	for _, itemErr := range result.Errors {
		item := BatchItemErrorResponse{Index: itemErr.Index, Error: itemErr.Err.Error()}
		var engineErr *domain.Error
		if errors.As(itemErr.Err, &engineErr) {
			item.Message = engineErr.Message
		}
		resp.Errors = append(resp.Errors, item)
	}
	return resp
}

// BalanceResponse represents a member balance query result.
type BalanceResponse struct {
	MemberID string          `json:"member_id"`
	Kind     string          `json:"kind"`
	Balance  decimal.Decimal `json:"balance"`
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ExternalID    string          `json:"external_id,omitempty"`
	OpeningDebt   decimal.Decimal `json:"opening_debt"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:            m.ID,
		Name:          m.Name,
		ExternalID:    m.ExternalID,
		OpeningDebt:   m.OpeningDebt,
		OpeningCredit: m.OpeningCredit,
		CreatedAt:     m.CreatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// StockItemResponse represents a stock denomination in API responses.
type StockItemResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	BaseProduct string    `json:"base_product"`
	Unit        string    `json:"unit"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockItemFromDomain converts a domain stock item to a response.
func StockItemFromDomain(item *domain.StockItem) *StockItemResponse {
	return &StockItemResponse{
		Code:        item.Code,
		Name:        item.Name,
		BaseProduct: item.BaseProduct,
		Unit:        item.Unit,
		Quantity:    item.Quantity,
		UpdatedAt:   item.UpdatedAt,
	}
}

// StockItemsFromDomain converts domain stock items to responses.
func StockItemsFromDomain(items []*domain.StockItem) []*StockItemResponse {
	result := make([]*StockItemResponse, len(items))
	for i, item := range items {
		result[i] = StockItemFromDomain(item)
	}
	return result
}

// RatioResponse represents a conversion ratio in API responses.
type RatioResponse struct {
	BaseProduct string          `json:"base_product"`
	FromUnit    string          `json:"from_unit"`
	ToUnit      string          `json:"to_unit"`
	Ratio       decimal.Decimal `json:"ratio"`
}

// RatioFromDomain converts a domain ratio to a response.
func RatioFromDomain(r *domain.ConversionRatio) *RatioResponse {
	return &RatioResponse{
		BaseProduct: r.BaseProduct,
		FromUnit:    r.FromUnit,
		ToUnit:      r.ToUnit,
		Ratio:       r.Ratio,
	}
}

// RatiosFromDomain converts domain ratios to responses.
func RatiosFromDomain(ratios []*domain.ConversionRatio) []*RatioResponse {
	result := make([]*RatioResponse, len(ratios))
	for i, r := range ratios {
		result[i] = RatioFromDomain(r)
	}
	return result
}

// AuditLogResponse represents an audit entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	Category     string         `json:"category"`
	Severity     string         `json:"severity"`
	ErrorSummary string         `json:"error_summary,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit entry to a response.
func AuditLogFromDomain(log *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           log.ID,
		Actor:        log.Actor,
		Action:       log.Action,
		Category:     string(log.Category),
		Severity:     string(log.Severity),
		ErrorSummary: log.ErrorSummary,
		Context:      log.Context,
		CreatedAt:    log.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit entries to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, log := range logs {
		result[i] = AuditLogFromDomain(log)
	}
	return result
}

// ErrorResponse represents an error in API responses. Category and
// suggestions surface the engine's structured errors to clients.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message,omitempty"`
	Category    string   `json:"category,omitempty"`
	Recoverable bool     `json:"recoverable,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
