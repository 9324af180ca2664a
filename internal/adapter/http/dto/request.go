package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// CreatePaymentRequest represents a request to settle a member balance.
type CreatePaymentRequest struct {
	MemberID string          `json:"member_id"`
	Kind     string          `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
	Date     *time.Time      `json:"date,omitempty"`
}

// ToDomain converts to the domain payment request.
func (r *CreatePaymentRequest) ToDomain() domain.PaymentRequest {
	return domain.PaymentRequest{
		MemberID: r.MemberID,
		Kind:     domain.TransactionKind(r.Kind),
		Amount:   r.Amount,
		Note:     r.Note,
		Date:     r.Date,
	}
}

// CreateBatchRequest represents an ordered batch of payment requests.
type CreateBatchRequest struct {
	Payments []CreatePaymentRequest `json:"payments"`
}

// ToRequests converts to processor requests, preserving order.
func (r *CreateBatchRequest) ToRequests() []usecase.Request {
	requests := make([]usecase.Request, len(r.Payments))
	for i, p := range r.Payments {
		payment := p.ToDomain()
		requests[i] = usecase.Request{Payment: &payment}
	}
	return requests
}

// CreateTransformationRequest represents a stock re-denomination request.
type CreateTransformationRequest struct {
	SourceCode string `json:"source_code"`
	TargetCode string `json:"target_code"`
	Quantity   int64  `json:"quantity"`
}

// ToDomain converts to the domain transformation request.
func (r *CreateTransformationRequest) ToDomain() domain.TransformationRequest {
	return domain.TransformationRequest{
		SourceCode: r.SourceCode,
		TargetCode: r.TargetCode,
		Quantity:   r.Quantity,
	}
}

// CreateMemberRequest represents a member registration.
type CreateMemberRequest struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ExternalID    string          `json:"external_id,omitempty"`
	OpeningDebt   decimal.Decimal `json:"opening_debt"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
}

// ToDomain converts to the domain member.
func (r *CreateMemberRequest) ToDomain() *domain.Member {
	return &domain.Member{
		ID:            r.ID,
		Name:          r.Name,
		ExternalID:    r.ExternalID,
		OpeningDebt:   r.OpeningDebt,
		OpeningCredit: r.OpeningCredit,
		CreatedAt:     time.Now().UTC(),
	}
}

// CreateStockItemRequest represents a stock denomination registration.
type CreateStockItemRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	BaseProduct string `json:"base_product"`
	Unit        string `json:"unit"`
	Quantity    int64  `json:"quantity"`
}

// ToDomain converts to the domain stock item.
func (r *CreateStockItemRequest) ToDomain() *domain.StockItem {
	return &domain.StockItem{
		Code:        r.Code,
		Name:        r.Name,
		BaseProduct: r.BaseProduct,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		UpdatedAt:   time.Now().UTC(),
	}
}

// CreateRatioRequest represents a conversion ratio configuration.
type CreateRatioRequest struct {
	BaseProduct string          `json:"base_product"`
	FromUnit    string          `json:"from_unit"`
	ToUnit      string          `json:"to_unit"`
	Ratio       decimal.Decimal `json:"ratio"`
}

// ToDomain converts to the domain ratio.
func (r *CreateRatioRequest) ToDomain() *domain.ConversionRatio {
	return &domain.ConversionRatio{
		BaseProduct: r.BaseProduct,
		FromUnit:    r.FromUnit,
		ToUnit:      r.ToUnit,
		Ratio:       r.Ratio,
	}
}
