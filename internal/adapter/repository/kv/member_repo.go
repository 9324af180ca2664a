package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// MemberRepo implements usecase.MemberRepository.
type MemberRepo struct {
	store usecase.Store
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(store usecase.Store) *MemberRepo {
	return &MemberRepo{store: store}
}

type memberRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ExternalID    string          `json:"external_id,omitempty"`
	OpeningDebt   decimal.Decimal `json:"opening_debt"`
	OpeningCredit decimal.Decimal `json:"opening_credit"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Create stores a member record.
func (r *MemberRepo) Create(ctx context.Context, member *domain.Member) error {
	record := memberRecord{
		ID:            member.ID,
		Name:          member.Name,
		ExternalID:    member.ExternalID,
		OpeningDebt:   member.OpeningDebt,
		OpeningCredit: member.OpeningCredit,
		CreatedAt:     member.CreatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal member: %w", err)
	}

	return r.store.Set(ctx, memberKey(member.ID), data)
}

// GetByID retrieves a member by ID.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	data, err := r.store.Get(ctx, memberKey(id))
	if err != nil {
		if errors.Is(err, usecase.ErrKeyNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	return unmarshalMember(data)
}

// List returns all members in ID order.
func (r *MemberRepo) List(ctx context.Context) ([]*domain.Member, error) {
	records, err := r.store.List(ctx, memberPrefix)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]*domain.Member, 0, len(records))
	for _, record := range records {
		member, err := unmarshalMember(record.Value)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func unmarshalMember(data []byte) (*domain.Member, error) {
	var record memberRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal member: %w", err)
	}

	return &domain.Member{
		ID:            record.ID,
		Name:          record.Name,
		ExternalID:    record.ExternalID,
		OpeningDebt:   record.OpeningDebt,
		OpeningCredit: record.OpeningCredit,
		CreatedAt:     record.CreatedAt,
	}, nil
}
