package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// AuditRepo implements usecase.AuditRepository. Audit IDs are ULIDs, so the
// store's ascending key order doubles as chronological order; newest-first
// listing and oldest-first trimming both fall out of a prefix scan.
type AuditRepo struct {
	store usecase.Store
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(store usecase.Store) *AuditRepo {
	return &AuditRepo{store: store}
}

type auditRecord struct {
	ID           string      `json:"id"`
	Actor        string      `json:"actor"`
	Action       string      `json:"action"`
	Category     string      `json:"category"`
	Severity     string      `json:"severity"`
	ErrorSummary string      `json:"error_summary,omitempty"`
	Context      domain.JSON `json:"context,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Create appends an audit entry.
func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	record := auditRecord{
		ID:           log.ID,
		Actor:        log.Actor,
		Action:       log.Action,
		Category:     string(log.Category),
		Severity:     string(log.Severity),
		ErrorSummary: log.ErrorSummary,
		Context:      log.Context,
		CreatedAt:    log.CreatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	return r.store.Set(ctx, auditKey(log.ID), data)
}

// List returns matching entries newest first.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	records, err := r.store.List(ctx, auditPrefix)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	var matched []*domain.AuditLog
	for i := len(records) - 1; i >= 0; i-- {
		log, err := unmarshalAudit(records[i].Value)
		if err != nil {
			return nil, err
		}
		if matchesFilter(log, filter) {
			matched = append(matched, log)
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count returns the number of stored entries.
func (r *AuditRepo) Count(ctx context.Context) (int, error) {
	records, err := r.store.List(ctx, auditPrefix)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return len(records), nil
}

// DeleteOldest removes the n oldest entries.
func (r *AuditRepo) DeleteOldest(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	records, err := r.store.List(ctx, auditPrefix)
	if err != nil {
		return fmt.Errorf("list audit entries: %w", err)
	}
	if n > len(records) {
		n = len(records)
	}

	for _, record := range records[:n] {
		if err := r.store.Delete(ctx, record.Key); err != nil {
			return fmt.Errorf("delete audit entry %s: %w", record.Key, err)
		}
	}
	return nil
}

func matchesFilter(log *domain.AuditLog, filter domain.AuditFilter) bool {
	if filter.Category != "" && log.Category != filter.Category {
		return false
	}
	if filter.Severity != "" && log.Severity != filter.Severity {
		return false
	}
	if filter.Actor != "" && log.Actor != filter.Actor {
		return false
	}
	if filter.Action != "" && log.Action != filter.Action {
		return false
	}
	if filter.StartDate != nil && log.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && log.CreatedAt.After(*filter.EndDate) {
		return false
	}
	if filter.MemberID != "" {
		memberID, _ := log.Context["member_id"].(string)
		if memberID != filter.MemberID {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		haystack := strings.ToLower(log.Action + " " + log.Actor + " " + log.ErrorSummary)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func unmarshalAudit(data []byte) (*domain.AuditLog, error) {
	var record auditRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal audit entry: %w", err)
	}

	return &domain.AuditLog{
		ID:           record.ID,
		Actor:        record.Actor,
		Action:       record.Action,
		Category:     domain.AuditCategory(record.Category),
		Severity:     domain.Severity(record.Severity),
		ErrorSummary: record.ErrorSummary,
		Context:      record.Context,
		CreatedAt:    record.CreatedAt,
	}, nil
}
