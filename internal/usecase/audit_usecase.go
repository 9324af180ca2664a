package usecase

import (
	"context"
	"time"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// AuditRecorder appends to and queries the append-only audit trail. Appends
// are synchronous: an operation is not reported complete until its audit
// entry is durable.
type AuditRecorder struct {
	repo       AuditRepository
	idGen      IDGenerator
	maxEntries int
}

// NewAuditRecorder creates a new AuditRecorder. maxEntries caps retention;
// zero disables trimming.
func NewAuditRecorder(repo AuditRepository, idGen IDGenerator, maxEntries int) *AuditRecorder {
	return &AuditRecorder{
		repo:       repo,
		idGen:      idGen,
		maxEntries: maxEntries,
	}
}

// Record appends one entry, then trims past the retention cap.
func (a *AuditRecorder) Record(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = a.idGen.Generate()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Severity == "" {
		entry.Severity = domain.SeverityInfo
	}

	if err := a.repo.Create(ctx, &entry); err != nil {
		return domain.NewSystemError(err, "failed to append audit entry").
			With("action", entry.Action)
	}

	if a.maxEntries > 0 {
		if err := a.Trim(ctx, a.maxEntries); err != nil {
			return err
		}
	}

	return nil
}

// Query returns matching entries, newest first.
func (a *AuditRecorder) Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	logs, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.NewSystemError(err, "failed to query audit log")
	}
	return logs, nil
}

// Trim deletes the oldest entries beyond maxEntries.
func (a *AuditRecorder) Trim(ctx context.Context, maxEntries int) error {
	count, err := a.repo.Count(ctx)
	if err != nil {
		return domain.NewSystemError(err, "failed to count audit entries")
	}

	if count <= maxEntries {
		return nil
	}

	if err := a.repo.DeleteOldest(ctx, count-maxEntries); err != nil {
		return domain.NewSystemError(err, "failed to trim audit log")
	}

	return nil
}
