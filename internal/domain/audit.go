package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of an attempted or completed mutation.
// Trimming oldest entries past the retention cap is the only permitted
// deletion.
type AuditLog struct {
	CreatedAt    time.Time
	Context      JSON
	ID           string
	Actor        string
	Action       string
	ErrorSummary string
	Category     AuditCategory
	Severity     Severity
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditCategory groups audit entries so operators can distinguish, for
// example, "never applied" from "applied then reversed".
type AuditCategory string

const (
	AuditCategoryTransaction AuditCategory = "transaction"
	AuditCategoryRollback    AuditCategory = "rollback"
	AuditCategoryBatch       AuditCategory = "batch"
	AuditCategoryConfig      AuditCategory = "config"
	AuditCategorySystem      AuditCategory = "system"
)

// AuditAction identifies what was attempted.
type AuditAction string

const (
	AuditActionPaymentProcess        AuditAction = "payment.process"
	AuditActionTransformationProcess AuditAction = "transformation.process"
	AuditActionTransactionRollback   AuditAction = "transaction.rollback"
	AuditActionBatchProcess          AuditAction = "batch.process"
	AuditActionBatchCancel           AuditAction = "batch.cancel"
	AuditActionRatioConfigure        AuditAction = "ratio.configure"
	AuditActionStockConfigure        AuditAction = "stock.configure"
	AuditActionMemberRegister        AuditAction = "member.register"
	AuditActionSystemFailure         AuditAction = "system.failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs. Zero fields match
// everything.
type AuditFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Actor     string
	Action    string
	MemberID  string
	Search    string
	Category  AuditCategory
	Severity  Severity
	Limit     int
	Offset    int
}
