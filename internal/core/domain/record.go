package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecordKind is the class of financial entity stored in a record.
type RecordKind string

const (
	RecordKindIncome      RecordKind = "INCOME"
	RecordKindExpense     RecordKind = "EXPENSE"
	RecordKindCalculation RecordKind = "CALCULATION"
)

// RecordStatus is the lifecycle state of a financial record.
type RecordStatus string

const (
	RecordStatusActive     RecordStatus = "ACTIVE"
	RecordStatusSuperseded RecordStatus = "SUPERSEDED"
	RecordStatusArchived   RecordStatus = "ARCHIVED"
	RecordStatusFinalized  RecordStatus = "FINALIZED"
)

// FinancialRecord is an append-only financial entity. Records are never
// edited or deleted; a correction inserts a successor whose SupersedesID
// points at the record it replaces, while the predecessor's status flips
// to SUPERSEDED in the same transaction.
type FinancialRecord struct {
	ID           uuid.UUID       `json:"id"`
	Kind         RecordKind      `json:"kind"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Payload      json.RawMessage `json:"payload"`
	Status       RecordStatus    `json:"status"`
	Finalized    bool            `json:"finalized"`
	SupersedesID *uuid.UUID      `json:"supersedes_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	StatusAt     *time.Time      `json:"status_at,omitempty"`
}

// IsCorrectable reports whether the record may be the target of a
// correction. Only the active, non-finalized head of a chain qualifies.
func (r *FinancialRecord) IsCorrectable() bool {
	return r.Status == RecordStatusActive && !r.Finalized
}

// IsFinalizable reports whether the record may transition to FINALIZED.
// Finalization is one-way and applies to calculations only.
func (r *FinancialRecord) IsFinalizable() bool {
	return r.Kind == RecordKindCalculation && r.Status == RecordStatusActive && !r.Finalized
}

// IsSuperseded reports whether a successor has replaced this record.
func (r *FinancialRecord) IsSuperseded() bool {
	return r.Status == RecordStatusSuperseded
}
