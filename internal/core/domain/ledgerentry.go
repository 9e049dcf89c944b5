package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// LedgerEvent is the type of audited domain action.
type LedgerEvent string

const (
	LedgerEventRecordCreated    LedgerEvent = "RECORD_CREATED"
	LedgerEventRecordCorrected  LedgerEvent = "RECORD_CORRECTED"
	LedgerEventCalcComputed     LedgerEvent = "CALCULATION_COMPUTED"
	LedgerEventCalcFinalized    LedgerEvent = "CALCULATION_FINALIZED"
	LedgerEventLotAcquired      LedgerEvent = "LOT_ACQUIRED"
	LedgerEventDisposalApplied  LedgerEvent = "DISPOSAL_APPLIED"
	LedgerEventRuleTablePublish LedgerEvent = "RULE_TABLE_PUBLISHED"
)

// GenesisHash is the previous-hash of the first ledger entry.
var GenesisHash = hex.EncodeToString(make([]byte, 32))

// LedgerEntry is one link of the tamper-evident audit chain. Every
// field that participates in ComputeHash is immutable once stored.
type LedgerEntry struct {
	ID         uuid.UUID   `json:"id"`
	Sequence   int64       `json:"sequence"`
	Event      LedgerEvent `json:"event"`
	ActorID    uuid.UUID   `json:"actor_id"`
	EntityType string      `json:"entity_type,omitempty"`
	EntityID   string      `json:"entity_id,omitempty"`
	Details    string      `json:"details,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	PrevHash   string      `json:"prev_hash"`
	Hash       string      `json:"hash"`
}

// ComputeHash returns the SHA3-256 digest of the entry's immutable
// fields, PrevHash included, Hash itself excluded. Recomputing it for a
// stored entry must reproduce the stored hash exactly.
func (e *LedgerEntry) ComputeHash() string {
	canonical := strings.Join([]string{
		fmt.Sprintf("%d", e.Sequence),
		e.ID.String(),
		string(e.Event),
		e.ActorID.String(),
		e.EntityType,
		e.EntityID,
		e.Details,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.PrevHash,
	}, "|")
	sum := sha3.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// IntegrityReport is the result of a full chain verification.
type IntegrityReport struct {
	Valid         bool   `json:"valid"`
	Entries       int64  `json:"entries"`
	BrokenAtIndex int64  `json:"broken_at_index"` // -1 when valid
	Reason        string `json:"reason,omitempty"`
}
