package ports

import (
	"context"
	"encoding/json"
	"time"

	"taxcore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenService validates bearer tokens carrying the authenticated
// actor identity. Authentication itself is an external collaborator;
// this service only verifies and extracts.
type TokenService interface {
	Generate(actorID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	ActorID uuid.UUID
}

// --- Service Ports (Business Logic) ---

// TaxService computes progressive tax liabilities from versioned rule
// tables and persists the result as a draft calculation record.
type TaxService interface {
	Compute(ctx context.Context, req ComputeRequest) (*ComputeResponse, error)
	GetActiveTable(ctx context.Context, taxType domain.TaxType) (*domain.RuleTable, error)
	PublishTable(ctx context.Context, req PublishTableRequest) (*domain.RuleTable, error)
}

// ComputeRequest holds validated input for a tax computation.
type ComputeRequest struct {
	ActorID       uuid.UUID
	OwnerID       uuid.UUID
	TaxType       domain.TaxType
	TaxableAmount domain.Money
	// RuleVersion pins an explicit table version; zero resolves the
	// active table for the current date.
	RuleVersion int
}

// ComputeResponse pairs the persisted draft record with its result.
type ComputeResponse struct {
	RecordID    uuid.UUID
	Result      *domain.CalculationResult
	AuditLogged bool
}

// PublishTableRequest holds a candidate rule table version.
type PublishTableRequest struct {
	ActorID        uuid.UUID
	TaxType        domain.TaxType
	Version        int
	EffectiveDate  time.Time
	LegalReference string
	Bands          []domain.Band
}

// CostBasisService tracks lots of fungible assets and computes
// realized gains on disposal using FIFO matching.
type CostBasisService interface {
	RecordAcquisition(ctx context.Context, req AcquisitionRequest) (*domain.CostBasisLot, error)
	ApplyDisposal(ctx context.Context, req DisposalRequest) (*domain.DisposalResult, error)
	RecordIncomeEvent(ctx context.Context, req IncomeEventRequest) (*IncomeEventResponse, error)
}

// AcquisitionRequest holds a buy-class transaction creating a lot.
type AcquisitionRequest struct {
	ActorID  uuid.UUID
	OwnerID  uuid.UUID
	Asset    string
	Quantity decimal.Decimal
	UnitCost domain.Money
}

// DisposalRequest holds a sell-class transaction consuming lots.
type DisposalRequest struct {
	ActorID  uuid.UUID
	OwnerID  uuid.UUID
	Asset    string
	Quantity decimal.Decimal
	Proceeds domain.Money
}

// IncomeEventRequest holds an income-class event (mining, staking,
// airdrop) that bypasses FIFO matching entirely.
type IncomeEventRequest struct {
	ActorID uuid.UUID
	OwnerID uuid.UUID
	Asset   string
	Source  string
	Value   domain.Money
}

// IncomeEventResponse reports the ordinary-income tax on the event.
type IncomeEventResponse struct {
	RecordID    uuid.UUID
	Value       domain.Money
	TaxDue      domain.Money
	RuleVersion int
}

// CorrectionService coordinates the append-only supersession model:
// corrections, one-way finalization and history walks.
type CorrectionService interface {
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*domain.FinancialRecord, error)
	Correct(ctx context.Context, req CorrectionRequest) (*domain.FinancialRecord, error)
	Finalize(ctx context.Context, calculationID, actorID uuid.UUID) error
	GetHistory(ctx context.Context, id uuid.UUID) ([]domain.FinancialRecord, error)
	ListRecords(ctx context.Context, params RecordListParams) ([]domain.FinancialRecord, int64, error)
}

// CreateRecordRequest holds a new income/expense record.
type CreateRecordRequest struct {
	ActorID uuid.UUID
	OwnerID uuid.UUID
	Kind    domain.RecordKind
	Payload json.RawMessage
}

// CorrectionRequest holds a correction of an existing record.
type CorrectionRequest struct {
	ActorID    uuid.UUID
	OriginalID uuid.UUID
	Payload    json.RawMessage
}

// LedgerService appends to and verifies the tamper-evident audit log.
type LedgerService interface {
	Append(ctx context.Context, req AppendRequest) (*domain.LedgerEntry, error)
	VerifyIntegrity(ctx context.Context) (*domain.IntegrityReport, error)
	ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

// AppendRequest holds one auditable action.
type AppendRequest struct {
	Event      domain.LedgerEvent
	ActorID    uuid.UUID
	EntityType string
	EntityID   string
	Details    string
}
