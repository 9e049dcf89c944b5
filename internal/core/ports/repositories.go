package ports

import (
	"context"
	"time"

	"taxcore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RecordRepository defines persistence for append-only financial
// records. Methods accepting pgx.Tx run inside the transaction that
// makes "insert successor + flip predecessor" atomic.
type RecordRepository interface {
	Create(ctx context.Context, tx pgx.Tx, rec *domain.FinancialRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.FinancialRecord, error)
	// MarkSuperseded flips ACTIVE -> SUPERSEDED. Returns false when the
	// record was not in ACTIVE state (a concurrent correction won).
	MarkSuperseded(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error)
	// MarkFinalized flips ACTIVE -> FINALIZED and sets the finalized
	// flag. Returns false when the record was not in ACTIVE state.
	MarkFinalized(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error)
	ListByOwner(ctx context.Context, params RecordListParams) ([]domain.FinancialRecord, int64, error)
}

// RecordListParams holds filter + pagination for listing records.
type RecordListParams struct {
	OwnerID  uuid.UUID
	Kind     *domain.RecordKind
	Status   *domain.RecordStatus
	Page     int
	PageSize int
}

// RuleTableRepository defines persistence for published rule tables.
// Tables are immutable; Publish inserts a new (tax_type, version) row
// and never updates an existing one.
type RuleTableRepository interface {
	Publish(ctx context.Context, table *domain.RuleTable) error
	GetByVersion(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error)
	// GetActive returns the highest-version table effective on the
	// given date, or nil when none is published.
	GetActive(ctx context.Context, taxType domain.TaxType, on time.Time) (*domain.RuleTable, error)
}

// RuleTableCache is a read-through cache for published tables. Entries
// are immutable so staleness is not a correctness concern.
type RuleTableCache interface {
	Get(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error)
	Set(ctx context.Context, table *domain.RuleTable, ttl time.Duration) error
}

// LedgerRepository defines persistence for the hash-chained audit log.
type LedgerRepository interface {
	// Append inserts a fully-hashed entry within the given transaction.
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// GetTailForUpdate locks and returns the chain tail, or nil for an
	// empty ledger. The lock serializes concurrent appends.
	GetTailForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerEntry, error)
	// ListAll returns every entry ordered by ascending sequence.
	ListAll(ctx context.Context) ([]domain.LedgerEntry, error)
	ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

// LotRepository defines persistence for cost-basis lots.
type LotRepository interface {
	Create(ctx context.Context, tx pgx.Tx, lot *domain.CostBasisLot) error
	// ListOpenForUpdate locks and returns unexhausted lots for the
	// owner and asset in acquisition order (oldest first).
	ListOpenForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, asset string) ([]domain.CostBasisLot, error)
	UpdateRemaining(ctx context.Context, tx pgx.Tx, lotID uuid.UUID, remaining decimal.Decimal) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
