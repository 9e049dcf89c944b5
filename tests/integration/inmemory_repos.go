package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Record Repo ---

type inMemoryRecordRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.FinancialRecord
}

func newInMemoryRecordRepo() *inMemoryRecordRepo {
	return &inMemoryRecordRepo{records: make(map[uuid.UUID]*domain.FinancialRecord)}
}

func (r *inMemoryRecordRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.FinancialRecord) error {
	cp := *rec
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.records[cp.ID] = &cp
	})
	return nil
}

func (r *inMemoryRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryRecordRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.FinancialRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryRecordRepo) MarkSuperseded(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	rec, ok := r.records[id]
	eligible := ok && rec.Status == domain.RecordStatusActive && !rec.Finalized
	r.mu.Unlock()
	if !eligible {
		return false, nil
	}
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		rec.Status = domain.RecordStatusSuperseded
		rec.StatusAt = &at
	})
	return true, nil
}

func (r *inMemoryRecordRepo) MarkFinalized(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	rec, ok := r.records[id]
	eligible := ok && rec.Status == domain.RecordStatusActive && !rec.Finalized
	r.mu.Unlock()
	if !eligible {
		return false, nil
	}
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		rec.Status = domain.RecordStatusFinalized
		rec.Finalized = true
		rec.StatusAt = &at
	})
	return true, nil
}

func (r *inMemoryRecordRepo) ListByOwner(ctx context.Context, params ports.RecordListParams) ([]domain.FinancialRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.FinancialRecord
	for _, rec := range r.records {
		if rec.OwnerID != params.OwnerID {
			continue
		}
		if params.Kind != nil && rec.Kind != *params.Kind {
			continue
		}
		if params.Status != nil && rec.Status != *params.Status {
			continue
		}
		result = append(result, *rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.FinancialRecord{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Rule Table Repo ---

type tableKey struct {
	taxType domain.TaxType
	version int
}

type inMemoryRuleTableRepo struct {
	mu     sync.RWMutex
	tables map[tableKey]*domain.RuleTable
}

func newInMemoryRuleTableRepo() *inMemoryRuleTableRepo {
	return &inMemoryRuleTableRepo{tables: make(map[tableKey]*domain.RuleTable)}
}

func (r *inMemoryRuleTableRepo) Publish(ctx context.Context, table *domain.RuleTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tableKey{table.TaxType, table.Version}
	if _, exists := r.tables[key]; exists {
		return fmt.Errorf("rule table %s v%d already published", table.TaxType, table.Version)
	}
	cp := *table
	r.tables[key] = &cp
	return nil
}

func (r *inMemoryRuleTableRepo) GetByVersion(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[tableKey{taxType, version}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryRuleTableRepo) GetActive(ctx context.Context, taxType domain.TaxType, on time.Time) (*domain.RuleTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *domain.RuleTable
	for _, t := range r.tables {
		if t.TaxType != taxType || t.EffectiveDate.After(on) {
			continue
		}
		if best == nil ||
			t.EffectiveDate.After(best.EffectiveDate) ||
			(t.EffectiveDate.Equal(best.EffectiveDate) && t.Version > best.Version) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// --- In-Memory Rule Table Cache ---

type inMemoryRuleCache struct {
	mu     sync.RWMutex
	tables map[tableKey]*domain.RuleTable
}

func newInMemoryRuleCache() *inMemoryRuleCache {
	return &inMemoryRuleCache{tables: make(map[tableKey]*domain.RuleTable)}
}

func (c *inMemoryRuleCache) Get(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[tableKey{taxType, version}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (c *inMemoryRuleCache) Set(ctx context.Context, table *domain.RuleTable, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *table
	c.tables[tableKey{table.TaxType, table.Version}] = &cp
	return nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	cp := *entry
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = append(r.entries, cp)
	})
	return nil
}

func (r *inMemoryLedgerRepo) GetTailForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil, nil
	}
	cp := r.entries[len(r.entries)-1]
	return &cp, nil
}

func (r *inMemoryLedgerRepo) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LedgerEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *inMemoryLedgerRepo) ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.entries)
	if limit > n {
		limit = n
	}
	out := make([]domain.LedgerEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// --- In-Memory Lot Repo ---

type inMemoryLotRepo struct {
	mu   sync.RWMutex
	lots map[uuid.UUID]*domain.CostBasisLot
}

func newInMemoryLotRepo() *inMemoryLotRepo {
	return &inMemoryLotRepo{lots: make(map[uuid.UUID]*domain.CostBasisLot)}
}

func (r *inMemoryLotRepo) Create(ctx context.Context, tx pgx.Tx, lot *domain.CostBasisLot) error {
	cp := *lot
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.lots[cp.ID] = &cp
	})
	return nil
}

func (r *inMemoryLotRepo) ListOpenForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, asset string) ([]domain.CostBasisLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.CostBasisLot
	for _, lot := range r.lots {
		if lot.OwnerID != ownerID || lot.Asset != asset || lot.Exhausted() {
			continue
		}
		result = append(result, *lot)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AcquiredAt.Before(result[j].AcquiredAt)
	})
	return result, nil
}

func (r *inMemoryLotRepo) UpdateRemaining(ctx context.Context, tx pgx.Tx, lotID uuid.UUID, remaining decimal.Decimal) error {
	r.mu.RLock()
	lot, ok := r.lots[lotID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("lot not found")
	}
	stageWrite(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		lot.RemainingQty = remaining
	})
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a single mutex, the
// way row locks serialize them in PostgreSQL. Begin blocks until the
// previous transaction commits or rolls back.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// stageWrite defers fn until the transaction commits. A write outside
// an in-memory transaction applies immediately.
func stageWrite(tx pgx.Tx, fn func()) {
	if mt, ok := tx.(*memTx); ok {
		mt.stage(fn)
		return
	}
	fn()
}

// memTx implements pgx.Tx over the in-memory repos. Staged writes are
// applied on Commit and discarded on Rollback, so a rolled-back
// transaction leaves no trace in the shared maps.
type memTx struct {
	release *sync.Mutex
	staged  []func()
	done    sync.Once
}

func (t *memTx) stage(fn func()) {
	t.staged = append(t.staged, fn)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *memTx) Commit(ctx context.Context) error {
	t.done.Do(func() {
		for _, fn := range t.staged {
			fn()
		}
		t.staged = nil
		t.release.Unlock()
	})
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.done.Do(func() {
		t.staged = nil
		t.release.Unlock()
	})
	return nil
}
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
