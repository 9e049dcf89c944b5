package postgres

import (
	"context"
	"errors"
	"fmt"

	"taxcore/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository. The ledger table is
// append-only; no UPDATE or DELETE is ever issued against it.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

const ledgerColumns = `id, sequence, event, actor_id, entity_type, entity_id, details, created_at, prev_hash, hash`

// Append inserts a fully-hashed entry within a database transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	query := `INSERT INTO audit_ledger (id, sequence, event, actor_id, entity_type, entity_id, details, created_at, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.Sequence, entry.Event, entry.ActorID,
		entry.EntityType, entry.EntityID, entry.Details,
		entry.CreatedAt, entry.PrevHash, entry.Hash,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetTailForUpdate locks and returns the highest-sequence entry, or nil
// for an empty ledger. Concurrent appends serialize on this lock.
func (r *LedgerRepo) GetTailForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_ledger ORDER BY sequence DESC LIMIT 1 FOR UPDATE`, ledgerColumns)
	return r.scanEntry(tx.QueryRow(ctx, query))
}

// ListAll returns every entry ordered by ascending sequence.
func (r *LedgerRepo) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_ledger ORDER BY sequence ASC`, ledgerColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	return r.collectEntries(rows)
}

// ListRecent returns the newest entries, newest first.
func (r *LedgerRepo) ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_ledger ORDER BY sequence DESC LIMIT $1`, ledgerColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent ledger entries: %w", err)
	}
	defer rows.Close()

	return r.collectEntries(rows)
}

func (r *LedgerRepo) collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		e := domain.LedgerEntry{}
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Event, &e.ActorID,
			&e.EntityType, &e.EntityID, &e.Details,
			&e.CreatedAt, &e.PrevHash, &e.Hash,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepo) scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	err := row.Scan(
		&e.ID, &e.Sequence, &e.Event, &e.ActorID,
		&e.EntityType, &e.EntityID, &e.Details,
		&e.CreatedAt, &e.PrevHash, &e.Hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	return e, nil
}
