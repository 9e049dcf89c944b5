package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRepo implements ports.RecordRepository. Records are append-only:
// the only UPDATEs ever issued are the guarded status flips below.
type RecordRepo struct {
	pool Pool
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(pool Pool) *RecordRepo {
	return &RecordRepo{pool: pool}
}

const recordColumns = `id, kind, owner_id, payload, status, finalized, supersedes_id, created_at, status_at`

// Create inserts a new record within a database transaction.
func (r *RecordRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.FinancialRecord) error {
	query := `INSERT INTO financial_records (id, kind, owner_id, payload, status, finalized, supersedes_id, created_at, status_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		rec.ID, rec.Kind, rec.OwnerID, rec.Payload,
		rec.Status, rec.Finalized, rec.SupersedesID,
		rec.CreatedAt, rec.StatusAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetByID fetches a record by UUID.
func (r *RecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM financial_records WHERE id = $1`, recordColumns)
	return r.scanRecord(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a record with a row lock inside the transaction.
func (r *RecordRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.FinancialRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM financial_records WHERE id = $1 FOR UPDATE`, recordColumns)
	return r.scanRecord(tx.QueryRow(ctx, query, id))
}

// MarkSuperseded flips a record from ACTIVE to SUPERSEDED. The WHERE
// guard makes the flip conditional: a record already superseded,
// finalized or archived matches zero rows and the caller sees false.
func (r *RecordRepo) MarkSuperseded(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error) {
	query := `UPDATE financial_records SET status = 'SUPERSEDED', status_at = $1
		WHERE id = $2 AND status = 'ACTIVE' AND NOT finalized`

	tag, err := tx.Exec(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("mark record superseded: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFinalized flips a record from ACTIVE to FINALIZED, one-way.
func (r *RecordRepo) MarkFinalized(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (bool, error) {
	query := `UPDATE financial_records SET status = 'FINALIZED', finalized = TRUE, status_at = $1
		WHERE id = $2 AND status = 'ACTIVE' AND NOT finalized`

	tag, err := tx.Exec(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("mark record finalized: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByOwner fetches an owner's records with filtering and pagination.
func (r *RecordRepo) ListByOwner(ctx context.Context, params ports.RecordListParams) ([]domain.FinancialRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIdx))
	args = append(args, params.OwnerID)
	argIdx++

	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM financial_records %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM financial_records %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		recordColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []domain.FinancialRecord
	for rows.Next() {
		rec := domain.FinancialRecord{}
		err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.OwnerID, &rec.Payload,
			&rec.Status, &rec.Finalized, &rec.SupersedesID,
			&rec.CreatedAt, &rec.StatusAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate record rows: %w", err)
	}
	return recs, total, nil
}

// scanRecord is a helper to scan a single row into a FinancialRecord.
func (r *RecordRepo) scanRecord(row pgx.Row) (*domain.FinancialRecord, error) {
	rec := &domain.FinancialRecord{}
	err := row.Scan(
		&rec.ID, &rec.Kind, &rec.OwnerID, &rec.Payload,
		&rec.Status, &rec.Finalized, &rec.SupersedesID,
		&rec.CreatedAt, &rec.StatusAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	return rec, nil
}
