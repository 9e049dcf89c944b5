package postgres

import (
	"context"
	"fmt"

	"taxcore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LotRepo implements ports.LotRepository.
type LotRepo struct {
	pool Pool
}

// NewLotRepo creates a new LotRepo.
func NewLotRepo(pool Pool) *LotRepo {
	return &LotRepo{pool: pool}
}

// Create inserts a new lot within a database transaction.
func (r *LotRepo) Create(ctx context.Context, tx pgx.Tx, lot *domain.CostBasisLot) error {
	query := `INSERT INTO cost_basis_lots (id, owner_id, asset, quantity, remaining_qty, unit_cost, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		lot.ID, lot.OwnerID, lot.Asset,
		lot.Quantity, lot.RemainingQty, lot.UnitCost, lot.AcquiredAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// ListOpenForUpdate locks and returns the owner's unexhausted lots for
// an asset in acquisition order. The row locks keep a concurrent
// disposal of the same holdings from double-spending a lot.
func (r *LotRepo) ListOpenForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, asset string) ([]domain.CostBasisLot, error) {
	query := `SELECT id, owner_id, asset, quantity, remaining_qty, unit_cost, acquired_at
		FROM cost_basis_lots WHERE owner_id = $1 AND asset = $2 AND remaining_qty > 0
		ORDER BY acquired_at ASC FOR UPDATE`

	rows, err := tx.Query(ctx, query, ownerID, asset)
	if err != nil {
		return nil, fmt.Errorf("list open lots: %w", err)
	}
	defer rows.Close()

	var lots []domain.CostBasisLot
	for rows.Next() {
		lot := domain.CostBasisLot{}
		err := rows.Scan(
			&lot.ID, &lot.OwnerID, &lot.Asset,
			&lot.Quantity, &lot.RemainingQty, &lot.UnitCost, &lot.AcquiredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lot row: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lot rows: %w", err)
	}
	return lots, nil
}

// UpdateRemaining sets a lot's remaining quantity after consumption.
func (r *LotRepo) UpdateRemaining(ctx context.Context, tx pgx.Tx, lotID uuid.UUID, remaining decimal.Decimal) error {
	query := `UPDATE cost_basis_lots SET remaining_qty = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, remaining, lotID)
	if err != nil {
		return fmt.Errorf("update lot remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lot not found: %s", lotID)
	}
	return nil
}
