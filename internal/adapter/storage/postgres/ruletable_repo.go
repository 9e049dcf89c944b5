package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taxcore/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RuleTableRepo implements ports.RuleTableRepository. Band schedules are
// stored as JSONB; tables are insert-only and never updated in place.
type RuleTableRepo struct {
	pool Pool
}

// NewRuleTableRepo creates a new RuleTableRepo.
func NewRuleTableRepo(pool Pool) *RuleTableRepo {
	return &RuleTableRepo{pool: pool}
}

// Publish inserts a new (tax_type, version) row. The primary key rejects
// republishing an existing version.
func (r *RuleTableRepo) Publish(ctx context.Context, table *domain.RuleTable) error {
	bands, err := json.Marshal(table.Bands)
	if err != nil {
		return fmt.Errorf("marshal bands: %w", err)
	}

	query := `INSERT INTO rule_tables (tax_type, version, effective_date, legal_reference, bands)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.pool.Exec(ctx, query,
		table.TaxType, table.Version, table.EffectiveDate, table.LegalReference, bands,
	)
	if err != nil {
		return fmt.Errorf("insert rule table: %w", err)
	}
	return nil
}

// GetByVersion fetches a specific published version, or nil.
func (r *RuleTableRepo) GetByVersion(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error) {
	query := `SELECT tax_type, version, effective_date, legal_reference, bands
		FROM rule_tables WHERE tax_type = $1 AND version = $2`

	return r.scanRuleTable(r.pool.QueryRow(ctx, query, taxType, version))
}

// GetActive fetches the newest table effective on the given date, or nil.
func (r *RuleTableRepo) GetActive(ctx context.Context, taxType domain.TaxType, on time.Time) (*domain.RuleTable, error) {
	query := `SELECT tax_type, version, effective_date, legal_reference, bands
		FROM rule_tables WHERE tax_type = $1 AND effective_date <= $2
		ORDER BY effective_date DESC, version DESC LIMIT 1`

	return r.scanRuleTable(r.pool.QueryRow(ctx, query, taxType, on))
}

func (r *RuleTableRepo) scanRuleTable(row pgx.Row) (*domain.RuleTable, error) {
	table := &domain.RuleTable{}
	var bands []byte
	err := row.Scan(&table.TaxType, &table.Version, &table.EffectiveDate, &table.LegalReference, &bands)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan rule table: %w", err)
	}
	if err := json.Unmarshal(bands, &table.Bands); err != nil {
		return nil, fmt.Errorf("unmarshal bands: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("stored rule table invalid: %w", err)
	}
	return table, nil
}
