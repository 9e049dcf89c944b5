package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const ruleTableCacheTTL = 24 * time.Hour

const monthsPerYear = 12

// TaxServiceImpl implements ports.TaxService.
type TaxServiceImpl struct {
	ruleRepo   ports.RuleTableRepository
	ruleCache  ports.RuleTableCache
	recordRepo ports.RecordRepository
	ledger     ports.LedgerService
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTaxService creates a new TaxServiceImpl.
func NewTaxService(
	ruleRepo ports.RuleTableRepository,
	ruleCache ports.RuleTableCache,
	recordRepo ports.RecordRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TaxServiceImpl {
	return &TaxServiceImpl{
		ruleRepo:   ruleRepo,
		ruleCache:  ruleCache,
		recordRepo: recordRepo,
		ledger:     ledger,
		transactor: transactor,
		log:        log,
	}
}

// Compute applies the resolved rule table to the taxable amount and
// persists the outcome as a draft CALCULATION record.
func (s *TaxServiceImpl) Compute(ctx context.Context, req ports.ComputeRequest) (*ports.ComputeResponse, error) {
	if req.TaxableAmount.IsNegative() {
		return nil, apperror.ErrInvalidInput("taxable amount must not be negative")
	}

	table, err := s.resolveTable(ctx, req.TaxType, req.RuleVersion)
	if err != nil {
		return nil, err
	}

	result, err := computeProgressive(req.TaxableAmount, table)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal calculation: %w", err))
	}

	now := time.Now().UTC()
	rec := &domain.FinancialRecord{
		ID:        uuid.New(),
		Kind:      domain.RecordKindCalculation,
		OwnerID:   req.OwnerID,
		Payload:   payload,
		Status:    domain.RecordStatusActive,
		CreatedAt: now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.recordRepo.Create(ctx, dbTx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create calculation record: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	audited := s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventCalcComputed,
		ActorID:    req.ActorID,
		EntityType: "record",
		EntityID:   rec.ID.String(),
		Details:    fmt.Sprintf(`{"tax_type":%q,"rule_version":%d,"total_liability":%d}`, table.TaxType, table.Version, result.TotalLiability),
	})

	s.log.Info().
		Str("record_id", rec.ID.String()).
		Str("tax_type", string(req.TaxType)).
		Int("rule_version", table.Version).
		Int64("taxable", req.TaxableAmount.Int64()).
		Int64("liability", result.TotalLiability.Int64()).
		Msg("tax calculation computed")

	return &ports.ComputeResponse{RecordID: rec.ID, Result: result, AuditLogged: audited}, nil
}

// GetActiveTable resolves the active rule table for the current date.
func (s *TaxServiceImpl) GetActiveTable(ctx context.Context, taxType domain.TaxType) (*domain.RuleTable, error) {
	table, err := s.ruleRepo.GetActive(ctx, taxType, time.Now().UTC())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get active table: %w", err))
	}
	if table == nil {
		return nil, apperror.ErrRuleTableNotFound(string(taxType))
	}
	return table, nil
}

// PublishTable validates and publishes a new rule table version.
func (s *TaxServiceImpl) PublishTable(ctx context.Context, req ports.PublishTableRequest) (*domain.RuleTable, error) {
	table := &domain.RuleTable{
		TaxType:        req.TaxType,
		Version:        req.Version,
		EffectiveDate:  req.EffectiveDate,
		LegalReference: req.LegalReference,
		Bands:          req.Bands,
	}
	if err := table.Validate(); err != nil {
		return nil, apperror.ErrInvalidInput(err.Error())
	}

	if err := s.ruleRepo.Publish(ctx, table); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("publish rule table: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventRuleTablePublish,
		ActorID:    req.ActorID,
		EntityType: "rule_table",
		EntityID:   fmt.Sprintf("%s/v%d", table.TaxType, table.Version),
		Details:    fmt.Sprintf(`{"legal_reference":%q}`, table.LegalReference),
	})

	s.log.Info().
		Str("tax_type", string(table.TaxType)).
		Int("version", table.Version).
		Time("effective", table.EffectiveDate).
		Msg("rule table published")

	return table, nil
}

// resolveTable fetches a rule table, preferring the cache for pinned
// versions. A missing table is a hard failure, never a fallback.
func (s *TaxServiceImpl) resolveTable(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error) {
	if version == 0 {
		return s.GetActiveTable(ctx, taxType)
	}

	if s.ruleCache != nil {
		cached, err := s.ruleCache.Get(ctx, taxType, version)
		if err != nil {
			s.log.Warn().Err(err).Str("tax_type", string(taxType)).Int("version", version).Msg("rule cache read failed, falling through to DB")
		}
		if cached != nil {
			return cached, nil
		}
	}

	table, err := s.ruleRepo.GetByVersion(ctx, taxType, version)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get rule table: %w", err))
	}
	if table == nil {
		return nil, apperror.ErrRuleTableNotFound(fmt.Sprintf("%s v%d", taxType, version))
	}

	if s.ruleCache != nil {
		if err := s.ruleCache.Set(ctx, table, ruleTableCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache rule table")
		}
	}
	return table, nil
}

// appendAudit writes a ledger entry, reporting rather than failing the
// committed business operation when the append cannot complete.
func (s *TaxServiceImpl) appendAudit(ctx context.Context, req ports.AppendRequest) bool {
	if s.ledger == nil {
		return false
	}
	if _, err := s.ledger.Append(ctx, req); err != nil {
		s.log.Warn().Err(err).Str("event", string(req.Event)).Msg("failed to append audit entry")
		return false
	}
	return true
}

// computeProgressive walks the bands in order, taxing min(remaining,
// width) in each until the amount is exhausted. Band widths are
// cumulative widths, not absolute ceilings.
func computeProgressive(taxable domain.Money, table *domain.RuleTable) (*domain.CalculationResult, error) {
	if err := table.Validate(); err != nil {
		return nil, apperror.ErrInvalidInput(err.Error())
	}

	result := &domain.CalculationResult{
		TaxType:       table.TaxType,
		RuleVersion:   table.Version,
		TaxableAmount: taxable,
		Breakdown:     []domain.BandBreakdown{},
	}

	remaining := taxable
	var total domain.Money
	taxedBandReached := false
	for _, band := range table.Bands {
		if remaining.IsZero() {
			break
		}
		width := remaining
		if !band.Unbounded() {
			width = *band.Width
		}
		taxed := remaining.Min(width)
		if taxed.IsZero() {
			continue
		}
		if !band.Rate.IsZero() {
			taxedBandReached = true
		}
		taxForBand := taxed.MulRate(band.Rate)
		result.Breakdown = append(result.Breakdown, domain.BandBreakdown{
			Label:       band.Label,
			AmountTaxed: taxed,
			Rate:        band.Rate,
			TaxForBand:  taxForBand,
		})
		total = total.Add(taxForBand)
		remaining = remaining.Sub(taxed)
	}

	// Income that never leaves the zero-rate bands reports no breakdown
	// lines at all, not a single zero line.
	if !taxedBandReached {
		result.Breakdown = result.Breakdown[:0]
	}

	result.TotalLiability = total
	result.MonthlyLiability = total.DivInt(monthsPerYear)
	result.EffectiveRateBps = domain.EffectiveRateBps(total, taxable)
	return result, nil
}
