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
	"github.com/shopspring/decimal"
)

// CostBasisServiceImpl implements ports.CostBasisService with FIFO lot
// matching for disposals of fungible assets.
type CostBasisServiceImpl struct {
	lotRepo    ports.LotRepository
	recordRepo ports.RecordRepository
	ruleRepo   ports.RuleTableRepository
	ledger     ports.LedgerService
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewCostBasisService creates a new CostBasisServiceImpl.
func NewCostBasisService(
	lotRepo ports.LotRepository,
	recordRepo ports.RecordRepository,
	ruleRepo ports.RuleTableRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CostBasisServiceImpl {
	return &CostBasisServiceImpl{
		lotRepo:    lotRepo,
		recordRepo: recordRepo,
		ruleRepo:   ruleRepo,
		ledger:     ledger,
		transactor: transactor,
		log:        log,
	}
}

// RecordAcquisition creates a lot from a buy-class transaction.
func (s *CostBasisServiceImpl) RecordAcquisition(ctx context.Context, req ports.AcquisitionRequest) (*domain.CostBasisLot, error) {
	if req.Asset == "" {
		return nil, apperror.ErrInvalidInput("asset symbol must not be empty")
	}
	if !req.Quantity.IsPositive() {
		return nil, apperror.ErrInvalidInput("quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return nil, apperror.ErrInvalidInput("unit cost must not be negative")
	}

	lot := &domain.CostBasisLot{
		ID:           uuid.New(),
		OwnerID:      req.OwnerID,
		Asset:        req.Asset,
		Quantity:     req.Quantity,
		RemainingQty: req.Quantity,
		UnitCost:     req.UnitCost,
		AcquiredAt:   time.Now().UTC(),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.lotRepo.Create(ctx, dbTx, lot); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create lot: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventLotAcquired,
		ActorID:    req.ActorID,
		EntityType: "lot",
		EntityID:   lot.ID.String(),
		Details:    fmt.Sprintf(`{"asset":%q,"quantity":%q,"unit_cost":%d}`, lot.Asset, lot.Quantity, lot.UnitCost),
	})

	s.log.Info().
		Str("lot_id", lot.ID.String()).
		Str("asset", lot.Asset).
		Str("quantity", lot.Quantity.String()).
		Msg("acquisition recorded")

	return lot, nil
}

// ApplyDisposal consumes lots oldest-first to compute the realized
// gain on a sell-class transaction. Positive gains are taxed at the
// capital-gains flat rate; realized losses are recorded but produce no
// tax and do not net against other disposals.
func (s *CostBasisServiceImpl) ApplyDisposal(ctx context.Context, req ports.DisposalRequest) (*domain.DisposalResult, error) {
	if req.Asset == "" {
		return nil, apperror.ErrInvalidInput("asset symbol must not be empty")
	}
	if !req.Quantity.IsPositive() {
		return nil, apperror.ErrInvalidInput("quantity must be positive")
	}
	if req.Proceeds.IsNegative() {
		return nil, apperror.ErrInvalidInput("proceeds must not be negative")
	}

	cgtTable, err := s.flatTable(ctx, domain.TaxTypeCapitalGains)
	if err != nil {
		return nil, err
	}
	cgtRate, err := cgtTable.FlatRate()
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	lots, err := s.lotRepo.ListOpenForUpdate(ctx, dbTx, req.OwnerID, req.Asset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock lots: %w", err))
	}

	outstanding := req.Quantity
	var costBasis domain.Money
	consumed := 0
	for i := range lots {
		if !outstanding.IsPositive() {
			break
		}
		lot := &lots[i]
		take := decimal.Min(lot.RemainingQty, outstanding)
		costBasis = costBasis.Add(lot.UnitCost.MulQuantity(take))
		remaining := lot.RemainingQty.Sub(take)
		if err := s.lotRepo.UpdateRemaining(ctx, dbTx, lot.ID, remaining); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("consume lot %s: %w", lot.ID, err))
		}
		outstanding = outstanding.Sub(take)
		consumed++
	}

	if outstanding.IsPositive() {
		return nil, apperror.ErrInvalidInput(fmt.Sprintf("disposal of %s %s exceeds held quantity by %s", req.Quantity, req.Asset, outstanding))
	}

	realizedGain := req.Proceeds.Sub(costBasis)
	var taxDue domain.Money
	if !realizedGain.IsNegative() {
		taxDue = realizedGain.MulRate(cgtRate)
	}

	result := &domain.DisposalResult{
		Asset:        req.Asset,
		Quantity:     req.Quantity,
		Proceeds:     req.Proceeds,
		CostBasis:    costBasis,
		RealizedGain: realizedGain,
		TaxDue:       taxDue,
		RuleVersion:  cgtTable.Version,
		LotsConsumed: consumed,
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal disposal: %w", err))
	}
	// A disposal result is a computed gain, not ordinary income, so it
	// is stored under the calculation kind.
	rec := &domain.FinancialRecord{
		ID:        uuid.New(),
		Kind:      domain.RecordKindCalculation,
		OwnerID:   req.OwnerID,
		Payload:   payload,
		Status:    domain.RecordStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.recordRepo.Create(ctx, dbTx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create disposal record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventDisposalApplied,
		ActorID:    req.ActorID,
		EntityType: "record",
		EntityID:   rec.ID.String(),
		Details:    fmt.Sprintf(`{"asset":%q,"realized_gain":%d,"tax_due":%d}`, req.Asset, realizedGain, taxDue),
	})

	s.log.Info().
		Str("asset", req.Asset).
		Str("quantity", req.Quantity.String()).
		Int64("realized_gain", realizedGain.Int64()).
		Int64("tax_due", taxDue.Int64()).
		Int("lots_consumed", consumed).
		Msg("disposal applied")

	return result, nil
}

// RecordIncomeEvent handles mining/staking/airdrop-class events, which
// bypass FIFO matching and are taxed as ordinary income at the
// configured crypto-income flat rate.
func (s *CostBasisServiceImpl) RecordIncomeEvent(ctx context.Context, req ports.IncomeEventRequest) (*ports.IncomeEventResponse, error) {
	if req.Value.IsNegative() {
		return nil, apperror.ErrInvalidInput("income value must not be negative")
	}

	table, err := s.flatTable(ctx, domain.TaxTypeCryptoIncome)
	if err != nil {
		return nil, err
	}
	incomeRate, err := table.FlatRate()
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	taxDue := req.Value.MulRate(incomeRate)

	payload, err := json.Marshal(map[string]any{
		"asset":        req.Asset,
		"source":       req.Source,
		"value":        req.Value,
		"tax_due":      taxDue,
		"rule_version": table.Version,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal income event: %w", err))
	}

	rec := &domain.FinancialRecord{
		ID:        uuid.New(),
		Kind:      domain.RecordKindIncome,
		OwnerID:   req.OwnerID,
		Payload:   payload,
		Status:    domain.RecordStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.recordRepo.Create(ctx, dbTx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create income record: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventRecordCreated,
		ActorID:    req.ActorID,
		EntityType: "record",
		EntityID:   rec.ID.String(),
		Details:    fmt.Sprintf(`{"source":%q,"value":%d,"tax_due":%d}`, req.Source, req.Value, taxDue),
	})

	s.log.Info().
		Str("record_id", rec.ID.String()).
		Str("source", req.Source).
		Int64("value", req.Value.Int64()).
		Int64("tax_due", taxDue.Int64()).
		Msg("income event recorded")

	return &ports.IncomeEventResponse{
		RecordID:    rec.ID,
		Value:       req.Value,
		TaxDue:      taxDue,
		RuleVersion: table.Version,
	}, nil
}

// flatTable resolves the active flat-rate table for a tax type.
func (s *CostBasisServiceImpl) flatTable(ctx context.Context, taxType domain.TaxType) (*domain.RuleTable, error) {
	table, err := s.ruleRepo.GetActive(ctx, taxType, time.Now().UTC())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get %s table: %w", taxType, err))
	}
	if table == nil {
		return nil, apperror.ErrRuleTableNotFound(string(taxType))
	}
	return table, nil
}

func (s *CostBasisServiceImpl) appendAudit(ctx context.Context, req ports.AppendRequest) bool {
	if s.ledger == nil {
		return false
	}
	if _, err := s.ledger.Append(ctx, req); err != nil {
		s.log.Warn().Err(err).Str("event", string(req.Event)).Msg("failed to append audit entry")
		return false
	}
	return true
}
