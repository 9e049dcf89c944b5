package service

import (
	"context"
	"fmt"
	"time"

	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// historyDepthLimit bounds the supersession walk. Chains are acyclic by
// construction; the limit only guards against corrupted storage.
const historyDepthLimit = 10000

// CorrectionServiceImpl implements ports.CorrectionService.
type CorrectionServiceImpl struct {
	recordRepo ports.RecordRepository
	ledger     ports.LedgerService
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewCorrectionService creates a new CorrectionServiceImpl.
func NewCorrectionService(
	recordRepo ports.RecordRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CorrectionServiceImpl {
	return &CorrectionServiceImpl{
		recordRepo: recordRepo,
		ledger:     ledger,
		transactor: transactor,
		log:        log,
	}
}

// CreateRecord persists a new income/expense record in ACTIVE state.
func (s *CorrectionServiceImpl) CreateRecord(ctx context.Context, req ports.CreateRecordRequest) (*domain.FinancialRecord, error) {
	if req.Kind != domain.RecordKindIncome && req.Kind != domain.RecordKindExpense {
		return nil, apperror.ErrInvalidInput(fmt.Sprintf("unsupported record kind %q", req.Kind))
	}
	if len(req.Payload) == 0 {
		return nil, apperror.ErrInvalidInput("payload must not be empty")
	}

	rec := &domain.FinancialRecord{
		ID:        uuid.New(),
		Kind:      req.Kind,
		OwnerID:   req.OwnerID,
		Payload:   req.Payload,
		Status:    domain.RecordStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.recordRepo.Create(ctx, dbTx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create record: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventRecordCreated,
		ActorID:    req.ActorID,
		EntityType: "record",
		EntityID:   rec.ID.String(),
		Details:    fmt.Sprintf(`{"kind":%q}`, rec.Kind),
	})

	s.log.Info().
		Str("record_id", rec.ID.String()).
		Str("kind", string(rec.Kind)).
		Msg("record created")

	return rec, nil
}

// Correct supersedes a record with a corrected successor. The insert of
// the successor and the status flip of the predecessor commit together
// or not at all; a concurrent correction loser observes
// AlreadySuperseded, never a duplicate-active or orphaned state.
func (s *CorrectionServiceImpl) Correct(ctx context.Context, req ports.CorrectionRequest) (*domain.FinancialRecord, error) {
	if len(req.Payload) == 0 {
		return nil, apperror.ErrInvalidInput("corrected payload must not be empty")
	}

	original, err := s.recordRepo.GetByID(ctx, req.OriginalID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch original: %w", err))
	}
	if original == nil {
		return nil, apperror.ErrRecordNotFound(req.OriginalID.String())
	}
	if original.IsSuperseded() {
		return nil, apperror.ErrAlreadySuperseded()
	}
	if original.Finalized || original.Status == domain.RecordStatusFinalized {
		return nil, apperror.ErrImmutable()
	}
	if original.Status != domain.RecordStatusActive {
		return nil, apperror.ErrNotCorrectable(string(original.Status))
	}

	now := time.Now().UTC()
	successor := &domain.FinancialRecord{
		ID:           uuid.New(),
		Kind:         original.Kind,
		OwnerID:      original.OwnerID,
		Payload:      req.Payload,
		Status:       domain.RecordStatusActive,
		SupersedesID: &req.OriginalID,
		CreatedAt:    now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.recordRepo.Create(ctx, dbTx, successor); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create successor: %w", err))
	}

	flipped, err := s.recordRepo.MarkSuperseded(ctx, dbTx, req.OriginalID, now)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("supersede original: %w", err))
	}
	if !flipped {
		// Lost the race: another correction flipped the original first.
		// Rolling back discards our successor, so the chain gains
		// exactly one new head.
		return nil, apperror.ErrAlreadySuperseded()
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventRecordCorrected,
		ActorID:    req.ActorID,
		EntityType: "record",
		EntityID:   successor.ID.String(),
		Details:    fmt.Sprintf(`{"supersedes":%q}`, req.OriginalID),
	})

	s.log.Info().
		Str("original_id", req.OriginalID.String()).
		Str("successor_id", successor.ID.String()).
		Msg("record corrected")

	return successor, nil
}

// Finalize locks a calculation permanently. The transition is one-way
// and independent of the supersession mechanism.
func (s *CorrectionServiceImpl) Finalize(ctx context.Context, calculationID, actorID uuid.UUID) error {
	rec, err := s.recordRepo.GetByID(ctx, calculationID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("fetch calculation: %w", err))
	}
	if rec == nil {
		return apperror.ErrRecordNotFound(calculationID.String())
	}
	if rec.Kind != domain.RecordKindCalculation {
		return apperror.ErrInvalidInput("only calculations can be finalized")
	}
	if rec.Finalized || rec.Status == domain.RecordStatusFinalized {
		return apperror.ErrAlreadyFinalized()
	}
	if rec.Status != domain.RecordStatusActive {
		return apperror.ErrNotCorrectable(string(rec.Status))
	}

	now := time.Now().UTC()
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	flipped, err := s.recordRepo.MarkFinalized(ctx, dbTx, calculationID, now)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("finalize calculation: %w", err))
	}
	if !flipped {
		return apperror.ErrTransactionConflict()
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendAudit(ctx, ports.AppendRequest{
		Event:      domain.LedgerEventCalcFinalized,
		ActorID:    actorID,
		EntityType: "record",
		EntityID:   calculationID.String(),
	})

	s.log.Info().Str("record_id", calculationID.String()).Msg("calculation finalized")
	return nil
}

// GetHistory walks the supersession chain backward from the given
// record to its root, newest first.
func (s *CorrectionServiceImpl) GetHistory(ctx context.Context, id uuid.UUID) ([]domain.FinancialRecord, error) {
	var history []domain.FinancialRecord

	cursor := &id
	for depth := 0; cursor != nil; depth++ {
		if depth >= historyDepthLimit {
			return nil, apperror.InternalError(fmt.Errorf("supersession chain exceeds %d records at %s", historyDepthLimit, id))
		}
		rec, err := s.recordRepo.GetByID(ctx, *cursor)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("fetch history record: %w", err))
		}
		if rec == nil {
			if depth == 0 {
				return nil, apperror.ErrRecordNotFound(id.String())
			}
			return nil, apperror.InternalError(fmt.Errorf("broken supersession link at %s", *cursor))
		}
		history = append(history, *rec)
		cursor = rec.SupersedesID
	}

	return history, nil
}

// ListRecords returns an owner's records with filtering and pagination.
func (s *CorrectionServiceImpl) ListRecords(ctx context.Context, params ports.RecordListParams) ([]domain.FinancialRecord, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}
	recs, total, err := s.recordRepo.ListByOwner(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list records: %w", err))
	}
	return recs, total, nil
}

func (s *CorrectionServiceImpl) appendAudit(ctx context.Context, req ports.AppendRequest) bool {
	if s.ledger == nil {
		return false
	}
	if _, err := s.ledger.Append(ctx, req); err != nil {
		s.log.Warn().Err(err).Str("event", string(req.Event)).Msg("failed to append audit entry")
		return false
	}
	return true
}
