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

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	repo       ports.LedgerRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(repo ports.LedgerRepository, transactor ports.DBTransactor, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{repo: repo, transactor: transactor, log: log}
}

// Append links a new entry to the chain tail. The tail row lock inside
// the transaction serializes concurrent appends so hashes always chain
// without gaps or forks.
func (s *LedgerServiceImpl) Append(ctx context.Context, req ports.AppendRequest) (*domain.LedgerEntry, error) {
	if req.Event == "" {
		return nil, apperror.ErrInvalidInput("event type must not be empty")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	tail, err := s.repo.GetTailForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock ledger tail: %w", err))
	}

	prevHash := domain.GenesisHash
	var seq int64
	if tail != nil {
		prevHash = tail.Hash
		seq = tail.Sequence + 1
	}

	entry := &domain.LedgerEntry{
		ID:         uuid.New(),
		Sequence:   seq,
		Event:      req.Event,
		ActorID:    req.ActorID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Details:    req.Details,
		CreatedAt:  time.Now().UTC(),
		PrevHash:   prevHash,
	}
	entry.Hash = entry.ComputeHash()

	if err := s.repo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Debug().
		Int64("sequence", entry.Sequence).
		Str("event", string(entry.Event)).
		Str("entity_id", entry.EntityID).
		Msg("ledger entry appended")

	return entry, nil
}

// VerifyIntegrity recomputes every entry's hash and checks linkage to
// its predecessor. It reports the first broken index and never attempts
// to repair the chain.
func (s *LedgerServiceImpl) VerifyIntegrity(ctx context.Context) (*domain.IntegrityReport, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger: %w", err))
	}

	report := &domain.IntegrityReport{Valid: true, Entries: int64(len(entries)), BrokenAtIndex: -1}

	prevHash := domain.GenesisHash
	for i := range entries {
		e := &entries[i]
		if e.PrevHash != prevHash {
			report.Valid = false
			report.BrokenAtIndex = int64(i)
			report.Reason = fmt.Sprintf("entry %d: previous-hash linkage broken", i)
			break
		}
		if recomputed := e.ComputeHash(); recomputed != e.Hash {
			report.Valid = false
			report.BrokenAtIndex = int64(i)
			report.Reason = fmt.Sprintf("entry %d: stored hash does not match recomputation", i)
			break
		}
		prevHash = e.Hash
	}

	if !report.Valid {
		s.log.Error().
			Int64("broken_at", report.BrokenAtIndex).
			Str("reason", report.Reason).
			Msg("audit ledger integrity violation")
	}

	return report, nil
}

// ListRecent returns the newest entries, newest first.
func (s *LedgerServiceImpl) ListRecent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list recent ledger entries: %w", err))
	}
	return entries, nil
}
