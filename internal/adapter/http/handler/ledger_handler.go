package handler

import (
	"strconv"
	"time"

	"taxcore/internal/adapter/http/dto"
	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles audit ledger endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// ListRecent handles GET /api/v1/audit.
func (h *LedgerHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.ledgerSvc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerEntryResponse(&entries[i]))
	}
	response.OK(c, items)
}

// Verify handles GET /api/v1/audit/verify. It walks the full chain and
// reports the first break, if any.
func (h *LedgerHandler) Verify(c *gin.Context) {
	report, err := h.ledgerSvc.VerifyIntegrity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.IntegrityResponse{
		Valid:         report.Valid,
		Entries:       report.Entries,
		BrokenAtIndex: report.BrokenAtIndex,
		Reason:        report.Reason,
	})
}

// toLedgerEntryResponse converts domain.LedgerEntry to DTO.
func toLedgerEntryResponse(e *domain.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		Sequence:   e.Sequence,
		ID:         e.ID.String(),
		Event:      string(e.Event),
		ActorID:    e.ActorID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339Nano),
		PrevHash:   e.PrevHash,
		Hash:       e.Hash,
	}
}
