package handler

import (
	"math"
	"strconv"
	"time"

	"taxcore/internal/adapter/http/dto"
	"taxcore/internal/adapter/http/middleware"
	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/pkg/apperror"
	"taxcore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordHandler handles financial record lifecycle endpoints.
type RecordHandler struct {
	correctionSvc ports.CorrectionService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(correctionSvc ports.CorrectionService) *RecordHandler {
	return &RecordHandler{correctionSvc: correctionSvc}
}

// Create handles POST /api/v1/records.
func (h *RecordHandler) Create(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid owner_id"))
		return
	}

	rec, err := h.correctionSvc.CreateRecord(c.Request.Context(), ports.CreateRecordRequest{
		ActorID: actorID,
		OwnerID: ownerID,
		Kind:    domain.RecordKind(req.Kind),
		Payload: req.Payload,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRecordResponse(rec))
}

// Correct handles POST /api/v1/records/:id/corrections.
func (h *RecordHandler) Correct(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	originalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid record id"))
		return
	}

	var req dto.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	successor, err := h.correctionSvc.Correct(c.Request.Context(), ports.CorrectionRequest{
		ActorID:    actorID,
		OriginalID: originalID,
		Payload:    req.Payload,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRecordResponse(successor))
}

// Finalize handles POST /api/v1/records/:id/finalize.
func (h *RecordHandler) Finalize(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid record id"))
		return
	}

	if err := h.correctionSvc.Finalize(c.Request.Context(), id, actorID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"id": id.String(), "status": string(domain.RecordStatusFinalized)})
}

// GetHistory handles GET /api/v1/records/:id/history.
func (h *RecordHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid record id"))
		return
	}

	history, err := h.correctionSvc.GetHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RecordResponse, 0, len(history))
	for i := range history {
		items = append(items, toRecordResponse(&history[i]))
	}
	response.OK(c, items)
}

// List handles GET /api/v1/records.
func (h *RecordHandler) List(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("owner_id query parameter is required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	params := ports.RecordListParams{
		OwnerID:  ownerID,
		Page:     page,
		PageSize: pageSize,
	}

	if k := c.Query("kind"); k != "" {
		kind := domain.RecordKind(k)
		params.Kind = &kind
	}
	if s := c.Query("status"); s != "" {
		status := domain.RecordStatus(s)
		params.Status = &status
	}

	records, total, err := h.correctionSvc.ListRecords(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		items = append(items, toRecordResponse(&records[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.RecordListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// toRecordResponse converts domain.FinancialRecord to DTO.
func toRecordResponse(rec *domain.FinancialRecord) dto.RecordResponse {
	resp := dto.RecordResponse{
		ID:        rec.ID.String(),
		Kind:      string(rec.Kind),
		OwnerID:   rec.OwnerID.String(),
		Payload:   rec.Payload,
		Status:    string(rec.Status),
		Finalized: rec.Finalized,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.SupersedesID != nil {
		s := rec.SupersedesID.String()
		resp.SupersedesID = &s
	}
	if rec.StatusAt != nil {
		s := rec.StatusAt.Format(time.RFC3339)
		resp.StatusAt = &s
	}
	return resp
}
