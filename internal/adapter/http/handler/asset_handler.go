package handler

import (
	"time"

	"taxcore/internal/adapter/http/dto"
	"taxcore/internal/adapter/http/middleware"
	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/pkg/apperror"
	"taxcore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetHandler handles cost-basis tracking endpoints.
type AssetHandler struct {
	costBasisSvc ports.CostBasisService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(costBasisSvc ports.CostBasisService) *AssetHandler {
	return &AssetHandler{costBasisSvc: costBasisSvc}
}

// RecordAcquisition handles POST /api/v1/assets/acquisitions.
func (h *AssetHandler) RecordAcquisition(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AcquisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid owner_id"))
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid quantity"))
		return
	}

	lot, err := h.costBasisSvc.RecordAcquisition(c.Request.Context(), ports.AcquisitionRequest{
		ActorID:  actorID,
		OwnerID:  ownerID,
		Asset:    req.Asset,
		Quantity: quantity,
		UnitCost: domain.Money(req.UnitCost),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.LotResponse{
		ID:           lot.ID.String(),
		Asset:        lot.Asset,
		Quantity:     lot.Quantity.String(),
		RemainingQty: lot.RemainingQty.String(),
		UnitCost:     lot.UnitCost.Int64(),
		AcquiredAt:   lot.AcquiredAt.Format(time.RFC3339),
	})
}

// ApplyDisposal handles POST /api/v1/assets/disposals.
func (h *AssetHandler) ApplyDisposal(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DisposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid owner_id"))
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid quantity"))
		return
	}

	result, err := h.costBasisSvc.ApplyDisposal(c.Request.Context(), ports.DisposalRequest{
		ActorID:  actorID,
		OwnerID:  ownerID,
		Asset:    req.Asset,
		Quantity: quantity,
		Proceeds: domain.Money(*req.Proceeds),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.DisposalResponse{
		Asset:        result.Asset,
		Quantity:     result.Quantity.String(),
		Proceeds:     result.Proceeds.Int64(),
		CostBasis:    result.CostBasis.Int64(),
		RealizedGain: result.RealizedGain.Int64(),
		TaxDue:       result.TaxDue.Int64(),
		RuleVersion:  result.RuleVersion,
		LotsConsumed: result.LotsConsumed,
	})
}

// RecordIncomeEvent handles POST /api/v1/assets/income.
func (h *AssetHandler) RecordIncomeEvent(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.IncomeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid owner_id"))
		return
	}

	result, err := h.costBasisSvc.RecordIncomeEvent(c.Request.Context(), ports.IncomeEventRequest{
		ActorID: actorID,
		OwnerID: ownerID,
		Asset:   req.Asset,
		Source:  req.Source,
		Value:   domain.Money(*req.Value),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.IncomeEventResponse{
		RecordID:    result.RecordID.String(),
		Value:       result.Value.Int64(),
		TaxDue:      result.TaxDue.Int64(),
		RuleVersion: result.RuleVersion,
	})
}
