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

// TaxHandler handles tax computation and rule table endpoints.
type TaxHandler struct {
	taxSvc ports.TaxService
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxSvc ports.TaxService) *TaxHandler {
	return &TaxHandler{taxSvc: taxSvc}
}

// Compute handles POST /api/v1/tax/calculations.
func (h *TaxHandler) Compute(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ComputeTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("invalid owner_id"))
		return
	}

	result, err := h.taxSvc.Compute(c.Request.Context(), ports.ComputeRequest{
		ActorID:       actorID,
		OwnerID:       ownerID,
		TaxType:       domain.TaxType(req.TaxType),
		TaxableAmount: domain.Money(*req.TaxableAmount),
		RuleVersion:   req.RuleVersion,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toCalculationResponse(result))
}

// GetActiveTable handles GET /api/v1/rules/:tax_type.
func (h *TaxHandler) GetActiveTable(c *gin.Context) {
	taxType := domain.TaxType(c.Param("tax_type"))
	switch taxType {
	case domain.TaxTypePersonalIncome, domain.TaxTypeCapitalGains, domain.TaxTypeCryptoIncome:
	default:
		response.Error(c, apperror.ErrInvalidInput("unknown tax type"))
		return
	}

	table, err := h.taxSvc.GetActiveTable(c.Request.Context(), taxType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toRuleTableResponse(table))
}

// PublishTable handles POST /api/v1/rules.
func (h *TaxHandler) PublishTable(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PublishTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	effectiveDate, err := time.Parse(time.RFC3339, req.EffectiveDate)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("effective_date must be RFC 3339"))
		return
	}

	bands := make([]domain.Band, 0, len(req.Bands))
	for _, b := range req.Bands {
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			response.Error(c, apperror.ErrInvalidInput("invalid band rate"))
			return
		}
		band := domain.Band{Label: b.Label, Rate: rate}
		if b.Width != nil {
			w := domain.Money(*b.Width)
			band.Width = &w
		}
		bands = append(bands, band)
	}

	table, err := h.taxSvc.PublishTable(c.Request.Context(), ports.PublishTableRequest{
		ActorID:        actorID,
		TaxType:        domain.TaxType(req.TaxType),
		Version:        req.Version,
		EffectiveDate:  effectiveDate,
		LegalReference: req.LegalReference,
		Bands:          bands,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRuleTableResponse(table))
}

// toCalculationResponse converts a compute result to DTO.
func toCalculationResponse(resp *ports.ComputeResponse) dto.CalculationResponse {
	r := resp.Result
	breakdown := make([]dto.BandBreakdownResponse, 0, len(r.Breakdown))
	for _, b := range r.Breakdown {
		breakdown = append(breakdown, dto.BandBreakdownResponse{
			Label:       b.Label,
			AmountTaxed: b.AmountTaxed.Int64(),
			Rate:        b.Rate.String(),
			TaxForBand:  b.TaxForBand.Int64(),
		})
	}
	return dto.CalculationResponse{
		RecordID:         resp.RecordID.String(),
		TaxType:          string(r.TaxType),
		RuleVersion:      r.RuleVersion,
		TaxableAmount:    r.TaxableAmount.Int64(),
		TotalLiability:   r.TotalLiability.Int64(),
		MonthlyLiability: r.MonthlyLiability.Int64(),
		EffectiveRateBps: r.EffectiveRateBps,
		Breakdown:        breakdown,
		AuditLogged:      resp.AuditLogged,
	}
}

// toRuleTableResponse converts domain.RuleTable to DTO.
func toRuleTableResponse(t *domain.RuleTable) dto.RuleTableResponse {
	bands := make([]dto.BandResponse, 0, len(t.Bands))
	for _, b := range t.Bands {
		band := dto.BandResponse{Label: b.Label, Rate: b.Rate.String()}
		if b.Width != nil {
			w := b.Width.Int64()
			band.Width = &w
		}
		bands = append(bands, band)
	}
	return dto.RuleTableResponse{
		TaxType:        string(t.TaxType),
		Version:        t.Version,
		EffectiveDate:  t.EffectiveDate.Format(time.RFC3339),
		LegalReference: t.LegalReference,
		Bands:          bands,
	}
}
