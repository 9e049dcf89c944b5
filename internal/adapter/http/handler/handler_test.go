package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taxcore/internal/adapter/http/dto"
	"taxcore/internal/adapter/http/middleware"
	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/internal/core/ports/mocks"
	"taxcore/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func i64(v int64) *int64 { return &v }

// --- Tax Handler Tests ---

func TestCompute_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	actorID := uuid.New()
	ownerID := uuid.New()
	recordID := uuid.New()

	mockTax.EXPECT().Compute(gomock.Any(), ports.ComputeRequest{
		ActorID:       actorID,
		OwnerID:       ownerID,
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: domain.Money(3_000_000),
	}).Return(&ports.ComputeResponse{
		RecordID: recordID,
		Result: &domain.CalculationResult{
			TaxType:          domain.TaxTypePersonalIncome,
			RuleVersion:      1,
			TaxableAmount:    3_000_000,
			TotalLiability:   330_000,
			MonthlyLiability: 27_500,
			EffectiveRateBps: 1100,
			Breakdown: []domain.BandBreakdown{
				{Label: "Band 1", AmountTaxed: 800_000, Rate: decimal.Zero, TaxForBand: 0},
				{Label: "Band 2", AmountTaxed: 2_200_000, Rate: decimal.RequireFromString("0.15"), TaxForBand: 330_000},
			},
		},
		AuditLogged: true,
	}, nil)

	body, _ := json.Marshal(dto.ComputeTaxRequest{
		OwnerID:       ownerID.String(),
		TaxType:       "PERSONAL_INCOME",
		TaxableAmount: i64(3_000_000),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, actorID)

	h.Compute(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, recordID.String(), data["record_id"])
	assert.Equal(t, float64(330_000), data["total_liability"])
	assert.Equal(t, float64(27_500), data["monthly_liability"])
	assert.Equal(t, float64(1100), data["effective_rate_bps"])
	assert.True(t, data["audit_logged"].(bool))
}

func TestCompute_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.Compute(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompute_MissingActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Compute(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompute_RuleTableMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	mockTax.EXPECT().Compute(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrRuleTableNotFound("PERSONAL_INCOME"))

	body, _ := json.Marshal(dto.ComputeTaxRequest{
		OwnerID:       uuid.New().String(),
		TaxType:       "PERSONAL_INCOME",
		TaxableAmount: i64(1000),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.Compute(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetActiveTable_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	width := domain.Money(800_000)
	mockTax.EXPECT().GetActiveTable(gomock.Any(), domain.TaxTypePersonalIncome).Return(&domain.RuleTable{
		TaxType:        domain.TaxTypePersonalIncome,
		Version:        2,
		EffectiveDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LegalReference: "Finance Act 2025 s.12",
		Bands: []domain.Band{
			{Label: "Tax free", Width: &width, Rate: decimal.Zero},
			{Label: "Top band", Rate: decimal.RequireFromString("0.24")},
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "tax_type", Value: "PERSONAL_INCOME"}}

	h.GetActiveTable(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["version"])
	bands := data["bands"].([]interface{})
	require.Len(t, bands, 2)
	last := bands[1].(map[string]interface{})
	assert.Nil(t, last["width"])
	assert.Equal(t, "0.24", last["rate"])
}

func TestGetActiveTable_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "tax_type", Value: "WEALTH"}}

	h.GetActiveTable(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishTable_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	actorID := uuid.New()
	mockTax.EXPECT().PublishTable(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.PublishTableRequest) (*domain.RuleTable, error) {
			assert.Equal(t, actorID, req.ActorID)
			assert.Equal(t, domain.TaxTypeCapitalGains, req.TaxType)
			require.Len(t, req.Bands, 1)
			assert.True(t, req.Bands[0].Unbounded())
			return &domain.RuleTable{
				TaxType:        req.TaxType,
				Version:        req.Version,
				EffectiveDate:  req.EffectiveDate,
				LegalReference: req.LegalReference,
				Bands:          req.Bands,
			}, nil
		})

	body, _ := json.Marshal(dto.PublishTableRequest{
		TaxType:        "CAPITAL_GAINS",
		Version:        1,
		EffectiveDate:  "2026-01-01T00:00:00Z",
		LegalReference: "Finance Act 2025 s.30",
		Bands: []dto.BandRequest{
			{Label: "Flat", Rate: "0.10"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, actorID)

	h.PublishTable(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPublishTable_BadEffectiveDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTax := mocks.NewMockTaxService(ctrl)
	h := NewTaxHandler(mockTax)

	body, _ := json.Marshal(dto.PublishTableRequest{
		TaxType:        "CAPITAL_GAINS",
		Version:        1,
		EffectiveDate:  "01/01/2026",
		LegalReference: "Finance Act 2025 s.30",
		Bands:          []dto.BandRequest{{Label: "Flat", Rate: "0.10"}},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.PublishTable(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Asset Handler Tests ---

func TestRecordAcquisition_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCB := mocks.NewMockCostBasisService(ctrl)
	h := NewAssetHandler(mockCB)

	actorID := uuid.New()
	ownerID := uuid.New()
	lotID := uuid.New()
	now := time.Now()

	mockCB.EXPECT().RecordAcquisition(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.AcquisitionRequest) (*domain.CostBasisLot, error) {
			assert.Equal(t, actorID, req.ActorID)
			assert.Equal(t, "BTC", req.Asset)
			assert.True(t, req.Quantity.Equal(decimal.RequireFromString("2")))
			return &domain.CostBasisLot{
				ID:           lotID,
				OwnerID:      ownerID,
				Asset:        "BTC",
				Quantity:     req.Quantity,
				RemainingQty: req.Quantity,
				UnitCost:     100_000,
				AcquiredAt:   now,
			}, nil
		})

	body, _ := json.Marshal(dto.AcquisitionRequest{
		OwnerID:  ownerID.String(),
		Asset:    "BTC",
		Quantity: "2",
		UnitCost: 100_000,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, actorID)

	h.RecordAcquisition(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, lotID.String(), data["id"])
	assert.Equal(t, "2", data["remaining_qty"])
}

func TestRecordAcquisition_BadQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCB := mocks.NewMockCostBasisService(ctrl)
	h := NewAssetHandler(mockCB)

	body, _ := json.Marshal(dto.AcquisitionRequest{
		OwnerID:  uuid.New().String(),
		Asset:    "BTC",
		Quantity: "two",
		UnitCost: 100_000,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.RecordAcquisition(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyDisposal_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCB := mocks.NewMockCostBasisService(ctrl)
	h := NewAssetHandler(mockCB)

	actorID := uuid.New()
	ownerID := uuid.New()

	mockCB.EXPECT().ApplyDisposal(gomock.Any(), gomock.Any()).Return(&domain.DisposalResult{
		Asset:        "BTC",
		Quantity:     decimal.RequireFromString("1"),
		Proceeds:     15_000,
		CostBasis:    10_000,
		RealizedGain: 5_000,
		TaxDue:       500,
		RuleVersion:  1,
		LotsConsumed: 1,
	}, nil)

	body, _ := json.Marshal(dto.DisposalRequest{
		OwnerID:  ownerID.String(),
		Asset:    "BTC",
		Quantity: "1",
		Proceeds: i64(15_000),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, actorID)

	h.ApplyDisposal(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(5_000), data["realized_gain"])
	assert.Equal(t, float64(500), data["tax_due"])
	assert.Equal(t, float64(1), data["lots_consumed"])
}

func TestApplyDisposal_InsufficientQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCB := mocks.NewMockCostBasisService(ctrl)
	h := NewAssetHandler(mockCB)

	mockCB.EXPECT().ApplyDisposal(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInvalidInput("insufficient quantity"))

	body, _ := json.Marshal(dto.DisposalRequest{
		OwnerID:  uuid.New().String(),
		Asset:    "BTC",
		Quantity: "50",
		Proceeds: i64(15_000),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.ApplyDisposal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordIncomeEvent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCB := mocks.NewMockCostBasisService(ctrl)
	h := NewAssetHandler(mockCB)

	recordID := uuid.New()
	mockCB.EXPECT().RecordIncomeEvent(gomock.Any(), gomock.Any()).Return(&ports.IncomeEventResponse{
		RecordID:    recordID,
		Value:       10_000,
		TaxDue:      2_000,
		RuleVersion: 1,
	}, nil)

	body, _ := json.Marshal(dto.IncomeEventRequest{
		OwnerID: uuid.New().String(),
		Asset:   "ETH",
		Source:  "STAKING",
		Value:   i64(10_000),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.RecordIncomeEvent(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, recordID.String(), data["record_id"])
	assert.Equal(t, float64(2_000), data["tax_due"])
}

// --- Record Handler Tests ---

func TestCreateRecord_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	actorID := uuid.New()
	ownerID := uuid.New()
	recID := uuid.New()
	now := time.Now()

	mockCorr.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(&domain.FinancialRecord{
		ID:        recID,
		Kind:      domain.RecordKindIncome,
		OwnerID:   ownerID,
		Payload:   json.RawMessage(`{"amount":50000}`),
		Status:    domain.RecordStatusActive,
		CreatedAt: now,
	}, nil)

	body, _ := json.Marshal(dto.CreateRecordRequest{
		OwnerID: ownerID.String(),
		Kind:    "INCOME",
		Payload: json.RawMessage(`{"amount":50000}`),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, actorID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, recID.String(), data["id"])
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestCreateRecord_RejectsCalculationKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	body, _ := json.Marshal(dto.CreateRecordRequest{
		OwnerID: uuid.New().String(),
		Kind:    "CALCULATION",
		Payload: json.RawMessage(`{}`),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorrect_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	actorID := uuid.New()
	originalID := uuid.New()
	successorID := uuid.New()
	now := time.Now()

	mockCorr.EXPECT().Correct(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.CorrectionRequest) (*domain.FinancialRecord, error) {
			assert.Equal(t, originalID, req.OriginalID)
			return &domain.FinancialRecord{
				ID:           successorID,
				Kind:         domain.RecordKindIncome,
				OwnerID:      uuid.New(),
				Payload:      req.Payload,
				Status:       domain.RecordStatusActive,
				SupersedesID: &originalID,
				CreatedAt:    now,
			}, nil
		})

	body, _ := json.Marshal(dto.CorrectionRequest{Payload: json.RawMessage(`{"amount":60000}`)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: originalID.String()}}
	c.Set(middleware.CtxActorID, actorID)

	h.Correct(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, successorID.String(), data["id"])
	assert.Equal(t, originalID.String(), data["supersedes_id"])
}

func TestCorrect_AlreadySuperseded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	mockCorr.EXPECT().Correct(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadySuperseded())

	body, _ := json.Marshal(dto.CorrectionRequest{Payload: json.RawMessage(`{}`)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxActorID, uuid.New())

	h.Correct(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REC_002", resp["error_code"])
}

func TestFinalize_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	actorID := uuid.New()
	calcID := uuid.New()

	mockCorr.EXPECT().Finalize(gomock.Any(), calcID, actorID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: calcID.String()}}
	c.Set(middleware.CtxActorID, actorID)

	h.Finalize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "FINALIZED", data["status"])
}

func TestFinalize_AlreadyFinalized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	mockCorr.EXPECT().Finalize(gomock.Any(), gomock.Any(), gomock.Any()).Return(apperror.ErrAlreadyFinalized())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxActorID, uuid.New())

	h.Finalize(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetHistory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	headID := uuid.New()
	prevID := uuid.New()
	now := time.Now()

	mockCorr.EXPECT().GetHistory(gomock.Any(), headID).Return([]domain.FinancialRecord{
		{ID: headID, Kind: domain.RecordKindIncome, OwnerID: uuid.New(), Status: domain.RecordStatusActive, SupersedesID: &prevID, CreatedAt: now},
		{ID: prevID, Kind: domain.RecordKindIncome, OwnerID: uuid.New(), Status: domain.RecordStatusSuperseded, CreatedAt: now.Add(-time.Hour)},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: headID.String()}}

	h.GetHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 2)
	head := items[0].(map[string]interface{})
	assert.Equal(t, headID.String(), head["id"])
}

func TestListRecords_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	ownerID := uuid.New()
	now := time.Now()

	mockCorr.EXPECT().ListRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.RecordListParams) ([]domain.FinancialRecord, int64, error) {
			assert.Equal(t, ownerID, params.OwnerID)
			require.NotNil(t, params.Kind)
			assert.Equal(t, domain.RecordKindIncome, *params.Kind)
			return []domain.FinancialRecord{
				{ID: uuid.New(), Kind: domain.RecordKindIncome, OwnerID: ownerID, Status: domain.RecordStatusActive, CreatedAt: now},
			}, 1, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?owner_id="+ownerID.String()+"&kind=INCOME&page=1&page_size=20", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListRecords_MissingOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCorr := mocks.NewMockCorrectionService(ctrl)
	h := NewRecordHandler(mockCorr)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Ledger Handler Tests ---

func TestListRecentAudit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	now := time.Now()
	mockLedger.EXPECT().ListRecent(gomock.Any(), 100).Return([]domain.LedgerEntry{
		{Sequence: 2, ID: uuid.New(), Event: domain.LedgerEventRecordCorrected, ActorID: uuid.New(), CreatedAt: now, PrevHash: "aa", Hash: "bb"},
		{Sequence: 1, ID: uuid.New(), Event: domain.LedgerEventRecordCreated, ActorID: uuid.New(), CreatedAt: now, PrevHash: domain.GenesisHash, Hash: "aa"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.ListRecent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "RECORD_CORRECTED", first["event"])
}

func TestVerifyAudit_Valid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().VerifyIntegrity(gomock.Any()).Return(&domain.IntegrityReport{
		Valid:         true,
		Entries:       42,
		BrokenAtIndex: -1,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.True(t, data["valid"].(bool))
	assert.Equal(t, float64(42), data["entries"])
}

func TestVerifyAudit_Broken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().VerifyIntegrity(gomock.Any()).Return(&domain.IntegrityReport{
		Valid:         false,
		Entries:       42,
		BrokenAtIndex: 7,
		Reason:        "hash mismatch",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.False(t, data["valid"].(bool))
	assert.Equal(t, float64(7), data["broken_at_index"])
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
