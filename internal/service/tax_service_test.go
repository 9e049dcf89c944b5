package service

import (
	"context"
	"testing"
	"time"

	"taxcore/internal/core/domain"
	"taxcore/internal/core/ports"
	"taxcore/internal/core/ports/mocks"
	"taxcore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type taxTestDeps struct {
	svc        *TaxServiceImpl
	ruleRepo   *mocks.MockRuleTableRepository
	ruleCache  *mocks.MockRuleTableCache
	recordRepo *mocks.MockRecordRepository
	ledger     *mocks.MockLedgerService
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupTaxService(t *testing.T) *taxTestDeps {
	ctrl := gomock.NewController(t)
	d := &taxTestDeps{
		ruleRepo:   mocks.NewMockRuleTableRepository(ctrl),
		ruleCache:  mocks.NewMockRuleTableCache(ctrl),
		recordRepo: mocks.NewMockRecordRepository(ctrl),
		ledger:     mocks.NewMockLedgerService(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewTaxService(
		d.ruleRepo, d.ruleCache, d.recordRepo,
		d.ledger, d.transactor, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

func widthOf(m int64) *domain.Money {
	w := domain.Money(m)
	return &w
}

// incomeTableV1 mirrors the published personal income schedule:
// first 800,000 tax-free, next 2,200,000 at 15%, next 9,000,000 at 18%,
// everything above at 24%.
func incomeTableV1() *domain.RuleTable {
	return &domain.RuleTable{
		TaxType:        domain.TaxTypePersonalIncome,
		Version:        1,
		EffectiveDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LegalReference: "Finance Act 2025 s.12",
		Bands: []domain.Band{
			{Label: "Tax free", Width: widthOf(800_000), Rate: decimal.Zero},
			{Label: "First band", Width: widthOf(2_200_000), Rate: decimal.RequireFromString("0.15")},
			{Label: "Second band", Width: widthOf(9_000_000), Rate: decimal.RequireFromString("0.18")},
			{Label: "Top band", Rate: decimal.RequireFromString("0.24")},
		},
	}
}

// ==================== Compute Tests ====================

func TestTaxService_Compute_ActiveTable(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	ownerID := uuid.New()

	d.ruleRepo.EXPECT().GetActive(ctx, domain.TaxTypePersonalIncome, gomock.Any()).Return(incomeTableV1(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.recordRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Append(ctx, gomock.Any()).Return(&domain.LedgerEntry{}, nil)

	resp, err := d.svc.Compute(ctx, ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       ownerID,
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: 3_000_000,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEqual(t, uuid.Nil, resp.RecordID)
	assert.True(t, resp.AuditLogged)

	result := resp.Result
	assert.Equal(t, domain.Money(330_000), result.TotalLiability)
	assert.Equal(t, domain.Money(27_500), result.MonthlyLiability)
	assert.Equal(t, int64(1100), result.EffectiveRateBps)
	// Every consumed band appears, the tax-free one with zero tax.
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "Tax free", result.Breakdown[0].Label)
	assert.Equal(t, domain.Money(800_000), result.Breakdown[0].AmountTaxed)
	assert.Equal(t, domain.Money(0), result.Breakdown[0].TaxForBand)
	assert.Equal(t, "First band", result.Breakdown[1].Label)
	assert.Equal(t, domain.Money(2_200_000), result.Breakdown[1].AmountTaxed)
	assert.Equal(t, domain.Money(330_000), result.Breakdown[1].TaxForBand)
}

func TestTaxService_Compute_PinnedVersion_CacheMiss(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	table := incomeTableV1()

	d.ruleCache.EXPECT().Get(ctx, domain.TaxTypePersonalIncome, 1).Return(nil, nil)
	d.ruleRepo.EXPECT().GetByVersion(ctx, domain.TaxTypePersonalIncome, 1).Return(table, nil)
	d.ruleCache.EXPECT().Set(ctx, table, ruleTableCacheTTL).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.recordRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Append(ctx, gomock.Any()).Return(&domain.LedgerEntry{}, nil)

	resp, err := d.svc.Compute(ctx, ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       uuid.New(),
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: 1_000_000,
		RuleVersion:   1,
	})
	require.NoError(t, err)
	// 200,000 above the tax-free width, taxed at 15%.
	assert.Equal(t, domain.Money(30_000), resp.Result.TotalLiability)
}

func TestTaxService_Compute_PinnedVersion_CacheHit(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.ruleCache.EXPECT().Get(ctx, domain.TaxTypePersonalIncome, 1).Return(incomeTableV1(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.recordRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Append(ctx, gomock.Any()).Return(&domain.LedgerEntry{}, nil)

	resp, err := d.svc.Compute(ctx, ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       uuid.New(),
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: 500_000,
		RuleVersion:   1,
	})
	require.NoError(t, err)
	// Entirely inside the tax-free band.
	assert.Equal(t, domain.Money(0), resp.Result.TotalLiability)
	assert.Empty(t, resp.Result.Breakdown)
	assert.Equal(t, int64(0), resp.Result.EffectiveRateBps)
}

func TestTaxService_Compute_NegativeAmount(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	resp, err := d.svc.Compute(context.Background(), ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       uuid.New(),
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: -1,
	})
	assert.Nil(t, resp)
	assertAppError(t, err, "VAL_001")
}

func TestTaxService_Compute_RuleTableMissing(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ruleCache.EXPECT().Get(ctx, domain.TaxTypePersonalIncome, 9).Return(nil, nil)
	d.ruleRepo.EXPECT().GetByVersion(ctx, domain.TaxTypePersonalIncome, 9).Return(nil, nil)

	resp, err := d.svc.Compute(ctx, ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       uuid.New(),
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: 1_000_000,
		RuleVersion:   9,
	})
	assert.Nil(t, resp)
	assertAppError(t, err, "RULE_001")
}

func TestTaxService_Compute_AuditFailureIsNonFatal(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.ruleRepo.EXPECT().GetActive(ctx, domain.TaxTypePersonalIncome, gomock.Any()).Return(incomeTableV1(), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.recordRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Append(ctx, gomock.Any()).Return(nil, apperror.InternalError(assert.AnError))

	resp, err := d.svc.Compute(ctx, ports.ComputeRequest{
		ActorID:       uuid.New(),
		OwnerID:       uuid.New(),
		TaxType:       domain.TaxTypePersonalIncome,
		TaxableAmount: 3_000_000,
	})
	require.NoError(t, err)
	assert.False(t, resp.AuditLogged)
	assert.Equal(t, domain.Money(330_000), resp.Result.TotalLiability)
}

// ==================== PublishTable Tests ====================

func TestTaxService_PublishTable_Success(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	table := incomeTableV1()

	d.ruleRepo.EXPECT().Publish(ctx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Append(ctx, gomock.Any()).Return(&domain.LedgerEntry{}, nil)

	published, err := d.svc.PublishTable(ctx, ports.PublishTableRequest{
		ActorID:        uuid.New(),
		TaxType:        table.TaxType,
		Version:        table.Version,
		EffectiveDate:  table.EffectiveDate,
		LegalReference: table.LegalReference,
		Bands:          table.Bands,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, published.Version)
}

func TestTaxService_PublishTable_RejectsInvalidBands(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	published, err := d.svc.PublishTable(context.Background(), ports.PublishTableRequest{
		ActorID: uuid.New(),
		TaxType: domain.TaxTypePersonalIncome,
		Version: 2,
		Bands: []domain.Band{
			{Label: "Over unity", Rate: decimal.RequireFromString("1.5")},
		},
	})
	assert.Nil(t, published)
	assertAppError(t, err, "VAL_001")
}

// ==================== GetActiveTable Tests ====================

func TestTaxService_GetActiveTable_NotFound(t *testing.T) {
	d := setupTaxService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ruleRepo.EXPECT().GetActive(ctx, domain.TaxTypeCapitalGains, gomock.Any()).Return(nil, nil)

	table, err := d.svc.GetActiveTable(ctx, domain.TaxTypeCapitalGains)
	assert.Nil(t, table)
	assertAppError(t, err, "RULE_001")
}

// ==================== computeProgressive Tests ====================

func TestComputeProgressive_BandBoundaries(t *testing.T) {
	table := incomeTableV1()

	cases := []struct {
		name      string
		taxable   domain.Money
		liability domain.Money
		bands     int
	}{
		{"zero", 0, 0, 0},
		{"inside tax-free band", 799_999, 0, 0},
		{"exactly at tax-free width", 800_000, 0, 0},
		{"one unit into 15% band", 800_001, 0, 2}, // 1 @ 15% rounds to 0
		{"fills 15% band exactly", 3_000_000, 330_000, 2},
		{"reaches 18% band", 4_000_000, 510_000, 3},
		{"into unbounded band", 13_000_000, 2_190_000, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := computeProgressive(tc.taxable, table)
			require.NoError(t, err)
			assert.Equal(t, tc.liability, result.TotalLiability)
			assert.Len(t, result.Breakdown, tc.bands)
		})
	}
}

func TestComputeProgressive_BreakdownSumsToTotal(t *testing.T) {
	table := incomeTableV1()

	for _, taxable := range []domain.Money{1, 799_999, 800_001, 2_345_678, 9_999_999, 123_456_789} {
		result, err := computeProgressive(taxable, table)
		require.NoError(t, err)

		var sum domain.Money
		for _, line := range result.Breakdown {
			sum = sum.Add(line.TaxForBand)
		}
		assert.Equal(t, result.TotalLiability, sum, "taxable %d", taxable)
	}
}

func TestComputeProgressive_RejectsInvalidTable(t *testing.T) {
	_, err := computeProgressive(1000, &domain.RuleTable{
		TaxType: domain.TaxTypePersonalIncome,
		Version: 1,
	})
	assertAppError(t, err, "VAL_001")
}
