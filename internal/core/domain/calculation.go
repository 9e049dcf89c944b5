package domain

import (
	"github.com/shopspring/decimal"
)

// BandBreakdown is one line of a progressive tax computation: the slice
// of income taxed in a band, the band's rate and the tax it produced.
type BandBreakdown struct {
	Label       string          `json:"label"`
	AmountTaxed Money           `json:"amount_taxed"`
	Rate        decimal.Decimal `json:"rate"`
	TaxForBand  Money           `json:"tax_for_band"`
}

// CalculationResult is the outcome of applying a rule table to a
// taxable amount. It is stored as the payload of a CALCULATION record
// and never mutated after creation.
type CalculationResult struct {
	TaxType          TaxType         `json:"tax_type"`
	RuleVersion      int             `json:"rule_version"`
	TaxableAmount    Money           `json:"taxable_amount"`
	TotalLiability   Money           `json:"total_liability"`
	MonthlyLiability Money           `json:"monthly_liability"`
	Breakdown        []BandBreakdown `json:"breakdown"`
	EffectiveRateBps int64           `json:"effective_rate_bps"`
}

// DisposalResult is the outcome of a FIFO cost-basis disposal.
type DisposalResult struct {
	Asset        string          `json:"asset"`
	Quantity     decimal.Decimal `json:"quantity"`
	Proceeds     Money           `json:"proceeds"`
	CostBasis    Money           `json:"cost_basis"`
	RealizedGain Money           `json:"realized_gain"`
	TaxDue       Money           `json:"tax_due"`
	RuleVersion  int             `json:"rule_version"`
	LotsConsumed int             `json:"lots_consumed"`
}
