package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxType identifies a tax category with its own rule tables.
type TaxType string

const (
	TaxTypePersonalIncome TaxType = "PERSONAL_INCOME"
	TaxTypeCapitalGains   TaxType = "CAPITAL_GAINS"
	TaxTypeCryptoIncome   TaxType = "CRYPTO_INCOME"
)

// Band is a contiguous width of income taxed at a single rate.
// Width is the cumulative width of the band in minor units, not an
// absolute ceiling; a nil Width marks the final, unbounded band.
type Band struct {
	Label string          `json:"label"`
	Width *Money          `json:"width,omitempty"`
	Rate  decimal.Decimal `json:"rate"`
}

// Unbounded reports whether the band has no upper width.
func (b Band) Unbounded() bool {
	return b.Width == nil
}

// RuleTable is an immutable, versioned, effective-dated set of tax
// bands for one tax type. A legal change produces a new version, never
// an edit to a published table.
type RuleTable struct {
	TaxType        TaxType   `json:"tax_type"`
	Version        int       `json:"version"`
	EffectiveDate  time.Time `json:"effective_date"`
	LegalReference string    `json:"legal_reference"`
	Bands          []Band    `json:"bands"`
}

var (
	rateZero = decimal.Zero
	rateOne  = decimal.NewFromInt(1)
)

// Validate rejects malformed tables before they can reach the engine.
// Bands must be non-empty, every rate in [0,1], every bounded width
// positive, and only the final band may be unbounded.
func (t *RuleTable) Validate() error {
	if t.TaxType == "" {
		return fmt.Errorf("rule table missing tax type")
	}
	if t.Version <= 0 {
		return fmt.Errorf("rule table %s: version must be positive, got %d", t.TaxType, t.Version)
	}
	if len(t.Bands) == 0 {
		return fmt.Errorf("rule table %s v%d: no bands", t.TaxType, t.Version)
	}
	for i, b := range t.Bands {
		if b.Label == "" {
			return fmt.Errorf("rule table %s v%d: band %d has no label", t.TaxType, t.Version, i)
		}
		if b.Rate.LessThan(rateZero) || b.Rate.GreaterThan(rateOne) {
			return fmt.Errorf("rule table %s v%d: band %q rate %s outside [0,1]", t.TaxType, t.Version, b.Label, b.Rate)
		}
		if b.Unbounded() {
			if i != len(t.Bands)-1 {
				return fmt.Errorf("rule table %s v%d: unbounded band %q is not last", t.TaxType, t.Version, b.Label)
			}
			continue
		}
		if *b.Width <= 0 {
			return fmt.Errorf("rule table %s v%d: band %q width %d not positive", t.TaxType, t.Version, b.Label, *b.Width)
		}
	}
	return nil
}

// FlatRate returns the single rate of a one-band table. Flat-rate
// categories (capital gains, crypto income) are modeled as a table with
// one unbounded band so they version and audit like progressive ones.
func (t *RuleTable) FlatRate() (decimal.Decimal, error) {
	if len(t.Bands) != 1 || !t.Bands[0].Unbounded() {
		return decimal.Zero, fmt.Errorf("rule table %s v%d is not flat-rate", t.TaxType, t.Version)
	}
	return t.Bands[0].Rate, nil
}
