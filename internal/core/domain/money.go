package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount of currency counted in minor units (e.g. kobo).
// All monetary arithmetic happens on this integer type; floating point
// never represents money anywhere in the system.
type Money int64

// Zero is the additive identity.
const Zero Money = 0

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return m - other
}

// SubFloor returns m - other clamped at zero. Used where the domain
// requires non-negativity, e.g. taxable income after deductions.
func (m Money) SubFloor(other Money) Money {
	if other >= m {
		return 0
	}
	return m - other
}

// MulRate multiplies the amount by a decimal rate and rounds half-up
// (ties away from zero) to the nearest minor unit. The same rounding
// rule applies to every rate multiplication in the system so that
// per-band taxes sum exactly to the independently computed total.
func (m Money) MulRate(rate decimal.Decimal) Money {
	product := decimal.NewFromInt(int64(m)).Mul(rate).Round(0)
	return Money(product.IntPart())
}

// MulQuantity multiplies a per-unit amount by a fractional quantity,
// rounding half-up to the nearest minor unit.
func (m Money) MulQuantity(qty decimal.Decimal) Money {
	product := decimal.NewFromInt(int64(m)).Mul(qty).Round(0)
	return Money(product.IntPart())
}

// DivInt divides the amount by an integer divisor, truncating toward
// zero. Used for period amortization (e.g. monthly from annual).
// Division by zero returns zero.
func (m Money) DivInt(divisor int64) Money {
	if divisor == 0 {
		return 0
	}
	return Money(int64(m) / divisor)
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Int64 returns the raw minor-unit count.
func (m Money) Int64() int64 {
	return int64(m)
}

// EffectiveRateBps derives an effective rate in basis points from a tax
// liability over a taxable amount, using integer arithmetic only.
// Returns 0 when the taxable amount is zero.
func EffectiveRateBps(liability, taxable Money) int64 {
	if taxable == 0 {
		return 0
	}
	return int64(liability) * 10000 / int64(taxable)
}
