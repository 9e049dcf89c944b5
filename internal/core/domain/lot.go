package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostBasisLot is a parcel of a fungible asset acquired at a fixed
// per-unit cost. Buy-class transactions create lots; later disposals
// consume them oldest-first.
type CostBasisLot struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Asset        string          `json:"asset"`
	Quantity     decimal.Decimal `json:"quantity"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	UnitCost     Money           `json:"unit_cost"` // minor units per whole unit
	AcquiredAt   time.Time       `json:"acquired_at"`
}

// Exhausted reports whether the lot has been fully consumed.
func (l *CostBasisLot) Exhausted() bool {
	return l.RemainingQty.LessThanOrEqual(decimal.Zero)
}
