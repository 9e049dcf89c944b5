package dto

import "encoding/json"

// ComputeTaxRequest is the request body for a tax computation.
type ComputeTaxRequest struct {
	OwnerID       string `json:"owner_id" binding:"required,uuid"`
	TaxType       string `json:"tax_type" binding:"required,oneof=PERSONAL_INCOME CAPITAL_GAINS CRYPTO_INCOME"`
	TaxableAmount *int64 `json:"taxable_amount" binding:"required"`
	RuleVersion   int    `json:"rule_version,omitempty" binding:"omitempty,gt=0"`
}

// BandRequest is one band of a rule table being published.
type BandRequest struct {
	Label string `json:"label" binding:"required,max=100"`
	Width *int64 `json:"width,omitempty" binding:"omitempty,gt=0"`
	Rate  string `json:"rate" binding:"required,rate"`
}

// PublishTableRequest is the request body for publishing a rule table.
type PublishTableRequest struct {
	TaxType        string        `json:"tax_type" binding:"required,oneof=PERSONAL_INCOME CAPITAL_GAINS CRYPTO_INCOME"`
	Version        int           `json:"version" binding:"required,gt=0"`
	EffectiveDate  string        `json:"effective_date" binding:"required"` // RFC 3339
	LegalReference string        `json:"legal_reference" binding:"required,max=200"`
	Bands          []BandRequest `json:"bands" binding:"required,min=1,dive"`
}

// AcquisitionRequest is the request body for recording an asset buy.
type AcquisitionRequest struct {
	OwnerID  string `json:"owner_id" binding:"required,uuid"`
	Asset    string `json:"asset" binding:"required,safe_id,max=20"`
	Quantity string `json:"quantity" binding:"required"` // decimal string
	UnitCost int64  `json:"unit_cost" binding:"required,gt=0"`
}

// DisposalRequest is the request body for recording an asset sell.
type DisposalRequest struct {
	OwnerID  string `json:"owner_id" binding:"required,uuid"`
	Asset    string `json:"asset" binding:"required,safe_id,max=20"`
	Quantity string `json:"quantity" binding:"required"` // decimal string
	Proceeds *int64 `json:"proceeds" binding:"required"`
}

// IncomeEventRequest is the request body for mining/staking/airdrop
// income that enters at fair market value.
type IncomeEventRequest struct {
	OwnerID string `json:"owner_id" binding:"required,uuid"`
	Asset   string `json:"asset" binding:"required,safe_id,max=20"`
	Source  string `json:"source" binding:"required,oneof=MINING STAKING AIRDROP"`
	Value   *int64 `json:"value" binding:"required"`
}

// CreateRecordRequest is the request body for a new financial record.
type CreateRecordRequest struct {
	OwnerID string          `json:"owner_id" binding:"required,uuid"`
	Kind    string          `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// CorrectionRequest is the request body for correcting a record.
type CorrectionRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// BandBreakdownResponse is one line of a computation breakdown.
type BandBreakdownResponse struct {
	Label       string `json:"label"`
	AmountTaxed int64  `json:"amount_taxed"`
	Rate        string `json:"rate"`
	TaxForBand  int64  `json:"tax_for_band"`
}

// CalculationResponse is the response body for a tax computation.
type CalculationResponse struct {
	RecordID         string                  `json:"record_id"`
	TaxType          string                  `json:"tax_type"`
	RuleVersion      int                     `json:"rule_version"`
	TaxableAmount    int64                   `json:"taxable_amount"`
	TotalLiability   int64                   `json:"total_liability"`
	MonthlyLiability int64                   `json:"monthly_liability"`
	EffectiveRateBps int64                   `json:"effective_rate_bps"`
	Breakdown        []BandBreakdownResponse `json:"breakdown"`
	AuditLogged      bool                    `json:"audit_logged"`
}

// BandResponse is one band of a published rule table.
type BandResponse struct {
	Label string `json:"label"`
	Width *int64 `json:"width,omitempty"`
	Rate  string `json:"rate"`
}

// RuleTableResponse is the response body for a published rule table.
type RuleTableResponse struct {
	TaxType        string         `json:"tax_type"`
	Version        int            `json:"version"`
	EffectiveDate  string         `json:"effective_date"`
	LegalReference string         `json:"legal_reference"`
	Bands          []BandResponse `json:"bands"`
}

// LotResponse is the response body for an acquisition.
type LotResponse struct {
	ID           string `json:"id"`
	Asset        string `json:"asset"`
	Quantity     string `json:"quantity"`
	RemainingQty string `json:"remaining_qty"`
	UnitCost     int64  `json:"unit_cost"`
	AcquiredAt   string `json:"acquired_at"`
}

// DisposalResponse is the response body for a disposal.
type DisposalResponse struct {
	Asset        string `json:"asset"`
	Quantity     string `json:"quantity"`
	Proceeds     int64  `json:"proceeds"`
	CostBasis    int64  `json:"cost_basis"`
	RealizedGain int64  `json:"realized_gain"`
	TaxDue       int64  `json:"tax_due"`
	RuleVersion  int    `json:"rule_version"`
	LotsConsumed int    `json:"lots_consumed"`
}

// IncomeEventResponse is the response body for an income event.
type IncomeEventResponse struct {
	RecordID    string `json:"record_id"`
	Value       int64  `json:"value"`
	TaxDue      int64  `json:"tax_due"`
	RuleVersion int    `json:"rule_version"`
}

// RecordResponse is the response body for a financial record.
type RecordResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	OwnerID      string          `json:"owner_id"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	Finalized    bool            `json:"finalized"`
	SupersedesID *string         `json:"supersedes_id,omitempty"`
	CreatedAt    string          `json:"created_at"`
	StatusAt     *string         `json:"status_at,omitempty"`
}

// RecordListResponse wraps a paginated record list.
type RecordListResponse struct {
	Items      []RecordResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// LedgerEntryResponse is one entry of the audit chain.
type LedgerEntryResponse struct {
	Sequence   int64  `json:"sequence"`
	ID         string `json:"id"`
	Event      string `json:"event"`
	ActorID    string `json:"actor_id"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
	PrevHash   string `json:"prev_hash"`
	Hash       string `json:"hash"`
}

// IntegrityResponse is the result of a full chain verification.
type IntegrityResponse struct {
	Valid         bool   `json:"valid"`
	Entries       int64  `json:"entries"`
	BrokenAtIndex int64  `json:"broken_at_index"`
	Reason        string `json:"reason,omitempty"`
}
