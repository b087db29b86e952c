package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetDisposal records the retirement or sale of a fixed asset. Posting
// removes the asset's cost and accumulated depreciation from the books and
// recognizes any gain or loss against the proceeds.
type AssetDisposal struct {
	DisposalID               string          `json:"disposalID"`
	AssetID                  string          `json:"assetID"`
	DisposalDate             time.Time       `json:"disposalDate"`
	Cost                     decimal.Decimal `json:"cost"`
	AccumulatedDepreciation  decimal.Decimal `json:"accumulatedDepreciation"`
	Proceeds                 decimal.Decimal `json:"proceeds"`
	GLJournalEntryID         *string         `json:"glJournalEntryID,omitempty"`
	AuditFields
}

// GainOrLoss returns proceeds minus net book value. Positive is a gain,
// negative a loss.
func (d AssetDisposal) GainOrLoss() decimal.Decimal {
	netBookValue := d.Cost.Sub(d.AccumulatedDepreciation)
	return d.Proceeds.Sub(netBookValue)
}
