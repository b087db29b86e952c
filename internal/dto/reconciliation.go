package dto

import "github.com/shopspring/decimal"

// CreateReconciliationRequest opens a reconciliation for one account against
// an external statement balance.
type CreateReconciliationRequest struct {
	AccountID          string          `json:"accountID" binding:"required"`
	ReconciliationDate string          `json:"reconciliationDate" binding:"required,datetime=2006-01-02"`
	StartingBalance    decimal.Decimal `json:"startingBalance"`
	StatementBalance   decimal.Decimal `json:"statementBalance"`
}

// ToggleItemRequest flips a single reconciliation item's cleared flag.
type ToggleItemRequest struct {
	IsCleared *bool `json:"isCleared" binding:"required"`
}

// CompleteReconciliationRequest finishes a reconciliation. Note is mandatory
// when the reconciliation is out of balance.
type CompleteReconciliationRequest struct {
	Note string `json:"note"`
}
