package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks a reconciliation's lifecycle.
type ReconciliationStatus string

const (
	ReconInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconCompleted  ReconciliationStatus = "COMPLETED"
)

// Reconciliation matches ledger transactions for one account against an
// external statement balance as of a date.
type Reconciliation struct {
	ReconciliationID   string               `json:"reconciliationID"`
	AccountID          string               `json:"accountID"`
	ReconciliationDate time.Time            `json:"reconciliationDate"`
	StartingBalance    decimal.Decimal      `json:"startingBalance"`
	StatementBalance   decimal.Decimal      `json:"statementBalance"`
	Status             ReconciliationStatus `json:"status"`
	CompletedBy        *string              `json:"completedBy,omitempty"`
	CompletedAt        *time.Time           `json:"completedAt,omitempty"`
	CompletionNote     string               `json:"completionNote,omitempty"` // Required when completed out of balance
	Items              []ReconciliationItem `json:"items,omitempty"`
	AuditFields
}

// ReconciliationItem snapshots one ledger transaction eligible for clearing.
type ReconciliationItem struct {
	ItemID           string          `json:"itemID"`
	ReconciliationID string          `json:"reconciliationID"`
	TransactionID    string          `json:"transactionID"`
	TransactionType  TransactionType `json:"transactionType"`
	Amount           decimal.Decimal `json:"amount"`
	IsCleared        bool            `json:"isCleared"`
	ClearedDate      *time.Time      `json:"clearedDate,omitempty"`
}

// ReconciliationSummary is the derived balance view for a reconciliation.
// A nonzero Difference is surfaced, never auto-corrected.
type ReconciliationSummary struct {
	ReconciliationID string          `json:"reconciliationID"`
	StartingBalance  decimal.Decimal `json:"startingBalance"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	ClearedDebits    decimal.Decimal `json:"clearedDebits"`
	ClearedCredits   decimal.Decimal `json:"clearedCredits"`
	GLBalance        decimal.Decimal `json:"glBalance"`
	Difference       decimal.Decimal `json:"difference"`
	IsBalanced       bool            `json:"isBalanced"`
	ItemCount        int             `json:"itemCount"`
	ClearedCount     int             `json:"clearedCount"`
}
