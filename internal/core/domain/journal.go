package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// CanPost reports whether an entry in this status may transition to Posted.
func (s JournalStatus) CanPost() bool {
	return s == Draft
}

// CanReverse reports whether an entry in this status may be reversed.
func (s JournalStatus) CanReverse() bool {
	return s == Posted
}

// ReferenceType identifies the subledger record a journal entry originated
// from. Empty for manual entries.
type ReferenceType string

const (
	RefStudentBill   ReferenceType = "STUDENT_BILL"
	RefArPayment     ReferenceType = "AR_PAYMENT"
	RefApInvoice     ReferenceType = "AP_INVOICE"
	RefApPayment     ReferenceType = "AP_PAYMENT"
	RefPayrollRun    ReferenceType = "PAYROLL_RUN"
	RefAssetDisposal ReferenceType = "ASSET_DISPOSAL"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple transactions. Once posted its transactions are immutable; a
// reversal creates a brand-new entry and flips this one to Reversed.
type JournalEntry struct {
	JournalEntryID   string        `json:"journalEntryID"` // Primary key (UUID)
	JournalNumber    string        `json:"journalNumber"`  // Unique, human-facing
	EntryDate        time.Time     `json:"entryDate"`
	FiscalPeriodID   string        `json:"fiscalPeriodID"`
	Description      string        `json:"description"`
	Status           JournalStatus `json:"status"`
	ReferenceType    ReferenceType `json:"referenceType,omitempty"` // Origin subledger, empty for manual entries
	ReferenceID      *string       `json:"referenceID,omitempty"`
	PostedAt         *time.Time    `json:"postedAt,omitempty"`
	PostedBy         *string       `json:"postedBy,omitempty"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on a reversing entry
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on the reversed original
	ReversalReason   string        `json:"reversalReason,omitempty"`
	Transactions     []Transaction `json:"transactions,omitempty"`
	AuditFields
}

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	DebitLine  TransactionType = "DEBIT"
	CreditLine TransactionType = "CREDIT"
)

// Inverse returns the opposite line type, used when building reversing entries.
func (t TransactionType) Inverse() TransactionType {
	if t == DebitLine {
		return CreditLine
	}
	return DebitLine
}

// Transaction represents a single line item within a journal entry, affecting
// one account. Amounts are non-negative integral minor-currency units.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	JournalEntryID  string          `json:"journalEntryID"`
	AccountID       string          `json:"accountID"`
	FundID          *string         `json:"fundID,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	AuditFields
}
