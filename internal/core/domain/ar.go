package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus tracks how much of a student bill has been settled.
type BillStatus string

const (
	BillOpen    BillStatus = "OPEN"
	BillPartial BillStatus = "PARTIAL"
	BillPaid    BillStatus = "PAID"
)

// StudentBill is an accounts-receivable record for a student. GLJournalEntryID
// is set exactly once on first successful posting and is the sole source of
// truth for "has this been posted".
type StudentBill struct {
	BillID           string          `json:"billID"`
	BillNumber       string          `json:"billNumber"`
	StudentID        string          `json:"studentID"`
	BillDate         time.Time       `json:"billDate"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	BalanceDue       decimal.Decimal `json:"balanceDue"`
	Status           BillStatus      `json:"status"`
	GLJournalEntryID *string         `json:"glJournalEntryID,omitempty"`
	LineItems        []BillLineItem  `json:"lineItems,omitempty"`
	AuditFields
}

// BillLineItem is one charge on a student bill, crediting a specific GL account.
type BillLineItem struct {
	LineItemID  string          `json:"lineItemID"`
	BillID      string          `json:"billID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	GLAccountID string          `json:"glAccountID"`
}

// SettlementStatus derives the bill status from its paid amount and balance.
func (b StudentBill) SettlementStatus() BillStatus {
	switch {
	case b.BalanceDue.IsZero():
		return BillPaid
	case b.PaidAmount.IsPositive():
		return BillPartial
	default:
		return BillOpen
	}
}

// ArPayment is a payment received from a student, split across one or more
// bills via allocations.
type ArPayment struct {
	PaymentID        string              `json:"paymentID"`
	StudentID        string              `json:"studentID"`
	PaymentDate      time.Time           `json:"paymentDate"`
	Amount           decimal.Decimal     `json:"amount"`
	Method           string              `json:"method"`
	GLJournalEntryID *string             `json:"glJournalEntryID,omitempty"`
	Allocations      []PaymentAllocation `json:"allocations,omitempty"`
	AuditFields
}

// PaymentAllocation applies a portion of a payment to a single bill.
type PaymentAllocation struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	BillID       string          `json:"billID"`
	Amount       decimal.Decimal `json:"amount"`
}
