package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks how much of a vendor invoice has been paid.
type InvoiceStatus string

const (
	InvoiceOpen    InvoiceStatus = "OPEN"
	InvoicePartial InvoiceStatus = "PARTIAL"
	InvoicePaid    InvoiceStatus = "PAID"
)

// ApInvoice is an accounts-payable record for a vendor, the liability-side
// mirror of StudentBill. GLJournalEntryID guards idempotent posting.
type ApInvoice struct {
	InvoiceID        string          `json:"invoiceID"`
	InvoiceNumber    string          `json:"invoiceNumber"`
	VendorID         string          `json:"vendorID"`
	InvoiceDate      time.Time       `json:"invoiceDate"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	BalanceDue       decimal.Decimal `json:"balanceDue"`
	Status           InvoiceStatus   `json:"status"`
	GLJournalEntryID *string         `json:"glJournalEntryID,omitempty"`
	LineItems        []ApInvoiceLine `json:"lineItems,omitempty"`
	AuditFields
}

// ApInvoiceLine is one expense charge on a vendor invoice.
type ApInvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	GLAccountID string          `json:"glAccountID"` // Expense account debited at posting
}

// ApPayment settles one or more vendor invoices.
type ApPayment struct {
	PaymentID        string                `json:"paymentID"`
	VendorID         string                `json:"vendorID"`
	PaymentDate      time.Time             `json:"paymentDate"`
	Amount           decimal.Decimal       `json:"amount"`
	Method           string                `json:"method"`
	GLJournalEntryID *string               `json:"glJournalEntryID,omitempty"`
	Allocations      []ApPaymentAllocation `json:"allocations,omitempty"`
	AuditFields
}

// ApPaymentAllocation applies a portion of a vendor payment to an invoice.
type ApPaymentAllocation struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
}
