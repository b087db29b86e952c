package dto

import "github.com/shopspring/decimal"

// ApInvoiceLineRequest is one expense charge on a vendor invoice.
type ApInvoiceLineRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	GLAccountID string          `json:"glAccountID" binding:"required"`
}

// CreateApInvoiceRequest creates a vendor invoice with its lines.
type CreateApInvoiceRequest struct {
	InvoiceNumber *string                `json:"invoiceNumber,omitempty"`
	VendorID      string                 `json:"vendorID" binding:"required"`
	InvoiceDate   string                 `json:"invoiceDate" binding:"required,datetime=2006-01-02"`
	LineItems     []ApInvoiceLineRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// ApAllocationRequest applies part of a vendor payment to one invoice.
type ApAllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// CreateApPaymentRequest records a vendor payment split across invoices.
type CreateApPaymentRequest struct {
	VendorID    string                `json:"vendorID" binding:"required"`
	PaymentDate string                `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	Method      string                `json:"method"`
	Allocations []ApAllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}
