package dto

import "github.com/shopspring/decimal"

// BillLineItemRequest is one charge on a student bill.
type BillLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	GLAccountID string          `json:"glAccountID" binding:"required"`
}

// CreateBillRequest creates a student bill with its line items.
type CreateBillRequest struct {
	BillNumber *string               `json:"billNumber,omitempty"`
	StudentID  string                `json:"studentID" binding:"required"`
	BillDate   string                `json:"billDate" binding:"required,datetime=2006-01-02"`
	LineItems  []BillLineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// AllocationRequest applies part of a payment to one bill.
type AllocationRequest struct {
	BillID string          `json:"billID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateArPaymentRequest records a student payment split across bills.
type CreateArPaymentRequest struct {
	StudentID   string              `json:"studentID" binding:"required"`
	PaymentDate string              `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Method      string              `json:"method"`
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}
