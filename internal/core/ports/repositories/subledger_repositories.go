package repositories

import (
	"context"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// ArRepositoryFacade defines persistence for the student billing subledger.
// The Mark*Posted methods persist the built journal entry and stamp the
// record's gl_journal_entry_id with a conditional write
// (WHERE gl_journal_entry_id IS NULL) inside one store transaction; a guard
// miss surfaces as apperrors.ErrAlreadyPosted with nothing written.
type ArRepositoryFacade interface {
	SaveBill(ctx context.Context, bill domain.StudentBill) error
	FindBillByID(ctx context.Context, billID string) (*domain.StudentBill, error)
	FindBillsByIDs(ctx context.Context, billIDs []string) (map[string]domain.StudentBill, error)
	ListBillsByStudent(ctx context.Context, studentID string) ([]domain.StudentBill, error)
	MarkBillPosted(ctx context.Context, billID string, entry domain.JournalEntry, transactions []domain.Transaction) error
	// SavePayment persists the payment and its allocations and applies each
	// allocation to its bill (paid_amount, balance_due, status) atomically.
	SavePayment(ctx context.Context, payment domain.ArPayment, allocations []domain.PaymentAllocation) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.ArPayment, error)
	MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error
}

// ApRepositoryFacade is the liability-side mirror of ArRepositoryFacade.
type ApRepositoryFacade interface {
	SaveInvoice(ctx context.Context, invoice domain.ApInvoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.ApInvoice, error)
	FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.ApInvoice, error)
	MarkInvoicePosted(ctx context.Context, invoiceID string, entry domain.JournalEntry, transactions []domain.Transaction) error
	SavePayment(ctx context.Context, payment domain.ApPayment, allocations []domain.ApPaymentAllocation) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.ApPayment, error)
	MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error
}

// PayrollRepositoryFacade defines persistence for payroll runs.
type PayrollRepositoryFacade interface {
	SaveRun(ctx context.Context, run domain.PayrollRun, details []domain.PayrollDetail) error
	FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)
	MarkRunPosted(ctx context.Context, runID string, entry domain.JournalEntry, transactions []domain.Transaction) error
}

// AssetRepositoryFacade defines persistence for asset disposals.
type AssetRepositoryFacade interface {
	SaveDisposal(ctx context.Context, disposal domain.AssetDisposal) error
	FindDisposalByID(ctx context.Context, disposalID string) (*domain.AssetDisposal, error)
	MarkDisposalPosted(ctx context.Context, disposalID string, entry domain.JournalEntry, transactions []domain.Transaction) error
}
