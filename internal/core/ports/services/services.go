package services

import (
	"context"
	"time"

	"github.com/campuscore/finance_backend/internal/core/domain"
	"github.com/campuscore/finance_backend/internal/dto"
)

// AccountSvcFacade manages the chart of accounts and role resolution.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
	ResolveRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error)
}

// FiscalPeriodSvcFacade manages period boundaries and open/closed state.
type FiscalPeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error)
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}

// JournalSvcFacade creates, posts, and reverses balanced journal entries. It
// is the single writer of ledger truth.
type JournalSvcFacade interface {
	CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, journalEntryID string, userID string) (*domain.JournalEntry, error)
	ReverseJournalEntry(ctx context.Context, journalEntryID string, reason string, userID string) (*domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// ArSvcFacade is the student billing subledger poster.
type ArSvcFacade interface {
	CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.StudentBill, error)
	GetBill(ctx context.Context, billID string) (*domain.StudentBill, error)
	ListBillsByStudent(ctx context.Context, studentID string) ([]domain.StudentBill, error)
	PostBillToGL(ctx context.Context, billID string, userID string) (*domain.StudentBill, error)
	CreatePayment(ctx context.Context, req dto.CreateArPaymentRequest, userID string) (*domain.ArPayment, error)
	PostPaymentToGL(ctx context.Context, paymentID string, userID string) (*domain.ArPayment, error)
}

// ApSvcFacade is the vendor payables subledger poster.
type ApSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateApInvoiceRequest, userID string) (*domain.ApInvoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.ApInvoice, error)
	PostInvoiceToGL(ctx context.Context, invoiceID string, userID string) (*domain.ApInvoice, error)
	CreatePayment(ctx context.Context, req dto.CreateApPaymentRequest, userID string) (*domain.ApPayment, error)
	PostPaymentToGL(ctx context.Context, paymentID string, userID string) (*domain.ApPayment, error)
}

// PayrollSvcFacade is the payroll subledger poster.
type PayrollSvcFacade interface {
	CreateRun(ctx context.Context, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error)
	GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error)
	PostRunToGL(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error)
}

// AssetSvcFacade posts fixed-asset disposals.
type AssetSvcFacade interface {
	CreateDisposal(ctx context.Context, req dto.CreateAssetDisposalRequest, userID string) (*domain.AssetDisposal, error)
	PostDisposalToGL(ctx context.Context, disposalID string, userID string) (*domain.AssetDisposal, error)
}

// ReconciliationSvcFacade matches ledger transactions against statement balances.
type ReconciliationSvcFacade interface {
	CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error)
	MarkTransactionCleared(ctx context.Context, reconciliationID, transactionID string, isCleared bool, userID string) error
	GetReconciliationSummary(ctx context.Context, reconciliationID string) (*domain.ReconciliationSummary, error)
	CompleteReconciliation(ctx context.Context, reconciliationID string, note string, userID string) (*domain.Reconciliation, error)
}

// BillingSvcFacade derives a student's amount due from enrollment, fee
// structures, and aid awards. Independent of the GL.
type BillingSvcFacade interface {
	CalculateStudentBill(ctx context.Context, studentID string) (*domain.BillCalculation, error)
}

// ReportingSvcFacade produces read-only derived views over posted entries.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, fiscalPeriodID string) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)
}

// ServiceContainer bundles every service facade for handler registration.
type ServiceContainer struct {
	Account        AccountSvcFacade
	FiscalPeriod   FiscalPeriodSvcFacade
	Journal        JournalSvcFacade
	Ar             ArSvcFacade
	Ap             ApSvcFacade
	Payroll        PayrollSvcFacade
	Asset          AssetSvcFacade
	Reconciliation ReconciliationSvcFacade
	Billing        BillingSvcFacade
	Reporting      ReportingSvcFacade
}
