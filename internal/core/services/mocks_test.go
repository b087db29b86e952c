package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, entry, transactions)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindTransactionsByEntryID(ctx context.Context, journalEntryID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockJournalRepository) MarkEntryPosted(ctx context.Context, journalEntryID string, userID string, at time.Time) error {
	args := m.Called(ctx, journalEntryID, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, transactions []domain.Transaction, originalEntryID string, reason string, userID string, at time.Time) error {
	args := m.Called(ctx, reversing, transactions, originalEntryID, reason, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) IsReferencedByPostedTransactions(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ResolveRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock FiscalPeriodRepository ---

type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) CountOverlapping(ctx context.Context, start, end time.Time) (int, error) {
	args := m.Called(ctx, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.FiscalPeriodStatus, userID string, at time.Time) error {
	args := m.Called(ctx, periodID, from, to, userID, at)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

// --- Mock ArRepository ---

type MockArRepository struct {
	mock.Mock
}

var _ portsrepo.ArRepositoryFacade = (*MockArRepository)(nil)

func (m *MockArRepository) SaveBill(ctx context.Context, bill domain.StudentBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockArRepository) FindBillByID(ctx context.Context, billID string) (*domain.StudentBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentBill), args.Error(1)
}

func (m *MockArRepository) FindBillsByIDs(ctx context.Context, billIDs []string) (map[string]domain.StudentBill, error) {
	args := m.Called(ctx, billIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.StudentBill), args.Error(1)
}

func (m *MockArRepository) ListBillsByStudent(ctx context.Context, studentID string) ([]domain.StudentBill, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentBill), args.Error(1)
}

func (m *MockArRepository) MarkBillPosted(ctx context.Context, billID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, billID, entry, transactions)
	return args.Error(0)
}

func (m *MockArRepository) SavePayment(ctx context.Context, payment domain.ArPayment, allocations []domain.PaymentAllocation) error {
	args := m.Called(ctx, payment, allocations)
	return args.Error(0)
}

func (m *MockArRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ArPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArPayment), args.Error(1)
}

func (m *MockArRepository) MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, paymentID, entry, transactions)
	return args.Error(0)
}

// --- Mock ApRepository ---

type MockApRepository struct {
	mock.Mock
}

var _ portsrepo.ApRepositoryFacade = (*MockApRepository)(nil)

func (m *MockApRepository) SaveInvoice(ctx context.Context, invoice domain.ApInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockApRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.ApInvoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApInvoice), args.Error(1)
}

func (m *MockApRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.ApInvoice, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ApInvoice), args.Error(1)
}

func (m *MockApRepository) MarkInvoicePosted(ctx context.Context, invoiceID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, invoiceID, entry, transactions)
	return args.Error(0)
}

func (m *MockApRepository) SavePayment(ctx context.Context, payment domain.ApPayment, allocations []domain.ApPaymentAllocation) error {
	args := m.Called(ctx, payment, allocations)
	return args.Error(0)
}

func (m *MockApRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ApPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApPayment), args.Error(1)
}

func (m *MockApRepository) MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, paymentID, entry, transactions)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepositoryFacade = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, fiscalPeriodID string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, fiscalPeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	assets, _ := args.Get(0).([]domain.AccountAmount)
	liabilities, _ := args.Get(1).([]domain.AccountAmount)
	equity, _ := args.Get(2).([]domain.AccountAmount)
	netIncome, _ := args.Get(3).(decimal.Decimal)
	return assets, liabilities, equity, netIncome, args.Error(4)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, from, to)
	revenue, _ := args.Get(0).([]domain.AccountAmount)
	expenses, _ := args.Get(1).([]domain.AccountAmount)
	return revenue, expenses, args.Error(2)
}

// --- Mock PayrollRepository ---

type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) SaveRun(ctx context.Context, run domain.PayrollRun, details []domain.PayrollDetail) error {
	args := m.Called(ctx, run, details)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) MarkRunPosted(ctx context.Context, runID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, runID, entry, transactions)
	return args.Error(0)
}

// --- Mock AssetRepository ---

type MockAssetRepository struct {
	mock.Mock
}

var _ portsrepo.AssetRepositoryFacade = (*MockAssetRepository)(nil)

func (m *MockAssetRepository) SaveDisposal(ctx context.Context, disposal domain.AssetDisposal) error {
	args := m.Called(ctx, disposal)
	return args.Error(0)
}

func (m *MockAssetRepository) FindDisposalByID(ctx context.Context, disposalID string) (*domain.AssetDisposal, error) {
	args := m.Called(ctx, disposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetDisposal), args.Error(1)
}

func (m *MockAssetRepository) MarkDisposalPosted(ctx context.Context, disposalID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, disposalID, entry, transactions)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.Reconciliation, items []domain.ReconciliationItem) error {
	args := m.Called(ctx, recon, items)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindItems(ctx context.Context, reconciliationID string) ([]domain.ReconciliationItem, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationItem), args.Error(1)
}

func (m *MockReconciliationRepository) SnapshotCandidates(ctx context.Context, accountID string, asOf time.Time) ([]domain.ReconciliationItem, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationItem), args.Error(1)
}

func (m *MockReconciliationRepository) UpdateItemCleared(ctx context.Context, reconciliationID, transactionID string, isCleared bool, clearedDate *time.Time) error {
	args := m.Called(ctx, reconciliationID, transactionID, isCleared, clearedDate)
	return args.Error(0)
}

func (m *MockReconciliationRepository) CompleteReconciliation(ctx context.Context, reconciliationID string, userID string, note string, at time.Time) error {
	args := m.Called(ctx, reconciliationID, userID, note, at)
	return args.Error(0)
}

// --- Mock BillingRepository ---

type MockBillingRepository struct {
	mock.Mock
}

var _ portsrepo.BillingRepositoryFacade = (*MockBillingRepository)(nil)

func (m *MockBillingRepository) FindActiveAcademicPeriod(ctx context.Context) (*domain.AcademicPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcademicPeriod), args.Error(1)
}

func (m *MockBillingRepository) FindEnrollments(ctx context.Context, studentID, academicPeriodID string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, studentID, academicPeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}

func (m *MockBillingRepository) FindFeeStructures(ctx context.Context, academicPeriodID string) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, academicPeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}

func (m *MockBillingRepository) FindAidAwards(ctx context.Context, studentID, academicPeriodID string) ([]domain.AidAward, error) {
	args := m.Called(ctx, studentID, academicPeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AidAward), args.Error(1)
}

func (m *MockBillingRepository) ClearCalculationRequired(ctx context.Context, enrollmentIDs []string) error {
	args := m.Called(ctx, enrollmentIDs)
	return args.Error(0)
}

// decInt is a test shorthand for whole minor-currency amounts.
func decInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decimalFromString(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}
