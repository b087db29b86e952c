package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/core/services"
	"github.com/campuscore/finance_backend/internal/dto"
)

type ApServiceTestSuite struct {
	suite.Suite
	mockApRepo      *MockApRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockFiscalPeriodRepository
	service         portssvc.ApSvcFacade
	apAccount       domain.Account
	cashAccount     domain.Account
	expenseAccount  domain.Account
	openPeriod      domain.FiscalPeriod
	userID          string
}

func (suite *ApServiceTestSuite) SetupTest() {
	suite.mockApRepo = new(MockApRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.service = services.NewApService(suite.mockApRepo, suite.mockAccountRepo, suite.mockPeriodRepo)

	suite.userID = uuid.NewString()
	suite.apAccount = domain.Account{AccountID: uuid.NewString(), Code: "2000", AccountType: domain.Liability, NormalBalance: domain.CreditNormal, IsActive: true}
	suite.cashAccount = domain.Account{AccountID: uuid.NewString(), Code: "1000", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	suite.expenseAccount = domain.Account{AccountID: uuid.NewString(), Code: "5200", AccountType: domain.Expense, NormalBalance: domain.DebitNormal, IsActive: true}
	suite.openPeriod = domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "FY26-P01",
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
}

func (suite *ApServiceTestSuite) TestCreateInvoice_TotalsFromLines() {
	ctx := context.Background()
	req := dto.CreateApInvoiceRequest{
		VendorID:    uuid.NewString(),
		InvoiceDate: "2026-07-10",
		LineItems: []dto.ApInvoiceLineRequest{
			{Description: "Lab supplies", Amount: decInt(12000), GLAccountID: suite.expenseAccount.AccountID},
			{Description: "Shipping", Amount: decInt(500), GLAccountID: suite.expenseAccount.AccountID},
		},
	}

	suite.mockApRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.ApInvoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.True(invoice.TotalAmount.Equal(decInt(12500)))
	suite.True(invoice.BalanceDue.Equal(decInt(12500)))
	suite.True(invoice.PaidAmount.IsZero())
	suite.Equal(domain.InvoiceOpen, invoice.Status)
	suite.Len(invoice.LineItems, 2)
	suite.mockApRepo.AssertExpectations(suite.T())
}

func (suite *ApServiceTestSuite) TestCreateInvoice_RejectsFractionalLine() {
	ctx := context.Background()
	req := dto.CreateApInvoiceRequest{
		VendorID:    uuid.NewString(),
		InvoiceDate: "2026-07-10",
		LineItems: []dto.ApInvoiceLineRequest{
			{Description: "Partial unit", Amount: decimalFromString("99.99"), GLAccountID: suite.expenseAccount.AccountID},
		},
	}

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *ApServiceTestSuite) newOpenInvoice(invoiceID string) domain.ApInvoice {
	return domain.ApInvoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-TESTVENDOR",
		VendorID:      uuid.NewString(),
		InvoiceDate:   time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decInt(12500),
		PaidAmount:    decInt(0),
		BalanceDue:    decInt(12500),
		Status:        domain.InvoiceOpen,
		LineItems: []domain.ApInvoiceLine{
			{LineID: uuid.NewString(), InvoiceID: invoiceID, Description: "Lab supplies", Amount: decInt(12000), GLAccountID: suite.expenseAccount.AccountID},
			{LineID: uuid.NewString(), InvoiceID: invoiceID, Description: "Shipping", Amount: decInt(500), GLAccountID: suite.expenseAccount.AccountID},
		},
	}
}

func (suite *ApServiceTestSuite) TestPostInvoiceToGL_DebitExpenseCreditPayables() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := suite.newOpenInvoice(invoiceID)
	entryID := uuid.NewString()
	posted := invoice
	posted.GLJournalEntryID = &entryID

	suite.mockApRepo.On("FindInvoiceByID", ctx, invoiceID).Return(&invoice, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, invoice.InvoiceDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsPayable).Return(&suite.apAccount, nil).Once()
	suite.mockApRepo.On("MarkInvoicePosted", ctx, invoiceID, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(lines []domain.Transaction) bool {
		if len(lines) != 3 {
			return false
		}
		// One debit per expense line, then a single payables credit for the
		// invoice total.
		return lines[0].TransactionType == domain.DebitLine && lines[0].AccountID == suite.expenseAccount.AccountID && lines[0].Amount.Equal(decInt(12000)) &&
			lines[1].TransactionType == domain.DebitLine && lines[1].Amount.Equal(decInt(500)) &&
			lines[2].TransactionType == domain.CreditLine && lines[2].AccountID == suite.apAccount.AccountID && lines[2].Amount.Equal(decInt(12500))
	})).Return(nil).Once()
	suite.mockApRepo.On("FindInvoiceByID", ctx, invoiceID).Return(&posted, nil).Once()

	result, err := suite.service.PostInvoiceToGL(ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Require().NotNil(result.GLJournalEntryID)
	suite.mockApRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ApServiceTestSuite) TestPostInvoiceToGL_AlreadyPosted() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	entryID := uuid.NewString()
	invoice := suite.newOpenInvoice(invoiceID)
	invoice.GLJournalEntryID = &entryID

	suite.mockApRepo.On("FindInvoiceByID", ctx, invoiceID).Return(&invoice, nil).Once()

	result, err := suite.service.PostInvoiceToGL(ctx, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockApRepo.AssertNotCalled(suite.T(), "MarkInvoicePosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApServiceTestSuite) TestPostInvoiceToGL_ConcurrentPosterLoses() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := suite.newOpenInvoice(invoiceID)

	suite.mockApRepo.On("FindInvoiceByID", ctx, invoiceID).Return(&invoice, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, invoice.InvoiceDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsPayable).Return(&suite.apAccount, nil).Once()
	// The WHERE gl_journal_entry_id IS NULL guard missed: another poster won.
	suite.mockApRepo.On("MarkInvoicePosted", ctx, invoiceID, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.Transaction")).Return(apperrors.ErrAlreadyPosted).Once()

	result, err := suite.service.PostInvoiceToGL(ctx, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *ApServiceTestSuite) TestCreatePayment_AllocationsExceedAmount() {
	ctx := context.Background()
	req := dto.CreateApPaymentRequest{
		VendorID:    uuid.NewString(),
		PaymentDate: "2026-07-20",
		Amount:      decInt(100),
		Allocations: []dto.ApAllocationRequest{
			{InvoiceID: uuid.NewString(), Amount: decInt(80)},
			{InvoiceID: uuid.NewString(), Amount: decInt(30)},
		},
	}

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApServiceTestSuite) TestCreatePayment_AllocationExceedsBalanceDue() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := suite.newOpenInvoice(invoiceID)
	invoice.BalanceDue = decInt(40)
	req := dto.CreateApPaymentRequest{
		VendorID:    uuid.NewString(),
		PaymentDate: "2026-07-20",
		Amount:      decInt(50),
		Allocations: []dto.ApAllocationRequest{
			{InvoiceID: invoiceID, Amount: decInt(50)},
		},
	}

	suite.mockApRepo.On("FindInvoicesByIDs", ctx, []string{invoiceID}).Return(map[string]domain.ApInvoice{invoiceID: invoice}, nil).Once()

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApServiceTestSuite) TestCreatePayment_SplitAcrossInvoices() {
	ctx := context.Background()
	firstID := uuid.NewString()
	secondID := uuid.NewString()
	first := suite.newOpenInvoice(firstID)
	first.BalanceDue = decInt(100)
	second := suite.newOpenInvoice(secondID)
	second.BalanceDue = decInt(50)
	req := dto.CreateApPaymentRequest{
		VendorID:    uuid.NewString(),
		PaymentDate: "2026-07-20",
		Amount:      decInt(120),
		Method:      "CHECK",
		Allocations: []dto.ApAllocationRequest{
			{InvoiceID: firstID, Amount: decInt(100)},
			{InvoiceID: secondID, Amount: decInt(20)},
		},
	}

	suite.mockApRepo.On("FindInvoicesByIDs", ctx, []string{firstID, secondID}).Return(map[string]domain.ApInvoice{firstID: first, secondID: second}, nil).Once()
	suite.mockApRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.ApPayment"), mock.AnythingOfType("[]domain.ApPaymentAllocation")).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Require().Len(payment.Allocations, 2)
	suite.True(payment.Allocations[0].Amount.Equal(decInt(100)))
	suite.True(payment.Allocations[1].Amount.Equal(decInt(20)))
	suite.mockApRepo.AssertExpectations(suite.T())
}

func (suite *ApServiceTestSuite) TestPostPaymentToGL_DebitPayablesCreditCash() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := domain.ApPayment{
		PaymentID:   paymentID,
		VendorID:    uuid.NewString(),
		PaymentDate: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decInt(120),
	}
	entryID := uuid.NewString()
	posted := payment
	posted.GLJournalEntryID = &entryID

	suite.mockApRepo.On("FindPaymentByID", ctx, paymentID).Return(&payment, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, payment.PaymentDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsPayable).Return(&suite.apAccount, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleCash).Return(&suite.cashAccount, nil).Once()
	suite.mockApRepo.On("MarkPaymentPosted", ctx, paymentID, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(lines []domain.Transaction) bool {
		if len(lines) != 2 {
			return false
		}
		return lines[0].TransactionType == domain.DebitLine && lines[0].AccountID == suite.apAccount.AccountID && lines[0].Amount.Equal(decInt(120)) &&
			lines[1].TransactionType == domain.CreditLine && lines[1].AccountID == suite.cashAccount.AccountID && lines[1].Amount.Equal(decInt(120))
	})).Return(nil).Once()
	suite.mockApRepo.On("FindPaymentByID", ctx, paymentID).Return(&posted, nil).Once()

	result, err := suite.service.PostPaymentToGL(ctx, paymentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Require().NotNil(result.GLJournalEntryID)
	suite.mockApRepo.AssertExpectations(suite.T())
}

func TestApServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApServiceTestSuite))
}
