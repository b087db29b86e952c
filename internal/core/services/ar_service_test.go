package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/core/services"
	"github.com/campuscore/finance_backend/internal/dto"
)

type ArServiceTestSuite struct {
	suite.Suite
	mockArRepo      *MockArRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockFiscalPeriodRepository
	service         portssvc.ArSvcFacade
	arAccount       domain.Account
	cashAccount     domain.Account
	revenueAccount  domain.Account
	openPeriod      domain.FiscalPeriod
	studentID       string
	userID          string
}

func (suite *ArServiceTestSuite) SetupTest() {
	suite.mockArRepo = new(MockArRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.service = services.NewArService(suite.mockArRepo, suite.mockAccountRepo, suite.mockPeriodRepo)

	suite.studentID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.arAccount = domain.Account{AccountID: uuid.NewString(), Code: "1100", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	suite.cashAccount = domain.Account{AccountID: uuid.NewString(), Code: "1000", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	suite.revenueAccount = domain.Account{AccountID: uuid.NewString(), Code: "4000", AccountType: domain.Revenue, NormalBalance: domain.CreditNormal, IsActive: true}
	suite.openPeriod = domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "FY26-P01",
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
}

func (suite *ArServiceTestSuite) TestCreateBill_TotalsFromLines() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		StudentID: suite.studentID,
		BillDate:  "2026-07-10",
		LineItems: []dto.BillLineItemRequest{
			{Description: "Tuition", Amount: decInt(30000), GLAccountID: suite.revenueAccount.AccountID},
			{Description: "Lab fee", Amount: decInt(5000), GLAccountID: suite.revenueAccount.AccountID},
		},
	}

	suite.mockArRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.StudentBill")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.True(bill.TotalAmount.Equal(decInt(35000)))
	suite.True(bill.BalanceDue.Equal(decInt(35000)))
	suite.True(bill.PaidAmount.IsZero())
	suite.Equal(domain.BillOpen, bill.Status)
	suite.Len(bill.LineItems, 2)
	suite.mockArRepo.AssertExpectations(suite.T())
}

func (suite *ArServiceTestSuite) TestCreateBill_RejectsFractionalLine() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		StudentID: suite.studentID,
		BillDate:  "2026-07-10",
		LineItems: []dto.BillLineItemRequest{
			{Description: "Tuition", Amount: decimalFromString("99.99"), GLAccountID: suite.revenueAccount.AccountID},
		},
	}

	bill, err := suite.service.CreateBill(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockArRepo.AssertNotCalled(suite.T(), "SaveBill", mock.Anything, mock.Anything)
}

func (suite *ArServiceTestSuite) TestPostBillToGL_BuildsBalancedEntry() {
	ctx := context.Background()
	billID := uuid.NewString()
	bill := domain.StudentBill{
		BillID:      billID,
		BillNumber:  "BILL-TEST000001",
		StudentID:   suite.studentID,
		BillDate:    time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decInt(35000),
		BalanceDue:  decInt(35000),
		Status:      domain.BillOpen,
		LineItems: []domain.BillLineItem{
			{LineItemID: uuid.NewString(), BillID: billID, Description: "Tuition", Amount: decInt(30000), GLAccountID: suite.revenueAccount.AccountID},
			{LineItemID: uuid.NewString(), BillID: billID, Description: "Lab fee", Amount: decInt(5000), GLAccountID: suite.revenueAccount.AccountID},
		},
	}
	entryID := uuid.NewString()
	posted := bill
	posted.GLJournalEntryID = &entryID

	suite.mockArRepo.On("FindBillByID", ctx, billID).Return(&bill, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, bill.BillDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsReceivable).Return(&suite.arAccount, nil).Once()
	suite.mockArRepo.On("MarkBillPosted", ctx, billID, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(lines []domain.Transaction) bool {
		if len(lines) != 3 {
			return false
		}
		// One AR debit for the bill total, one credit per line item.
		return lines[0].TransactionType == domain.DebitLine &&
			lines[0].AccountID == suite.arAccount.AccountID &&
			lines[0].Amount.Equal(decInt(35000)) &&
			lines[1].TransactionType == domain.CreditLine &&
			lines[2].TransactionType == domain.CreditLine
	})).Return(nil).Once()
	suite.mockArRepo.On("FindBillByID", ctx, billID).Return(&posted, nil).Once()

	result, err := suite.service.PostBillToGL(ctx, billID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Require().NotNil(result.GLJournalEntryID)
	suite.mockArRepo.AssertExpectations(suite.T())
}

func (suite *ArServiceTestSuite) TestPostBillToGL_AlreadyPosted() {
	ctx := context.Background()
	billID := uuid.NewString()
	entryID := uuid.NewString()
	bill := domain.StudentBill{
		BillID:           billID,
		BillNumber:       "BILL-TEST000002",
		GLJournalEntryID: &entryID,
	}

	suite.mockArRepo.On("FindBillByID", ctx, billID).Return(&bill, nil).Once()

	result, err := suite.service.PostBillToGL(ctx, billID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockArRepo.AssertNotCalled(suite.T(), "MarkBillPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ArServiceTestSuite) TestPostBillToGL_ConcurrentPosterLoses() {
	ctx := context.Background()
	billID := uuid.NewString()
	bill := domain.StudentBill{
		BillID:      billID,
		BillNumber:  "BILL-TEST000003",
		BillDate:    time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decInt(1000),
		LineItems: []domain.BillLineItem{
			{LineItemID: uuid.NewString(), BillID: billID, Description: "Tuition", Amount: decInt(1000), GLAccountID: suite.revenueAccount.AccountID},
		},
	}

	suite.mockArRepo.On("FindBillByID", ctx, billID).Return(&bill, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, bill.BillDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsReceivable).Return(&suite.arAccount, nil).Once()
	suite.mockArRepo.On("MarkBillPosted", ctx, billID, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.Transaction")).Return(apperrors.ErrAlreadyPosted).Once()

	result, err := suite.service.PostBillToGL(ctx, billID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *ArServiceTestSuite) TestCreatePayment_SplitAcrossBills() {
	ctx := context.Background()
	billA := domain.StudentBill{BillID: uuid.NewString(), BillNumber: "BILL-A", BalanceDue: decInt(100)}
	billB := domain.StudentBill{BillID: uuid.NewString(), BillNumber: "BILL-B", BalanceDue: decInt(50)}
	req := dto.CreateArPaymentRequest{
		StudentID:   suite.studentID,
		PaymentDate: "2026-07-20",
		Amount:      decInt(120),
		Method:      "CARD",
		Allocations: []dto.AllocationRequest{
			{BillID: billA.BillID, Amount: decInt(100)},
			{BillID: billB.BillID, Amount: decInt(20)},
		},
	}

	suite.mockArRepo.On("FindBillsByIDs", ctx, []string{billA.BillID, billB.BillID}).Return(map[string]domain.StudentBill{
		billA.BillID: billA,
		billB.BillID: billB,
	}, nil).Once()
	suite.mockArRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.ArPayment"), mock.AnythingOfType("[]domain.PaymentAllocation")).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.True(payment.Amount.Equal(decInt(120)))
	suite.Len(payment.Allocations, 2)
	suite.True(payment.Allocations[0].Amount.Equal(decInt(100)))
	suite.True(payment.Allocations[1].Amount.Equal(decInt(20)))
	suite.mockArRepo.AssertExpectations(suite.T())
}

func (suite *ArServiceTestSuite) TestCreatePayment_AllocationsExceedAmount() {
	ctx := context.Background()
	req := dto.CreateArPaymentRequest{
		StudentID:   suite.studentID,
		PaymentDate: "2026-07-20",
		Amount:      decInt(100),
		Allocations: []dto.AllocationRequest{
			{BillID: uuid.NewString(), Amount: decInt(80)},
			{BillID: uuid.NewString(), Amount: decInt(30)},
		},
	}

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockArRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ArServiceTestSuite) TestCreatePayment_AllocationExceedsBalanceDue() {
	ctx := context.Background()
	bill := domain.StudentBill{BillID: uuid.NewString(), BillNumber: "BILL-C", BalanceDue: decInt(40)}
	req := dto.CreateArPaymentRequest{
		StudentID:   suite.studentID,
		PaymentDate: "2026-07-20",
		Amount:      decInt(100),
		Allocations: []dto.AllocationRequest{
			{BillID: bill.BillID, Amount: decInt(50)},
		},
	}

	suite.mockArRepo.On("FindBillsByIDs", ctx, []string{bill.BillID}).Return(map[string]domain.StudentBill{bill.BillID: bill}, nil).Once()

	payment, err := suite.service.CreatePayment(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ArServiceTestSuite) TestPostPaymentToGL_DebitCashCreditReceivables() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := domain.ArPayment{
		PaymentID:   paymentID,
		StudentID:   suite.studentID,
		PaymentDate: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decInt(120),
	}
	entryID := uuid.NewString()
	posted := payment
	posted.GLJournalEntryID = &entryID

	suite.mockArRepo.On("FindPaymentByID", ctx, paymentID).Return(&payment, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, payment.PaymentDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleCash).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleAccountsReceivable).Return(&suite.arAccount, nil).Once()
	suite.mockArRepo.On("MarkPaymentPosted", ctx, paymentID, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(lines []domain.Transaction) bool {
		return len(lines) == 2 &&
			lines[0].AccountID == suite.cashAccount.AccountID &&
			lines[0].TransactionType == domain.DebitLine &&
			lines[1].AccountID == suite.arAccount.AccountID &&
			lines[1].TransactionType == domain.CreditLine &&
			lines[0].Amount.Equal(decInt(120))
	})).Return(nil).Once()
	suite.mockArRepo.On("FindPaymentByID", ctx, paymentID).Return(&posted, nil).Once()

	result, err := suite.service.PostPaymentToGL(ctx, paymentID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Require().NotNil(result.GLJournalEntryID)
	suite.mockArRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ArServiceTestSuite) TestSettlementStatusDerivation() {
	paid := domain.StudentBill{PaidAmount: decInt(100), BalanceDue: decimal.Zero}
	partial := domain.StudentBill{PaidAmount: decInt(40), BalanceDue: decInt(60)}
	open := domain.StudentBill{PaidAmount: decimal.Zero, BalanceDue: decInt(100)}

	suite.Equal(domain.BillPaid, paid.SettlementStatus())
	suite.Equal(domain.BillPartial, partial.SettlementStatus())
	suite.Equal(domain.BillOpen, open.SettlementStatus())
}

func TestArServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArServiceTestSuite))
}
