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

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo   *MockReconciliationRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.ReconciliationSvcFacade
	cashAccount     domain.Account
	userID          string
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReconciliationService(suite.mockReconRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitNormal,
		IsActive:      true,
	}
}

func (suite *ReconciliationServiceTestSuite) TestCreateReconciliation_SnapshotsCandidates() {
	ctx := context.Background()
	candidates := []domain.ReconciliationItem{
		{TransactionID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(700)},
		{TransactionID: uuid.NewString(), TransactionType: domain.CreditLine, Amount: decInt(200)},
	}
	req := dto.CreateReconciliationRequest{
		AccountID:          suite.cashAccount.AccountID,
		ReconciliationDate: "2026-07-31",
		StartingBalance:    decInt(1000),
		StatementBalance:   decInt(1500),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockReconRepo.On("SnapshotCandidates", ctx, suite.cashAccount.AccountID, mock.AnythingOfType("time.Time")).Return(candidates, nil).Once()
	suite.mockReconRepo.On("SaveReconciliation", ctx, mock.AnythingOfType("domain.Reconciliation"), mock.AnythingOfType("[]domain.ReconciliationItem")).Return(nil).Once()

	recon, err := suite.service.CreateReconciliation(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(recon)
	suite.Equal(domain.ReconInProgress, recon.Status)
	suite.Require().Len(recon.Items, 2)
	for _, item := range recon.Items {
		suite.False(item.IsCleared)
		suite.NotEmpty(item.ItemID)
		suite.Equal(recon.ReconciliationID, item.ReconciliationID)
	}
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateReconciliation_AccountMissing() {
	ctx := context.Background()
	req := dto.CreateReconciliationRequest{
		AccountID:          uuid.NewString(),
		ReconciliationDate: "2026-07-31",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, req.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	recon, err := suite.service.CreateReconciliation(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(recon)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestMarkTransactionCleared_CompletedConflict() {
	ctx := context.Background()
	reconID := uuid.NewString()
	completed := domain.Reconciliation{
		ReconciliationID: reconID,
		AccountID:        suite.cashAccount.AccountID,
		Status:           domain.ReconCompleted,
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(&completed, nil).Once()

	err := suite.service.MarkTransactionCleared(ctx, reconID, uuid.NewString(), true, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "UpdateItemCleared", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) inProgressRecon(reconID string) *domain.Reconciliation {
	return &domain.Reconciliation{
		ReconciliationID: reconID,
		AccountID:        suite.cashAccount.AccountID,
		StartingBalance:  decInt(1000),
		StatementBalance: decInt(1500),
		Status:           domain.ReconInProgress,
	}
}

func (suite *ReconciliationServiceTestSuite) TestGetReconciliationSummary_Balanced() {
	ctx := context.Background()
	reconID := uuid.NewString()
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(700), IsCleared: true},
		{ItemID: uuid.NewString(), TransactionType: domain.CreditLine, Amount: decInt(200), IsCleared: true},
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(300), IsCleared: false},
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(suite.inProgressRecon(reconID), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockReconRepo.On("FindItems", ctx, reconID).Return(items, nil).Once()

	summary, err := suite.service.GetReconciliationSummary(ctx, reconID)

	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	// Debit-normal account: cleared delta is debits minus credits, +500.
	suite.True(summary.ClearedDebits.Equal(decInt(700)))
	suite.True(summary.ClearedCredits.Equal(decInt(200)))
	suite.True(summary.GLBalance.Equal(decInt(1500)))
	suite.True(summary.Difference.IsZero())
	suite.True(summary.IsBalanced)
	suite.Equal(3, summary.ItemCount)
	suite.Equal(2, summary.ClearedCount)
}

func (suite *ReconciliationServiceTestSuite) TestGetReconciliationSummary_ReversalPairNetsToZero() {
	ctx := context.Background()
	reconID := uuid.NewString()
	recon := suite.inProgressRecon(reconID)
	recon.StatementBalance = decInt(1000)
	// A reversed entry and its reversing entry both surface in the snapshot;
	// clearing the pair moves the GL balance by nothing.
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(500), IsCleared: true},
		{ItemID: uuid.NewString(), TransactionType: domain.CreditLine, Amount: decInt(500), IsCleared: true},
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(recon, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockReconRepo.On("FindItems", ctx, reconID).Return(items, nil).Once()

	summary, err := suite.service.GetReconciliationSummary(ctx, reconID)

	suite.Require().NoError(err)
	suite.True(summary.GLBalance.Equal(decInt(1000)))
	suite.True(summary.Difference.IsZero())
	suite.True(summary.IsBalanced)
	suite.Equal(2, summary.ClearedCount)
}

func (suite *ReconciliationServiceTestSuite) TestGetReconciliationSummary_CreditNormalSign() {
	ctx := context.Background()
	reconID := uuid.NewString()
	payable := suite.cashAccount
	payable.AccountID = uuid.NewString()
	payable.AccountType = domain.Liability
	payable.NormalBalance = domain.CreditNormal
	recon := suite.inProgressRecon(reconID)
	recon.AccountID = payable.AccountID
	recon.StartingBalance = decInt(1000)
	recon.StatementBalance = decInt(1200)
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), TransactionType: domain.CreditLine, Amount: decInt(300), IsCleared: true},
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(100), IsCleared: true},
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(recon, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, payable.AccountID).Return(&payable, nil).Once()
	suite.mockReconRepo.On("FindItems", ctx, reconID).Return(items, nil).Once()

	summary, err := suite.service.GetReconciliationSummary(ctx, reconID)

	suite.Require().NoError(err)
	// Credit-normal account: cleared delta is credits minus debits, +200.
	suite.True(summary.GLBalance.Equal(decInt(1200)))
	suite.True(summary.IsBalanced)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteReconciliation_OutOfBalanceNeedsNote() {
	ctx := context.Background()
	reconID := uuid.NewString()
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(100), IsCleared: true},
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(suite.inProgressRecon(reconID), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockReconRepo.On("FindItems", ctx, reconID).Return(items, nil).Once()

	recon, err := suite.service.CompleteReconciliation(ctx, reconID, "", suite.userID)

	suite.Require().Error(err)
	suite.Nil(recon)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "CompleteReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteReconciliation_OutOfBalanceWithNote() {
	ctx := context.Background()
	reconID := uuid.NewString()
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), TransactionType: domain.DebitLine, Amount: decInt(100), IsCleared: true},
	}
	completedAt := time.Now().UTC()
	completed := suite.inProgressRecon(reconID)
	completed.Status = domain.ReconCompleted
	completed.CompletedAt = &completedAt
	completed.CompletionNote = "bank fee not yet recorded"

	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(suite.inProgressRecon(reconID), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockReconRepo.On("FindItems", ctx, reconID).Return(items, nil).Once()
	suite.mockReconRepo.On("CompleteReconciliation", ctx, reconID, suite.userID, "bank fee not yet recorded", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", ctx, reconID).Return(completed, nil).Once()

	recon, err := suite.service.CompleteReconciliation(ctx, reconID, "bank fee not yet recorded", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(recon)
	suite.Equal(domain.ReconCompleted, recon.Status)
	suite.Equal("bank fee not yet recorded", recon.CompletionNote)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
