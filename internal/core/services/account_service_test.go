package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/core/services"
	"github.com/campuscore/finance_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsNormalBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "2000",
		Name:        "Accounts Payable",
		AccountType: domain.Liability,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "2000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.NormalBalance == domain.CreditNormal && a.IsActive
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(domain.CreditNormal, account.NormalBalance)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := domain.Account{AccountID: uuid.NewString(), Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(&existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeChangeBlockedWhenReferenced() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1000", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	newCode := "1001"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("IsReferencedByPostedTransactions", ctx, accountID).Return(true, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{Code: &newCode}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeChangeAllowedWhenUnreferenced() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1000", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	newCode := "1001"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("IsReferencedByPostedTransactions", ctx, accountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, newCode).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == newCode
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{Code: &newCode}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(newCode, updated.Code)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Deactivate() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1000", AccountType: domain.Asset, IsActive: true}
	inactive := false

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return !a.IsActive
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, suite.userID)

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Idempotent() {
	ctx := context.Background()
	accountID := uuid.NewString()
	inactive := domain.Account{AccountID: accountID, Code: "1000", IsActive: false}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&inactive, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_NotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByCode(ctx, "9999")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestResolveRole_InactiveAccount() {
	ctx := context.Background()
	inactive := domain.Account{AccountID: uuid.NewString(), Code: "1000", IsActive: false}

	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleCash).Return(&inactive, nil).Once()

	account, err := suite.service.ResolveRole(ctx, domain.RoleCash)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestResolveRole_Unmapped() {
	ctx := context.Background()

	suite.mockAccountRepo.On("ResolveRole", ctx, domain.RoleGainOnDisposal).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.ResolveRole(ctx, domain.RoleGainOnDisposal)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
