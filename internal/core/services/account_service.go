package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
)

// accountService manages the chart of accounts and the role resolver used by
// subledger posters instead of literal account ids.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness", "code", req.Code)
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	normal := req.NormalBalance
	if normal == "" {
		normal = domain.DefaultNormalBalance(req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   req.AccountType,
		NormalBalance: normal,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", "code", req.Code)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", "account_id", account.AccountID, "code", account.Code)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", "account_id", accountID)
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", "code", code)
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Code != nil || req.AccountType != nil {
		referenced, err := s.accountRepo.IsReferencedByPostedTransactions(ctx, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account references", "account_id", accountID)
			return nil, fmt.Errorf("failed to check account references: %w", err)
		}
		if referenced {
			return nil, fmt.Errorf("%w: account %s is referenced by posted transactions; code and type are immutable", apperrors.ErrConflict, accountID)
		}
		if req.Code != nil && *req.Code != account.Code {
			if existing, err := s.accountRepo.FindAccountByCode(ctx, *req.Code); err == nil && existing != nil {
				return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, *req.Code)
			} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to check account code: %w", err)
			}
			account.Code = *req.Code
			updated = true
		}
		if req.AccountType != nil && *req.AccountType != account.AccountType {
			account.AccountType = *req.AccountType
			account.NormalBalance = domain.DefaultNormalBalance(*req.AccountType)
			updated = true
		}
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", "account_id", accountID)
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount retires an account from posting. Deactivation is allowed
// even for referenced accounts; posting against inactive accounts is rejected
// at entry creation.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", "account_id", accountID)
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "Account deactivated", "account_id", accountID)
	return nil
}

// ResolveRole maps a stable chart-of-accounts role to its seeded account.
// Posting code never carries literal account ids.
func (s *accountService) ResolveRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	account, err := s.accountRepo.ResolveRole(ctx, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "No account mapped for role", "role", string(role))
			return nil, fmt.Errorf("%w: no account mapped for role %s", apperrors.ErrNotFound, role)
		}
		s.LogError(ctx, err, "Failed to resolve account role", "role", string(role))
		return nil, fmt.Errorf("failed to resolve account role %s: %w", role, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account for role %s is inactive", apperrors.ErrValidation, role)
	}
	return account, nil
}
