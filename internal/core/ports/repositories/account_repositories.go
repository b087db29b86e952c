package repositories

import (
	"context"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// AccountRepositoryFacade defines persistence operations for the chart of
// accounts and the role mapping seeded alongside it.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// IsReferencedByPostedTransactions reports whether any posted journal
	// entry carries a line against this account. Referenced accounts are
	// immutable in code and type.
	IsReferencedByPostedTransactions(ctx context.Context, accountID string) (bool, error)
	// ResolveRole returns the account mapped to a stable chart-of-accounts
	// role in the account_roles seed table.
	ResolveRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error)
}
