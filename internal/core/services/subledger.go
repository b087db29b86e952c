package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/utils/accounting"
)

// posterCore is the shared contract for subledger posters: it resolves the
// open fiscal period for the record date, resolves chart-of-accounts roles,
// and builds the posted journal entry that the repository persists together
// with the gl_journal_entry_id guard.
type posterCore struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	periodRepo  portsrepo.FiscalPeriodRepositoryFacade
}

// resolveOpenPeriod finds the fiscal period containing the date and requires
// it to be open. The period is threaded explicitly into the built entry.
func (p *posterCore) resolveOpenPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := p.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no fiscal period contains date %s", apperrors.ErrPeriodClosed, date.Format(dto.DateFormat))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrPeriodClosed, period.Name)
	}
	return period, nil
}

// resolveRoleAccount maps a role to its active seeded account.
func (p *posterCore) resolveRoleAccount(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	account, err := p.accountRepo.ResolveRole(ctx, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account mapped for role %s", apperrors.ErrNotFound, role)
		}
		return nil, fmt.Errorf("failed to resolve account role %s: %w", role, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account for role %s is inactive", apperrors.ErrValidation, role)
	}
	return account, nil
}

// newPostedEntry builds a journal entry in POSTED status for a subledger
// record. The repository persists it atomically with the record's
// gl_journal_entry_id stamp.
func (p *posterCore) newPostedEntry(date time.Time, periodID, description string, refType domain.ReferenceType, refID string, userID string, now time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		JournalNumber:  accounting.NextJournalNumber(date),
		EntryDate:      date,
		FiscalPeriodID: periodID,
		Description:    description,
		Status:         domain.Posted,
		ReferenceType:  refType,
		ReferenceID:    &refID,
		PostedAt:       &now,
		PostedBy:       &userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// newLine builds one transaction line for a poster-built entry.
func newLine(entryID, accountID string, txnType domain.TransactionType, amount decimal.Decimal, description string, userID string, now time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		JournalEntryID:  entryID,
		AccountID:       accountID,
		TransactionType: txnType,
		Amount:          amount,
		Description:     description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}
