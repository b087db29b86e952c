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
	"github.com/campuscore/finance_backend/internal/utils/accounting"
)

// journalService is the single writer of ledger truth: it creates, posts, and
// reverses balanced journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodRepo  portsrepo.FiscalPeriodRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournalEntry validates a balanced transaction set and persists the
// entry with all of its lines as one atomic unit in DRAFT status.
func (s *journalService) CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entryDate, err := dto.ParseDate(req.EntryDate)
	if err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
	}

	// The fiscal period is resolved from the entry date and threaded into the
	// entry explicitly; posting re-checks that it is still open.
	period, err := s.periodRepo.FindPeriodForDate(ctx, entryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no fiscal period contains entry date %s", apperrors.ErrPeriodClosed, req.EntryDate)
		}
		s.LogError(ctx, err, "Failed to resolve fiscal period for entry date", "entry_date", req.EntryDate)
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	now := time.Now().UTC()
	journalEntryID := uuid.NewString()

	transactions := make([]domain.Transaction, len(req.Transactions))
	accountIDs := make([]string, 0, len(req.Transactions))
	for i, txnReq := range req.Transactions {
		transactions[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalEntryID:  journalEntryID,
			AccountID:       txnReq.AccountID,
			FundID:          txnReq.FundID,
			TransactionType: txnReq.TransactionType,
			Amount:          txnReq.Amount,
			Description:     txnReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		accountIDs = append(accountIDs, txnReq.AccountID)
	}

	// Double-entry check: nothing is persisted when the set is imbalanced.
	if err := accounting.ValidateBalanced(transactions); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrImbalancedEntry, err)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for journal entry")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueStrings(accountIDs) {
		account, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	journalNumber := accounting.NextJournalNumber(entryDate)
	if req.JournalNumber != nil && *req.JournalNumber != "" {
		journalNumber = *req.JournalNumber
	}

	entry := domain.JournalEntry{
		JournalEntryID: journalEntryID,
		JournalNumber:  journalNumber,
		EntryDate:      entryDate,
		FiscalPeriodID: period.PeriodID,
		Description:    req.Description,
		Status:         domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, transactions); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", "journal_number", journalNumber)
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created", "journal_entry_id", entry.JournalEntryID, "journal_number", journalNumber)
	entry.Transactions = transactions
	return &entry, nil
}

// PostJournalEntry transitions a draft entry to POSTED. The status check and
// update are one conditional write so concurrent callers cannot both succeed.
func (s *journalService) PostJournalEntry(ctx context.Context, journalEntryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry for posting", "journal_entry_id", journalEntryID)
		}
		return nil, err
	}

	if !entry.Status.CanPost() {
		return nil, statusToPostError(entry.Status)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, entry.FiscalPeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: fiscal period %s does not exist", apperrors.ErrPeriodClosed, entry.FiscalPeriodID)
		}
		s.LogError(ctx, err, "Failed to load fiscal period for posting", "period_id", entry.FiscalPeriodID)
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrPeriodClosed, period.Name)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkEntryPosted(ctx, journalEntryID, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The conditional write missed: another caller advanced the status
			// between our read and the update. Re-read to classify.
			current, findErr := s.journalRepo.FindEntryByID(ctx, journalEntryID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, statusToPostError(current.Status)
		}
		s.LogError(ctx, err, "Failed to post journal entry", "journal_entry_id", journalEntryID)
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry posted", "journal_entry_id", journalEntryID, "posted_by", userID)
	return s.GetJournalEntry(ctx, journalEntryID)
}

// ReverseJournalEntry builds a new entry whose lines are the exact
// debit/credit inverse of the original, persists it as posted, and flips the
// original to REVERSED. The original's transaction rows are never mutated.
func (s *journalService) ReverseJournalEntry(ctx context.Context, journalEntryID string, reason string, userID string) (*domain.JournalEntry, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry for reversal", "journal_entry_id", journalEntryID)
		}
		return nil, err
	}

	if !original.Status.CanReverse() {
		if original.Status == domain.Reversed {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyReversed, original.JournalNumber)
		}
		return nil, fmt.Errorf("%w: only posted entries can be reversed, status is %s", apperrors.ErrConflict, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a reversing entry", apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindTransactionsByEntryID(ctx, journalEntryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for reversal", "journal_entry_id", journalEntryID)
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()
	reversingLines := accounting.InverseLines(originalLines, reversingID, now, userID)

	// The reversing entry carries the original's entry date and period so the
	// date-ranged reports and the period-keyed trial balance agree on where
	// the reversal lands.
	reversing := domain.JournalEntry{
		JournalEntryID:  reversingID,
		JournalNumber:   accounting.NextJournalNumber(original.EntryDate),
		EntryDate:       original.EntryDate,
		FiscalPeriodID:  original.FiscalPeriodID,
		Description:     "Reversal of " + original.JournalNumber + ": " + reason,
		Status:          domain.Posted,
		PostedAt:        &now,
		PostedBy:        &userID,
		OriginalEntryID: &original.JournalEntryID,
		ReversalReason:  reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The reversing entry posts into the original's period; that period must
	// still accept postings.
	period, err := s.periodRepo.FindPeriodByID(ctx, original.FiscalPeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrPeriodClosed, period.Name)
	}

	if err := s.journalRepo.SaveReversal(ctx, reversing, reversingLines, original.JournalEntryID, reason, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The WHERE status='POSTED' guard missed: a concurrent reversal won.
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyReversed, original.JournalNumber)
		}
		s.LogError(ctx, err, "Failed to save reversal", "journal_entry_id", journalEntryID)
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	s.LogInfo(ctx, "Journal entry reversed", "journal_entry_id", journalEntryID, "reversing_entry_id", reversingID)
	reversing.Transactions = reversingLines
	return &reversing, nil
}

// GetJournalEntry retrieves an entry with its transaction lines.
func (s *journalService) GetJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", "journal_entry_id", journalEntryID)
		}
		return nil, err
	}

	transactions, err := s.journalRepo.FindTransactionsByEntryID(ctx, journalEntryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transactions for journal entry", "journal_entry_id", journalEntryID)
		return nil, fmt.Errorf("failed to retrieve transactions for entry %s: %w", journalEntryID, apperrors.ErrInternal)
	}
	entry.Transactions = transactions
	return entry, nil
}

// ListJournalEntries retrieves a paginated list of entries, newest first.
func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	return &dto.ListJournalEntriesResponse{Entries: entries, NextToken: nextToken}, nil
}

// statusToPostError maps a non-draft status to the matching idempotency error.
func statusToPostError(status domain.JournalStatus) error {
	switch status {
	case domain.Posted:
		return apperrors.ErrAlreadyPosted
	case domain.Reversed:
		return apperrors.ErrAlreadyReversed
	default:
		return fmt.Errorf("%w: unexpected journal status %s", apperrors.ErrConflict, status)
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
