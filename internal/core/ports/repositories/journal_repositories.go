package repositories

import (
	"context"
	"time"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// JournalRepositoryFacade defines persistence operations for journal entries
// and their transaction lines. Entry-plus-lines writes are atomic: partial
// writes are never observable.
type JournalRepositoryFacade interface {
	// SaveEntry persists an entry and all of its lines in one store transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error
	FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	FindTransactionsByEntryID(ctx context.Context, journalEntryID string) ([]domain.Transaction, error)
	// MarkEntryPosted performs the conditional status flip
	// (UPDATE ... WHERE status = 'DRAFT'). Returns apperrors.ErrConflict when
	// the guard matches no row; callers re-read to classify the miss.
	MarkEntryPosted(ctx context.Context, journalEntryID string, userID string, at time.Time) error
	// SaveReversal persists the reversing entry with its lines and flips the
	// original to REVERSED (guarded by WHERE status = 'POSTED') in the same
	// store transaction. The original's lines are never touched.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, transactions []domain.Transaction, originalEntryID string, reason string, userID string, at time.Time) error
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}
