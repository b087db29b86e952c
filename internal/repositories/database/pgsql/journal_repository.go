package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	"github.com/campuscore/finance_backend/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry and
// transaction line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `journal_entry_id, journal_number, entry_date, fiscal_period_id, description, status, reference_type, reference_id, posted_at, posted_by, original_entry_id, reversing_entry_id, reversal_reason, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, journal_entry_id, account_id, fund_id, transaction_type, amount, description, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.JournalEntryID,
		&e.JournalNumber,
		&e.EntryDate,
		&e.FiscalPeriodID,
		&e.Description,
		&e.Status,
		&e.ReferenceType,
		&e.ReferenceID,
		&e.PostedAt,
		&e.PostedBy,
		&e.OriginalEntryID,
		&e.ReversingEntryID,
		&e.ReversalReason,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.JournalEntryID,
		&t.AccountID,
		&t.FundID,
		&t.TransactionType,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// insertJournalEntryTx inserts an entry and batches its transaction lines
// inside the caller's store transaction. Shared with the subledger
// repositories so GL writes and guard stamps commit atomically.
func insertJournalEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, transactions []domain.Transaction) error {
	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.JournalEntryID,
		entry.JournalNumber,
		entry.EntryDate,
		entry.FiscalPeriodID,
		entry.Description,
		entry.Status,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.PostedAt,
		entry.PostedBy,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.ReversalReason,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.JournalEntryID, err)
	}

	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, txn := range transactions {
		batch.Queue(txnQuery,
			txn.TransactionID,
			txn.JournalEntryID,
			txn.AccountID,
			txn.FundID,
			txn.TransactionType,
			txn.Amount,
			txn.Description,
			txn.CreatedAt,
			txn.CreatedBy,
			txn.LastUpdatedAt,
			txn.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction batch for journal entry "+entry.JournalEntryID, err)
	}
	return nil
}

// SaveEntry persists an entry and all of its lines in one store transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry by its ID, without its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE journal_entry_id = $1;`
	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, journalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+journalEntryID, err)
	}
	return entry, nil
}

// FindTransactionsByEntryID retrieves all lines for a journal entry.
func (r *PgxJournalRepository) FindTransactionsByEntryID(ctx context.Context, journalEntryID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE journal_entry_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal entry "+journalEntryID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for journal entry "+journalEntryID, scanErr)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for journal entry "+journalEntryID, err)
	}
	return transactions, nil
}

// MarkEntryPosted performs the conditional status flip. The WHERE status
// guard makes concurrent double-posting impossible; a guard miss surfaces as
// apperrors.ErrConflict for the caller to classify.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, journalEntryID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED',
		    posted_at = $2,
		    posted_by = $3,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE journal_entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalEntryID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to post journal entry "+journalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// SaveReversal persists the reversing entry with its lines and flips the
// original to REVERSED in the same store transaction. The original's lines
// are never touched. The WHERE status = 'POSTED' guard serializes concurrent
// reversal attempts; a miss aborts the whole transaction with
// apperrors.ErrConflict.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, transactions []domain.Transaction, originalEntryID string, reason string, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	flipQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED',
		    reversing_entry_id = $2,
		    reversal_reason = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE journal_entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, flipQuery, originalEntryID, reversing.JournalEntryID, reason, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to flip journal entry "+originalEntryID+" to reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertJournalEntryTx(ctx, tx, reversing, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListEntries retrieves a paginated list of journal entries using token-based
// pagination, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalEntryColumns + ` FROM journal_entries`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, lastEntryDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, scanErr := scanJournalEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", scanErr)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}
