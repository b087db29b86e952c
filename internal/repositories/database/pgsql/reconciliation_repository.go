package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, account_id, reconciliation_date, starting_balance, statement_balance, status, completed_by, completed_at, completion_note, created_at, created_by, last_updated_at, last_updated_by`

// SaveReconciliation persists the reconciliation header and its item snapshot
// in one store transaction.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.Reconciliation, items []domain.ReconciliationItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		recon.ReconciliationID,
		recon.AccountID,
		recon.ReconciliationDate,
		recon.StartingBalance,
		recon.StatementBalance,
		recon.Status,
		recon.CompletedBy,
		recon.CompletedAt,
		recon.CompletionNote,
		recon.CreatedAt,
		recon.CreatedBy,
		recon.LastUpdatedAt,
		recon.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation "+recon.ReconciliationID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO reconciliation_items (item_id, reconciliation_id, transaction_id, transaction_type, amount, is_cleared, cleared_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		batch.Queue(itemQuery,
			item.ItemID,
			item.ReconciliationID,
			item.TransactionID,
			item.TransactionType,
			item.Amount,
			item.IsCleared,
			item.ClearedDate,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert items for reconciliation "+recon.ReconciliationID, err)
	}
	return r.Commit(ctx, tx)
}

// FindReconciliationByID retrieves a reconciliation header by its ID.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1;`
	var rec domain.Reconciliation
	err := r.Pool.QueryRow(ctx, query, reconciliationID).Scan(
		&rec.ReconciliationID,
		&rec.AccountID,
		&rec.ReconciliationDate,
		&rec.StartingBalance,
		&rec.StatementBalance,
		&rec.Status,
		&rec.CompletedBy,
		&rec.CompletedAt,
		&rec.CompletionNote,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation by ID "+reconciliationID, err)
	}
	return &rec, nil
}

// FindItems retrieves every item in a reconciliation snapshot.
func (r *PgxReconciliationRepository) FindItems(ctx context.Context, reconciliationID string) ([]domain.ReconciliationItem, error) {
	query := `
		SELECT item_id, reconciliation_id, transaction_id, transaction_type, amount, is_cleared, cleared_date
		FROM reconciliation_items
		WHERE reconciliation_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	items := []domain.ReconciliationItem{}
	for rows.Next() {
		var item domain.ReconciliationItem
		if err := rows.Scan(
			&item.ItemID,
			&item.ReconciliationID,
			&item.TransactionID,
			&item.TransactionType,
			&item.Amount,
			&item.IsCleared,
			&item.ClearedDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for reconciliation "+reconciliationID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for reconciliation "+reconciliationID, err)
	}
	return items, nil
}

// SnapshotCandidates returns every transaction for the account dated on or
// before the reconciliation date that has never been cleared in a prior
// reconciliation. REVERSED entries are included alongside POSTED ones: a
// reversed entry's lines still hit the ledger, and both halves of a reversal
// pair must surface so they can be cleared (or left uncleared) together.
func (r *PgxReconciliationRepository) SnapshotCandidates(ctx context.Context, accountID string, asOf time.Time) ([]domain.ReconciliationItem, error) {
	query := `
		SELECT t.transaction_id, t.transaction_type, t.amount
		FROM transactions t
		JOIN journal_entries je ON t.journal_entry_id = je.journal_entry_id
		WHERE t.account_id = $1
		  AND je.status IN ('POSTED', 'REVERSED')
		  AND je.entry_date <= $2
		  AND NOT EXISTS (
		      SELECT 1
		      FROM reconciliation_items ri
		      WHERE ri.transaction_id = t.transaction_id AND ri.is_cleared = TRUE
		  )
		ORDER BY je.entry_date, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliation candidates for account "+accountID, err)
	}
	defer rows.Close()

	candidates := []domain.ReconciliationItem{}
	for rows.Next() {
		var c domain.ReconciliationItem
		if err := rows.Scan(&c.TransactionID, &c.TransactionType, &c.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate row for account "+accountID, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate rows for account "+accountID, err)
	}
	return candidates, nil
}

// UpdateItemCleared toggles the cleared flag on one snapshot item.
func (r *PgxReconciliationRepository) UpdateItemCleared(ctx context.Context, reconciliationID, transactionID string, isCleared bool, clearedDate *time.Time) error {
	query := `
		UPDATE reconciliation_items
		SET is_cleared = $3,
		    cleared_date = $4
		WHERE reconciliation_id = $1 AND transaction_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, reconciliationID, transactionID, isCleared, clearedDate)
	if err != nil {
		return apperrors.NewAppError(500, "failed to toggle item for reconciliation "+reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompleteReconciliation flips the status to COMPLETED with a conditional
// write guarded by the in-progress status. A guard miss is
// apperrors.ErrConflict.
func (r *PgxReconciliationRepository) CompleteReconciliation(ctx context.Context, reconciliationID string, userID string, note string, at time.Time) error {
	query := `
		UPDATE reconciliations
		SET status = 'COMPLETED',
		    completed_by = $2,
		    completed_at = $3,
		    completion_note = $4,
		    last_updated_at = $3,
		    last_updated_by = $2
		WHERE reconciliation_id = $1 AND status = 'IN_PROGRESS';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, reconciliationID, userID, at, note)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete reconciliation "+reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
