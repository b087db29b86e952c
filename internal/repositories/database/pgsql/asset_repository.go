package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

type PgxAssetRepository struct {
	BaseRepository
}

// newPgxAssetRepository creates a new repository for asset disposal data.
func newPgxAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepositoryFacade {
	return &PgxAssetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

const disposalColumns = `disposal_id, asset_id, disposal_date, cost, accumulated_depreciation, proceeds, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveDisposal persists a disposal record.
func (r *PgxAssetRepository) SaveDisposal(ctx context.Context, disposal domain.AssetDisposal) error {
	query := `
		INSERT INTO asset_disposals (` + disposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		disposal.DisposalID,
		disposal.AssetID,
		disposal.DisposalDate,
		disposal.Cost,
		disposal.AccumulatedDepreciation,
		disposal.Proceeds,
		disposal.GLJournalEntryID,
		disposal.CreatedAt,
		disposal.CreatedBy,
		disposal.LastUpdatedAt,
		disposal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert asset disposal "+disposal.DisposalID, err)
	}
	return nil
}

// FindDisposalByID retrieves a disposal by its ID.
func (r *PgxAssetRepository) FindDisposalByID(ctx context.Context, disposalID string) (*domain.AssetDisposal, error) {
	query := `SELECT ` + disposalColumns + ` FROM asset_disposals WHERE disposal_id = $1;`
	var d domain.AssetDisposal
	err := r.Pool.QueryRow(ctx, query, disposalID).Scan(
		&d.DisposalID,
		&d.AssetID,
		&d.DisposalDate,
		&d.Cost,
		&d.AccumulatedDepreciation,
		&d.Proceeds,
		&d.GLJournalEntryID,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find asset disposal by ID "+disposalID, err)
	}
	return &d, nil
}

// MarkDisposalPosted stamps the disposal's GL link and persists the built
// journal entry in one store transaction, guarded for idempotency.
func (r *PgxAssetRepository) MarkDisposalPosted(ctx context.Context, disposalID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE asset_disposals
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE disposal_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, disposalID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on asset disposal "+disposalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
