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

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

const fiscalPeriodColumns = `period_id, name, start_date, end_date, status, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.ClosedBy,
		&p.ClosedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePeriod inserts a new fiscal period.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (` + fiscalPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.Status,
		period.ClosedBy,
		period.ClosedAt,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert fiscal period "+period.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a fiscal period by its ID.
func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE period_id = $1;`
	period, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal period by ID "+periodID, err)
	}
	return period, nil
}

// FindPeriodForDate returns the single period whose range contains the date.
// Ranges never overlap, so at most one row matches.
func (r *PgxFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + fiscalPeriodColumns + `
		FROM fiscal_periods
		WHERE start_date <= $1 AND end_date >= $1;
	`
	period, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal period for date", err)
	}
	return period, nil
}

// CountOverlapping returns how many existing periods intersect [start, end].
func (r *PgxFiscalPeriodRepository) CountOverlapping(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM fiscal_periods
		WHERE start_date <= $2 AND end_date >= $1;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count overlapping fiscal periods", err)
	}
	return count, nil
}

// UpdatePeriodStatus flips the period status with a conditional write guarded
// by the expected current status. A guard miss is apperrors.ErrConflict.
func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.FiscalPeriodStatus, userID string, at time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $3,
		    closed_by = CASE WHEN $3 = 'CLOSED' THEN $4 ELSE NULL END,
		    closed_at = CASE WHEN $3 = 'CLOSED' THEN $5 ELSE NULL END,
		    last_updated_at = $5,
		    last_updated_by = $4
		WHERE period_id = $1 AND status = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, periodID, from, to, userID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for fiscal period "+periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ListPeriods returns all fiscal periods, most recent first.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods ORDER BY start_date DESC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal periods", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		period, scanErr := scanFiscalPeriod(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal period row", scanErr)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal period rows", err)
	}
	return periods, nil
}
