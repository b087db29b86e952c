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

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll run data.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const payrollRunColumns = `run_id, period_start, period_end, pay_date, gross_pay, total_deductions, net_pay, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveRun persists the run header and its per-employee details in one store
// transaction.
func (r *PgxPayrollRepository) SaveRun(ctx context.Context, run domain.PayrollRun, details []domain.PayrollDetail) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	runQuery := `
		INSERT INTO payroll_runs (` + payrollRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, runQuery,
		run.RunID,
		run.PeriodStart,
		run.PeriodEnd,
		run.PayDate,
		run.GrossPay,
		run.TotalDeductions,
		run.NetPay,
		run.GLJournalEntryID,
		run.CreatedAt,
		run.CreatedBy,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payroll run "+run.RunID, err)
	}

	batch := &pgx.Batch{}
	detailQuery := `
		INSERT INTO payroll_details (detail_id, run_id, employee_id, gross_pay, deductions, net_pay)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, d := range details {
		batch.Queue(detailQuery, d.DetailID, d.RunID, d.EmployeeID, d.GrossPay, d.Deductions, d.NetPay)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert details for payroll run "+run.RunID, err)
	}
	return r.Commit(ctx, tx)
}

// FindRunByID retrieves a payroll run with its details.
func (r *PgxPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + payrollRunColumns + ` FROM payroll_runs WHERE run_id = $1;`
	var run domain.PayrollRun
	err := r.Pool.QueryRow(ctx, query, runID).Scan(
		&run.RunID,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.PayDate,
		&run.GrossPay,
		&run.TotalDeductions,
		&run.NetPay,
		&run.GLJournalEntryID,
		&run.CreatedAt,
		&run.CreatedBy,
		&run.LastUpdatedAt,
		&run.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll run by ID "+runID, err)
	}

	detailQuery := `
		SELECT detail_id, run_id, employee_id, gross_pay, deductions, net_pay
		FROM payroll_details
		WHERE run_id = $1
		ORDER BY detail_id;
	`
	rows, err := r.Pool.Query(ctx, detailQuery, runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query details for payroll run "+runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.PayrollDetail
		if err := rows.Scan(&d.DetailID, &d.RunID, &d.EmployeeID, &d.GrossPay, &d.Deductions, &d.NetPay); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan detail row for payroll run "+runID, err)
		}
		run.Details = append(run.Details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating detail rows for payroll run "+runID, err)
	}
	return &run, nil
}

// MarkRunPosted stamps the run's GL link and persists the built journal entry
// in one store transaction, guarded for idempotency.
func (r *PgxPayrollRepository) MarkRunPosted(ctx context.Context, runID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE payroll_runs
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE run_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, runID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on payroll run "+runID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
