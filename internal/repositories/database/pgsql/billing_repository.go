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

type PgxBillingRepository struct {
	BaseRepository
}

// newPgxBillingRepository creates a new repository for billing calculation inputs.
func newPgxBillingRepository(pool *pgxpool.Pool) portsrepo.BillingRepositoryFacade {
	return &PgxBillingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillingRepositoryFacade = (*PgxBillingRepository)(nil)

// FindActiveAcademicPeriod returns the single active period.
func (r *PgxBillingRepository) FindActiveAcademicPeriod(ctx context.Context) (*domain.AcademicPeriod, error) {
	query := `SELECT period_id, name, is_active FROM academic_periods WHERE is_active = TRUE;`
	var p domain.AcademicPeriod
	err := r.Pool.QueryRow(ctx, query).Scan(&p.PeriodID, &p.Name, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active academic period", err)
	}
	return &p, nil
}

// FindEnrollments returns a student's enrollments for an academic period.
func (r *PgxBillingRepository) FindEnrollments(ctx context.Context, studentID, academicPeriodID string) ([]domain.Enrollment, error) {
	query := `
		SELECT enrollment_id, student_id, subject_id, academic_period_id, credits, status, calculation_required
		FROM enrollments
		WHERE student_id = $1 AND academic_period_id = $2
		ORDER BY enrollment_id;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, academicPeriodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query enrollments for student "+studentID, err)
	}
	defer rows.Close()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(
			&e.EnrollmentID,
			&e.StudentID,
			&e.SubjectID,
			&e.AcademicPeriodID,
			&e.Credits,
			&e.Status,
			&e.CalculationRequired,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan enrollment row for student "+studentID, err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating enrollment rows for student "+studentID, err)
	}
	return enrollments, nil
}

// FindFeeStructures returns every fee structure for an academic period.
func (r *PgxBillingRepository) FindFeeStructures(ctx context.Context, academicPeriodID string) ([]domain.FeeStructure, error) {
	query := `
		SELECT fee_structure_id, academic_period_id, subject_id, name, amount, is_per_credit, gl_account_id
		FROM fee_structures
		WHERE academic_period_id = $1
		ORDER BY fee_structure_id;
	`
	rows, err := r.Pool.Query(ctx, query, academicPeriodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fee structures for period "+academicPeriodID, err)
	}
	defer rows.Close()

	structures := []domain.FeeStructure{}
	for rows.Next() {
		var fs domain.FeeStructure
		if err := rows.Scan(
			&fs.FeeStructureID,
			&fs.AcademicPeriodID,
			&fs.SubjectID,
			&fs.Name,
			&fs.Amount,
			&fs.IsPerCredit,
			&fs.GLAccountID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fee structure row for period "+academicPeriodID, err)
		}
		structures = append(structures, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fee structure rows for period "+academicPeriodID, err)
	}
	return structures, nil
}

// FindAidAwards returns a student's aid awards for an academic period.
func (r *PgxBillingRepository) FindAidAwards(ctx context.Context, studentID, academicPeriodID string) ([]domain.AidAward, error) {
	query := `
		SELECT award_id, student_id, academic_period_id, source, amount, status
		FROM aid_awards
		WHERE student_id = $1 AND academic_period_id = $2
		ORDER BY award_id;
	`
	rows, err := r.Pool.Query(ctx, query, studentID, academicPeriodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query aid awards for student "+studentID, err)
	}
	defer rows.Close()

	awards := []domain.AidAward{}
	for rows.Next() {
		var a domain.AidAward
		if err := rows.Scan(&a.AwardID, &a.StudentID, &a.AcademicPeriodID, &a.Source, &a.Amount, &a.Status); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan aid award row for student "+studentID, err)
		}
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating aid award rows for student "+studentID, err)
	}
	return awards, nil
}

// ClearCalculationRequired resets the flag on the given enrollments.
func (r *PgxBillingRepository) ClearCalculationRequired(ctx context.Context, enrollmentIDs []string) error {
	if len(enrollmentIDs) == 0 {
		return nil
	}
	query := `UPDATE enrollments SET calculation_required = FALSE WHERE enrollment_id = ANY($1);`
	if _, err := r.Pool.Exec(ctx, query, enrollmentIDs); err != nil {
		return apperrors.NewAppError(500, "failed to clear calculation flag on enrollments", err)
	}
	return nil
}
