package repositories

import (
	"context"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// BillingRepositoryFacade defines read access to the billing inputs
// (enrollments, fee structures, aid awards) and the calculation flag.
type BillingRepositoryFacade interface {
	// FindActiveAcademicPeriod returns the single active period, or
	// apperrors.ErrNotFound when none is active.
	FindActiveAcademicPeriod(ctx context.Context) (*domain.AcademicPeriod, error)
	FindEnrollments(ctx context.Context, studentID, academicPeriodID string) ([]domain.Enrollment, error)
	FindFeeStructures(ctx context.Context, academicPeriodID string) ([]domain.FeeStructure, error)
	FindAidAwards(ctx context.Context, studentID, academicPeriodID string) ([]domain.AidAward, error)
	// ClearCalculationRequired resets the flag on the given enrollments.
	ClearCalculationRequired(ctx context.Context, enrollmentIDs []string) error
}
