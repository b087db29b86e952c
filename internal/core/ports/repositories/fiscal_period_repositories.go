package repositories

import (
	"context"
	"time"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// FiscalPeriodRepositoryFacade defines persistence operations for fiscal periods.
type FiscalPeriodRepositoryFacade interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	// FindPeriodForDate returns the single period containing the date, or
	// apperrors.ErrNotFound when none does.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	// CountOverlapping returns how many existing periods intersect [start, end].
	CountOverlapping(ctx context.Context, start, end time.Time) (int, error)
	// UpdatePeriodStatus flips a period between open and closed with a
	// conditional write guarded by the expected current status. Returns
	// apperrors.ErrConflict when the guard misses.
	UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.FiscalPeriodStatus, userID string, at time.Time) error
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}
