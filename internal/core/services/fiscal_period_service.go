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
)

// fiscalPeriodService owns period boundaries and open/closed state. It is the
// gate for all postings: an entry only posts while its period is open.
type fiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{periodRepo: periodRepo}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: period end date %s precedes start date %s", apperrors.ErrValidation, req.EndDate, req.StartDate)
	}

	overlapping, err := s.periodRepo.CountOverlapping(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to check for overlapping periods")
		return nil, fmt.Errorf("failed to check for overlapping periods: %w", err)
	}
	if overlapping > 0 {
		return nil, fmt.Errorf("%w: period range %s..%s overlaps an existing period", apperrors.ErrConflict, req.StartDate, req.EndDate)
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal period", "name", req.Name)
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period created", "period_id", period.PeriodID, "name", period.Name)
	return &period, nil
}

func (s *fiscalPeriodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fiscal period", "period_id", periodID)
		}
		return nil, err
	}
	return period, nil
}

func (s *fiscalPeriodService) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no fiscal period contains date %s", apperrors.ErrNotFound, date.Format(dto.DateFormat))
		}
		s.LogError(ctx, err, "Failed to find fiscal period for date", "date", date.Format(dto.DateFormat))
		return nil, err
	}
	return period, nil
}

func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	now := time.Now().UTC()
	err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, domain.PeriodClosed, userID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Guard missed: re-read to tell a missing period apart from one in
			// the wrong state.
			if _, findErr := s.periodRepo.FindPeriodByID(ctx, periodID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: fiscal period %s is not open", apperrors.ErrConflict, periodID)
		}
		s.LogError(ctx, err, "Failed to close fiscal period", "period_id", periodID)
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period closed", "period_id", periodID, "closed_by", userID)
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

func (s *fiscalPeriodService) ReopenPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	now := time.Now().UTC()
	err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, domain.PeriodOpen, userID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if _, findErr := s.periodRepo.FindPeriodByID(ctx, periodID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: fiscal period %s is not closed", apperrors.ErrConflict, periodID)
		}
		s.LogError(ctx, err, "Failed to reopen fiscal period", "period_id", periodID)
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period reopened", "period_id", periodID, "reopened_by", userID)
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods")
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	return periods, nil
}
