package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/utils/accounting"
)

// payrollService aggregates pay cycles and posts each run to the GL at most once.
type payrollService struct {
	posterCore
	payrollRepo portsrepo.PayrollRepositoryFacade
}

// NewPayrollService creates a new PayrollService.
func NewPayrollService(payrollRepo portsrepo.PayrollRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.PayrollSvcFacade {
	return &payrollService{
		posterCore:  posterCore{accountRepo: accountRepo, periodRepo: periodRepo},
		payrollRepo: payrollRepo,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) CreateRun(ctx context.Context, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error) {
	periodStart, err := dto.ParseDate(req.PeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := dto.ParseDate(req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	payDate, err := dto.ParseDate(req.PayDate)
	if err != nil {
		return nil, err
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: payroll period end precedes start", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	runID := uuid.NewString()

	gross := decimal.Zero
	deductions := decimal.Zero
	net := decimal.Zero
	details := make([]domain.PayrollDetail, len(req.Details))
	for i, d := range req.Details {
		if err := accounting.ValidateAmount(d.GrossPay); err != nil {
			return nil, fmt.Errorf("%w: gross pay for employee %s: %v", apperrors.ErrValidation, d.EmployeeID, err)
		}
		if d.Deductions.IsNegative() || !d.Deductions.IsInteger() {
			return nil, fmt.Errorf("%w: deductions for employee %s must be a non-negative integral amount", apperrors.ErrValidation, d.EmployeeID)
		}
		if d.NetPay.IsNegative() || !d.NetPay.IsInteger() {
			return nil, fmt.Errorf("%w: net pay for employee %s must be a non-negative integral amount", apperrors.ErrValidation, d.EmployeeID)
		}
		if d.Deductions.GreaterThan(d.GrossPay) {
			return nil, fmt.Errorf("%w: deductions %s for employee %s exceed gross pay %s", apperrors.ErrValidation, d.Deductions.String(), d.EmployeeID, d.GrossPay.String())
		}
		if !d.GrossPay.Equal(d.Deductions.Add(d.NetPay)) {
			return nil, fmt.Errorf("%w: employee %s gross pay %s != deductions %s + net pay %s", apperrors.ErrValidation, d.EmployeeID, d.GrossPay.String(), d.Deductions.String(), d.NetPay.String())
		}
		details[i] = domain.PayrollDetail{
			DetailID:   uuid.NewString(),
			RunID:      runID,
			EmployeeID: d.EmployeeID,
			GrossPay:   d.GrossPay,
			Deductions: d.Deductions,
			NetPay:     d.NetPay,
		}
		gross = gross.Add(d.GrossPay)
		deductions = deductions.Add(d.Deductions)
		net = net.Add(d.NetPay)
	}

	run := domain.PayrollRun{
		RunID:           runID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		PayDate:         payDate,
		GrossPay:        gross,
		TotalDeductions: deductions,
		NetPay:          net,
		Details:         details,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.payrollRepo.SaveRun(ctx, run, details); err != nil {
		s.LogError(ctx, err, "Failed to save payroll run")
		return nil, fmt.Errorf("failed to save payroll run: %w", err)
	}

	s.LogInfo(ctx, "Payroll run created", "run_id", runID, "gross", gross.String(), "net", net.String())
	return &run, nil
}

func (s *payrollService) GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	run, err := s.payrollRepo.FindRunByID(ctx, runID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payroll run", "run_id", runID)
		}
		return nil, err
	}
	return run, nil
}

// PostRunToGL posts a payroll run: debit salaries expense for gross pay,
// credit payroll liabilities for withholdings, credit cash for net pay.
func (s *payrollService) PostRunToGL(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error) {
	run, err := s.payrollRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.GLJournalEntryID != nil {
		return nil, fmt.Errorf("%w: payroll run %s already posted as journal entry %s", apperrors.ErrAlreadyPosted, runID, *run.GLJournalEntryID)
	}

	period, err := s.resolveOpenPeriod(ctx, run.PayDate)
	if err != nil {
		return nil, err
	}
	expenseAccount, err := s.resolveRoleAccount(ctx, domain.RoleSalariesExpense)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.resolveRoleAccount(ctx, domain.RoleCash)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(run.PayDate, period.PeriodID, fmt.Sprintf("Payroll %s to %s", run.PeriodStart.Format(dto.DateFormat), run.PeriodEnd.Format(dto.DateFormat)), domain.RefPayrollRun, runID, userID, now)

	lines := make([]domain.Transaction, 0, 3)
	lines = append(lines, newLine(entry.JournalEntryID, expenseAccount.AccountID, domain.DebitLine, run.GrossPay, "Gross wages", userID, now))
	if run.TotalDeductions.IsPositive() {
		liabilityAccount, err := s.resolveRoleAccount(ctx, domain.RolePayrollLiability)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(entry.JournalEntryID, liabilityAccount.AccountID, domain.CreditLine, run.TotalDeductions, "Withholdings payable", userID, now))
	}
	lines = append(lines, newLine(entry.JournalEntryID, cashAccount.AccountID, domain.CreditLine, run.NetPay, "Net pay disbursed", userID, now))
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrImbalancedEntry, err)
	}

	if err := s.payrollRepo.MarkRunPosted(ctx, runID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			return nil, fmt.Errorf("%w: payroll run %s", apperrors.ErrAlreadyPosted, runID)
		}
		s.LogError(ctx, err, "Failed to post payroll run to GL", "run_id", runID)
		return nil, fmt.Errorf("failed to post payroll run to GL: %w", err)
	}

	s.LogInfo(ctx, "Payroll run posted to GL", "run_id", runID, "journal_entry_id", entry.JournalEntryID)
	return s.payrollRepo.FindRunByID(ctx, runID)
}
