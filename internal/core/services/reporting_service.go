package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
)

// reportingService produces read-only derived views over posted journal
// entries. Reports are point-in-time snapshots; consistency under concurrent
// posting is not guaranteed.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	periodRepo    portsrepo.FiscalPeriodRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, periodRepo: periodRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists per-account debit and credit totals for one fiscal
// period. Grand totals of a well-formed ledger are always equal.
func (s *reportingService) TrialBalance(ctx context.Context, fiscalPeriodID string) (*domain.TrialBalanceReport, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, fiscalPeriodID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, fiscalPeriodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", "fiscal_period_id", fiscalPeriodID)
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.Debit)
		totalCredits = totalCredits.Add(row.Credit)
	}
	if !totalDebits.Equal(totalCredits) {
		s.LogWarn(ctx, "Trial balance totals differ",
			"fiscal_period_id", fiscalPeriodID,
			"total_debits", totalDebits.String(),
			"total_credits", totalCredits.String())
	}

	return &domain.TrialBalanceReport{
		FiscalPeriodID: fiscalPeriodID,
		Rows:           rows,
		TotalDebits:    totalDebits,
		TotalCredits:   totalCredits,
	}, nil
}

// BalanceSheet reports the position as of a date. Net income to date appears
// as a derived equity line so that assets = liabilities + equity holds.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, netIncome, err := s.reportingRepo.GetBalanceSheetData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet", "as_of", asOf.Format("2006-01-02"))
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}

	equity = append(equity, domain.AccountAmount{
		Name:      "Net Income",
		NetAmount: netIncome,
	})

	report := &domain.BalanceSheetReport{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
	}
	for _, a := range assets {
		report.TotalAssets = report.TotalAssets.Add(a.NetAmount)
	}
	for _, l := range liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(l.NetAmount)
	}
	for _, e := range equity {
		report.TotalEquity = report.TotalEquity.Add(e.NetAmount)
	}
	return report, nil
}

// IncomeStatement reports revenue and expense activity over a date range.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	revenue, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build income statement",
			"from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"))
		return nil, fmt.Errorf("failed to build income statement: %w", err)
	}

	report := &domain.IncomeStatementReport{
		Revenue:  revenue,
		Expenses: expenses,
	}
	for _, r := range revenue {
		report.TotalRevenue = report.TotalRevenue.Add(r.NetAmount)
	}
	for _, e := range expenses {
		report.TotalExpenses = report.TotalExpenses.Add(e.NetAmount)
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}
