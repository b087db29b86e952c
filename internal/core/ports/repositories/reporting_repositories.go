package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// ReportingRepositoryFacade defines the read-only aggregate queries backing
// the financial reports. All queries consider posted journal entries only.
type ReportingRepositoryFacade interface {
	GetTrialBalanceData(ctx context.Context, fiscalPeriodID string) ([]domain.TrialBalanceRow, error)
	// GetBalanceSheetData returns asset, liability, and equity net amounts as
	// of the date, plus net income to date for the equity rollup.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, netIncome decimal.Decimal, err error)
	GetIncomeStatementData(ctx context.Context, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)
}
