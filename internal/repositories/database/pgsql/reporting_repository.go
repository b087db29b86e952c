package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

// reportingRepository implements the read-only aggregate queries for reports.
// Draft entries never count; reversed originals and their posted reversing
// entries both remain in the figures and cancel out.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepositoryFacade = (*reportingRepository)(nil)

// GetTrialBalanceData retrieves per-account debit and credit totals for one
// fiscal period.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, fiscalPeriodID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			SUM(CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN t.transaction_type = 'CREDIT' THEN t.amount ELSE 0 END) AS total_credit
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		JOIN journal_entries je ON t.journal_entry_id = je.journal_entry_id
		WHERE je.fiscal_period_id = $1
			AND je.status IN ('POSTED', 'REVERSED')
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, fiscalPeriodID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetIncomeStatementData retrieves net revenue and expense activity between
// two dates inclusive.
func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.name,
			SUM(CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE -t.amount END) AS net
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		JOIN journal_entries je ON t.journal_entry_id = je.journal_entry_id
		WHERE je.entry_date BETWEEN $1 AND $2
			AND je.status IN ('POSTED', 'REVERSED')
			AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.name
		ORDER BY a.account_id
	`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying income statement data: %w", err)
	}
	defer rows.Close()

	revenue = []domain.AccountAmount{}
	expenses = []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &amount.AccountID, &amount.Name, &net); err != nil {
			return nil, nil, fmt.Errorf("error scanning income statement row: %w", err)
		}

		// Net is debit-positive; revenue grows on the credit side.
		switch accountType {
		case string(domain.Revenue):
			amount.NetAmount = net.Neg()
			revenue = append(revenue, amount)
		case string(domain.Expense):
			amount.NetAmount = net
			expenses = append(expenses, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income statement rows: %w", err)
	}
	return revenue, expenses, nil
}

// GetBalanceSheetData retrieves asset, liability, and equity net amounts as
// of the date, plus net income to date for the equity rollup.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, netIncome decimal.Decimal, err error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.name,
			SUM(CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE -t.amount END) AS net
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		JOIN journal_entries je ON t.journal_entry_id = je.journal_entry_id
		WHERE je.entry_date <= $1
			AND je.status IN ('POSTED', 'REVERSED')
		GROUP BY a.account_type, a.account_id, a.name
		ORDER BY a.account_id
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, nil, nil, decimal.Zero, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets = []domain.AccountAmount{}
	liabilities = []domain.AccountAmount{}
	equity = []domain.AccountAmount{}
	netIncome = decimal.Zero

	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &amount.AccountID, &amount.Name, &net); err != nil {
			return nil, nil, nil, decimal.Zero, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		switch accountType {
		case string(domain.Asset):
			amount.NetAmount = net
			assets = append(assets, amount)
		case string(domain.Liability):
			amount.NetAmount = net.Neg()
			liabilities = append(liabilities, amount)
		case string(domain.Equity):
			amount.NetAmount = net.Neg()
			equity = append(equity, amount)
		case string(domain.Revenue):
			netIncome = netIncome.Add(net.Neg())
		case string(domain.Expense):
			netIncome = netIncome.Sub(net)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, decimal.Zero, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}
	return assets, liabilities, equity, netIncome, nil
}
