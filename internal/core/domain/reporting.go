package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport is the full trial balance for one fiscal period.
type TrialBalanceReport struct {
	FiscalPeriodID string            `json:"fiscalPeriodID"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebits    decimal.Decimal   `json:"totalDebits"`
	TotalCredits   decimal.Decimal   `json:"totalCredits"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport covers revenue and expense activity over a date range.
type IncomeStatementReport struct {
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheetReport is the as-of-date position. Net income to date is rolled
// into the equity section as a derived line.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}
