package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates which side naturally increases an account's balance.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal balance for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// AccountRole names a stable Chart-of-Accounts role used by subledger posters
// instead of literal account ids. Roles are mapped to accounts in seed data.
type AccountRole string

const (
	RoleCash                    AccountRole = "cash"
	RoleAccountsReceivable      AccountRole = "accounts_receivable"
	RoleTuitionRevenue          AccountRole = "tuition_revenue"
	RoleAccountsPayable         AccountRole = "accounts_payable"
	RoleSalariesExpense         AccountRole = "salaries_expense"
	RolePayrollLiability        AccountRole = "payroll_liability"
	RoleFixedAssets             AccountRole = "fixed_assets"
	RoleAccumulatedDepreciation AccountRole = "accumulated_depreciation"
	RoleGainOnDisposal          AccountRole = "gain_on_disposal"
	RoleLossOnDisposal          AccountRole = "loss_on_disposal"
)

// Account represents a ledger account within the chart of accounts.
// Code and type become immutable once the account is referenced by a posted
// transaction.
type Account struct {
	AccountID     string        `json:"accountID"` // Primary key (UUID)
	Code          string        `json:"code"`      // Unique, user-facing account code
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
	Description   string        `json:"description"` // Nullable user description
	IsActive      bool          `json:"isActive"`
	AuditFields
}

// Fund is an optional dimension tagging a transaction to a restricted or
// unrestricted pool. Orthogonal to Account.
type Fund struct {
	FundID     string `json:"fundID"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Restricted bool   `json:"restricted"`
	AuditFields
}
