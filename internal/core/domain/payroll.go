package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRun aggregates one pay cycle across all employees. It posts to the
// GL at most once via the GLJournalEntryID guard.
type PayrollRun struct {
	RunID            string          `json:"runID"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	PayDate          time.Time       `json:"payDate"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	NetPay           decimal.Decimal `json:"netPay"`
	GLJournalEntryID *string         `json:"glJournalEntryID,omitempty"`
	Details          []PayrollDetail `json:"details,omitempty"`
	AuditFields
}

// PayrollDetail is one employee's slice of a payroll run.
type PayrollDetail struct {
	DetailID   string          `json:"detailID"`
	RunID      string          `json:"runID"`
	EmployeeID string          `json:"employeeID"`
	GrossPay   decimal.Decimal `json:"grossPay"`
	Deductions decimal.Decimal `json:"deductions"`
	NetPay     decimal.Decimal `json:"netPay"`
}
