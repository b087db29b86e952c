package dto

import "github.com/shopspring/decimal"

// PayrollDetailRequest is one employee's slice of a payroll run.
type PayrollDetailRequest struct {
	EmployeeID string          `json:"employeeID" binding:"required"`
	GrossPay   decimal.Decimal `json:"grossPay" binding:"required"`
	Deductions decimal.Decimal `json:"deductions"`
	NetPay     decimal.Decimal `json:"netPay" binding:"required"`
}

// CreatePayrollRunRequest records an aggregated pay cycle.
type CreatePayrollRunRequest struct {
	PeriodStart string                 `json:"periodStart" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string                 `json:"periodEnd" binding:"required,datetime=2006-01-02"`
	PayDate     string                 `json:"payDate" binding:"required,datetime=2006-01-02"`
	Details     []PayrollDetailRequest `json:"details" binding:"required,min=1,dive"`
}

// CreateAssetDisposalRequest records the retirement or sale of a fixed asset.
type CreateAssetDisposalRequest struct {
	AssetID                 string          `json:"assetID" binding:"required"`
	DisposalDate            string          `json:"disposalDate" binding:"required,datetime=2006-01-02"`
	Cost                    decimal.Decimal `json:"cost" binding:"required"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	Proceeds                decimal.Decimal `json:"proceeds"`
}
