package dto

import "github.com/campuscore/finance_backend/internal/core/domain"

// CreateAccountRequest adds an account to the chart of accounts. NormalBalance
// defaults from the account type when omitted.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	AccountType   domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	Description   string               `json:"description"`
}

// UpdateAccountRequest renames or re-describes an account. Code and type are
// immutable once the account is referenced by posted transactions.
type UpdateAccountRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Code        *string             `json:"code,omitempty"`
	AccountType *domain.AccountType `json:"accountType,omitempty"`
	IsActive    *bool               `json:"isActive,omitempty"`
}

// CreateFiscalPeriodRequest adds a new posting period.
type CreateFiscalPeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}
