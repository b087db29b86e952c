package dto

import (
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// CreateTransactionRequest is one debit or credit line in a journal entry request.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	FundID          *string                `json:"fundID,omitempty"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Description     string                 `json:"description"`
}

// CreateJournalEntryRequest creates a draft journal entry with its lines.
// JournalNumber is generated when absent.
type CreateJournalEntryRequest struct {
	JournalNumber *string                    `json:"journalNumber,omitempty"`
	EntryDate     string                     `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description   string                     `json:"description" binding:"required"`
	Transactions  []CreateTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// ReverseJournalEntryRequest carries the human-supplied reversal reason.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListJournalEntriesParams holds pagination parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of journal entries with a continuation token.
type ListJournalEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
