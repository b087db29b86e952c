package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// ValidateAmount checks that a monetary value is a positive whole number of
// minor-currency units.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	if !amount.IsInteger() {
		return fmt.Errorf("amount must be an integral minor-currency value, got %s", amount.String())
	}
	return nil
}

// SumByType returns the debit and credit totals for a set of transaction lines.
func SumByType(transactions []domain.Transaction) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, txn := range transactions {
		if txn.TransactionType == domain.DebitLine {
			debits = debits.Add(txn.Amount)
		} else {
			credits = credits.Add(txn.Amount)
		}
	}
	return debits, credits
}

// ValidateBalanced checks that a journal's lines form a valid double-entry set:
// at least two lines, positive integral amounts, and equal debit/credit totals.
func ValidateBalanced(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return fmt.Errorf("journal entry must have at least two transaction lines")
	}
	for _, txn := range transactions {
		if err := ValidateAmount(txn.Amount); err != nil {
			return fmt.Errorf("invalid amount on account %s: %w", txn.AccountID, err)
		}
	}
	debits, credits := SumByType(transactions)
	if !debits.Equal(credits) {
		return fmt.Errorf("debits sum is %s and credits sum is %s", debits.String(), credits.String())
	}
	return nil
}

// SignedAmount returns the amount signed toward the account's normal balance:
// a line on the normal side increases the balance (+), the opposite side
// decreases it (-).
func SignedAmount(txnType domain.TransactionType, amount decimal.Decimal, normal domain.NormalBalance) decimal.Decimal {
	increases := (txnType == domain.DebitLine && normal == domain.DebitNormal) ||
		(txnType == domain.CreditLine && normal == domain.CreditNormal)
	if increases {
		return amount
	}
	return amount.Neg()
}

// NextJournalNumber generates a unique journal number of the form
// JE-YYYYMM-XXXXXXXX. Uniqueness comes from the uuid-derived suffix; the date
// prefix keeps numbers sortable for humans.
func NextJournalNumber(entryDate time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("JE-%s-%s", entryDate.Format("200601"), suffix)
}

// InverseLines builds the exact debit/credit inverse of the given lines for a
// reversing journal entry. Amounts and accounts are untouched.
func InverseLines(original []domain.Transaction, reversingEntryID string, now time.Time, userID string) []domain.Transaction {
	inverted := make([]domain.Transaction, len(original))
	for i, txn := range original {
		inverted[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalEntryID:  reversingEntryID,
			AccountID:       txn.AccountID,
			FundID:          txn.FundID,
			TransactionType: txn.TransactionType.Inverse(),
			Amount:          txn.Amount,
			Description:     "Reversal: " + txn.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return inverted
}
