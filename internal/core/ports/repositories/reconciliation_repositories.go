package repositories

import (
	"context"
	"time"

	"github.com/campuscore/finance_backend/internal/core/domain"
)

// ReconciliationRepositoryFacade defines persistence for reconciliations.
type ReconciliationRepositoryFacade interface {
	// SaveReconciliation persists the reconciliation header and its item
	// snapshot in one store transaction.
	SaveReconciliation(ctx context.Context, recon domain.Reconciliation, items []domain.ReconciliationItem) error
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)
	FindItems(ctx context.Context, reconciliationID string) ([]domain.ReconciliationItem, error)
	// SnapshotCandidates returns every posted transaction for the account
	// dated on or before the reconciliation date that has no prior cleared
	// reconciliation item.
	SnapshotCandidates(ctx context.Context, accountID string, asOf time.Time) ([]domain.ReconciliationItem, error)
	UpdateItemCleared(ctx context.Context, reconciliationID, transactionID string, isCleared bool, clearedDate *time.Time) error
	// CompleteReconciliation flips the status with a conditional write
	// (WHERE status = 'IN_PROGRESS'); a guard miss is apperrors.ErrConflict.
	CompleteReconciliation(ctx context.Context, reconciliationID string, userID string, note string, at time.Time) error
}
