package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
)

// reconciliationService matches ledger transactions for an account against an
// external statement balance over time.
type reconciliationService struct {
	BaseService
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconRepo portsrepo.ReconciliationRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{reconRepo: reconRepo, accountRepo: accountRepo}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateReconciliation snapshots every posted transaction for the account
// dated on or before the reconciliation date that has no prior cleared item,
// each starting uncleared.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	reconDate, err := dto.ParseDate(req.ReconciliationDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.AccountID)
		}
		return nil, err
	}

	candidates, err := s.reconRepo.SnapshotCandidates(ctx, req.AccountID, reconDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to snapshot reconciliation candidates", "account_id", req.AccountID)
		return nil, fmt.Errorf("failed to snapshot transactions: %w", err)
	}

	now := time.Now().UTC()
	reconID := uuid.NewString()
	items := make([]domain.ReconciliationItem, len(candidates))
	for i, c := range candidates {
		items[i] = domain.ReconciliationItem{
			ItemID:           uuid.NewString(),
			ReconciliationID: reconID,
			TransactionID:    c.TransactionID,
			TransactionType:  c.TransactionType,
			Amount:           c.Amount,
			IsCleared:        false,
		}
	}

	recon := domain.Reconciliation{
		ReconciliationID:   reconID,
		AccountID:          req.AccountID,
		ReconciliationDate: reconDate,
		StartingBalance:    req.StartingBalance,
		StatementBalance:   req.StatementBalance,
		Status:             domain.ReconInProgress,
		Items:              items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon, items); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation", "account_id", req.AccountID)
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	s.LogInfo(ctx, "Reconciliation created", "reconciliation_id", reconID, "account_id", req.AccountID, "items", len(items))
	return &recon, nil
}

// MarkTransactionCleared flips a single item's cleared flag. No cascading
// recompute happens beyond summary generation.
func (s *reconciliationService) MarkTransactionCleared(ctx context.Context, reconciliationID, transactionID string, isCleared bool, userID string) error {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return err
	}
	if recon.Status == domain.ReconCompleted {
		return fmt.Errorf("%w: reconciliation %s is completed", apperrors.ErrConflict, reconciliationID)
	}

	var clearedDate *time.Time
	if isCleared {
		now := time.Now().UTC()
		clearedDate = &now
	}
	if err := s.reconRepo.UpdateItemCleared(ctx, reconciliationID, transactionID, isCleared, clearedDate); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to toggle reconciliation item", "reconciliation_id", reconciliationID, "transaction_id", transactionID)
		}
		return err
	}

	s.LogDebug(ctx, "Reconciliation item toggled", "reconciliation_id", reconciliationID, "transaction_id", transactionID, "is_cleared", isCleared)
	return nil
}

// GetReconciliationSummary computes the cleared balance view. The cleared
// delta is signed toward the account's normal balance; a nonzero difference
// is surfaced, never corrected.
func (s *reconciliationService) GetReconciliationSummary(ctx context.Context, reconciliationID string) (*domain.ReconciliationSummary, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, recon.AccountID)
	if err != nil {
		return nil, err
	}
	items, err := s.reconRepo.FindItems(ctx, reconciliationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load reconciliation items", "reconciliation_id", reconciliationID)
		return nil, fmt.Errorf("failed to load reconciliation items: %w", err)
	}

	clearedDebits := decimal.Zero
	clearedCredits := decimal.Zero
	clearedCount := 0
	for _, item := range items {
		if !item.IsCleared {
			continue
		}
		clearedCount++
		if item.TransactionType == domain.DebitLine {
			clearedDebits = clearedDebits.Add(item.Amount)
		} else {
			clearedCredits = clearedCredits.Add(item.Amount)
		}
	}

	var clearedDelta decimal.Decimal
	if account.NormalBalance == domain.DebitNormal {
		clearedDelta = clearedDebits.Sub(clearedCredits)
	} else {
		clearedDelta = clearedCredits.Sub(clearedDebits)
	}

	glBalance := recon.StartingBalance.Add(clearedDelta)
	difference := glBalance.Sub(recon.StatementBalance)

	return &domain.ReconciliationSummary{
		ReconciliationID: reconciliationID,
		StartingBalance:  recon.StartingBalance,
		StatementBalance: recon.StatementBalance,
		ClearedDebits:    clearedDebits,
		ClearedCredits:   clearedCredits,
		GLBalance:        glBalance,
		Difference:       difference,
		IsBalanced:       difference.IsZero(),
		ItemCount:        len(items),
		ClearedCount:     clearedCount,
	}, nil
}

// CompleteReconciliation finishes a reconciliation regardless of balance, but
// completing with a nonzero difference requires an explicit human-supplied
// note recorded on the reconciliation.
func (s *reconciliationService) CompleteReconciliation(ctx context.Context, reconciliationID string, note string, userID string) (*domain.Reconciliation, error) {
	summary, err := s.GetReconciliationSummary(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	if !summary.IsBalanced && note == "" {
		return nil, fmt.Errorf("%w: completing an out-of-balance reconciliation (difference %s) requires a reason", apperrors.ErrValidation, summary.Difference.String())
	}

	now := time.Now().UTC()
	if err := s.reconRepo.CompleteReconciliation(ctx, reconciliationID, userID, note, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: reconciliation %s is not in progress", apperrors.ErrConflict, reconciliationID)
		}
		s.LogError(ctx, err, "Failed to complete reconciliation", "reconciliation_id", reconciliationID)
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	if !summary.IsBalanced {
		s.LogWarn(ctx, "Reconciliation completed out of balance",
			"reconciliation_id", reconciliationID,
			"difference", summary.Difference.String(),
			"note", note,
			"completed_by", userID)
	} else {
		s.LogInfo(ctx, "Reconciliation completed", "reconciliation_id", reconciliationID, "completed_by", userID)
	}
	return s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
}
