package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/utils/accounting"
)

// assetService posts fixed-asset disposals into the GL at most once.
type assetService struct {
	posterCore
	assetRepo portsrepo.AssetRepositoryFacade
}

// NewAssetService creates a new AssetService.
func NewAssetService(assetRepo portsrepo.AssetRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.AssetSvcFacade {
	return &assetService{
		posterCore: posterCore{accountRepo: accountRepo, periodRepo: periodRepo},
		assetRepo:  assetRepo,
	}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

func (s *assetService) CreateDisposal(ctx context.Context, req dto.CreateAssetDisposalRequest, userID string) (*domain.AssetDisposal, error) {
	disposalDate, err := dto.ParseDate(req.DisposalDate)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Cost); err != nil {
		return nil, fmt.Errorf("%w: asset cost: %v", apperrors.ErrValidation, err)
	}
	if req.AccumulatedDepreciation.IsNegative() || !req.AccumulatedDepreciation.IsInteger() {
		return nil, fmt.Errorf("%w: accumulated depreciation must be a non-negative integral amount", apperrors.ErrValidation)
	}
	if req.AccumulatedDepreciation.GreaterThan(req.Cost) {
		return nil, fmt.Errorf("%w: accumulated depreciation %s exceeds cost %s", apperrors.ErrValidation, req.AccumulatedDepreciation.String(), req.Cost.String())
	}
	if req.Proceeds.IsNegative() || !req.Proceeds.IsInteger() {
		return nil, fmt.Errorf("%w: proceeds must be a non-negative integral amount", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	disposal := domain.AssetDisposal{
		DisposalID:              uuid.NewString(),
		AssetID:                 req.AssetID,
		DisposalDate:            disposalDate,
		Cost:                    req.Cost,
		AccumulatedDepreciation: req.AccumulatedDepreciation,
		Proceeds:                req.Proceeds,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.assetRepo.SaveDisposal(ctx, disposal); err != nil {
		s.LogError(ctx, err, "Failed to save asset disposal", "asset_id", req.AssetID)
		return nil, fmt.Errorf("failed to save asset disposal: %w", err)
	}

	s.LogInfo(ctx, "Asset disposal recorded", "disposal_id", disposal.DisposalID, "asset_id", req.AssetID)
	return &disposal, nil
}

// PostDisposalToGL removes the asset's cost and accumulated depreciation from
// the books and recognizes the gain or loss against the proceeds.
func (s *assetService) PostDisposalToGL(ctx context.Context, disposalID string, userID string) (*domain.AssetDisposal, error) {
	disposal, err := s.assetRepo.FindDisposalByID(ctx, disposalID)
	if err != nil {
		return nil, err
	}
	if disposal.GLJournalEntryID != nil {
		return nil, fmt.Errorf("%w: disposal %s already posted as journal entry %s", apperrors.ErrAlreadyPosted, disposalID, *disposal.GLJournalEntryID)
	}

	period, err := s.resolveOpenPeriod(ctx, disposal.DisposalDate)
	if err != nil {
		return nil, err
	}
	assetAccount, err := s.resolveRoleAccount(ctx, domain.RoleFixedAssets)
	if err != nil {
		return nil, err
	}
	depreciationAccount, err := s.resolveRoleAccount(ctx, domain.RoleAccumulatedDepreciation)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(disposal.DisposalDate, period.PeriodID, "Disposal of asset "+disposal.AssetID, domain.RefAssetDisposal, disposalID, userID, now)

	lines := make([]domain.Transaction, 0, 4)
	if disposal.Proceeds.IsPositive() {
		cashAccount, err := s.resolveRoleAccount(ctx, domain.RoleCash)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(entry.JournalEntryID, cashAccount.AccountID, domain.DebitLine, disposal.Proceeds, "Disposal proceeds", userID, now))
	}
	if disposal.AccumulatedDepreciation.IsPositive() {
		lines = append(lines, newLine(entry.JournalEntryID, depreciationAccount.AccountID, domain.DebitLine, disposal.AccumulatedDepreciation, "Depreciation removed", userID, now))
	}
	lines = append(lines, newLine(entry.JournalEntryID, assetAccount.AccountID, domain.CreditLine, disposal.Cost, "Asset cost removed", userID, now))

	gainOrLoss := disposal.GainOrLoss()
	if gainOrLoss.IsPositive() {
		gainAccount, err := s.resolveRoleAccount(ctx, domain.RoleGainOnDisposal)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(entry.JournalEntryID, gainAccount.AccountID, domain.CreditLine, gainOrLoss, "Gain on disposal", userID, now))
	} else if gainOrLoss.IsNegative() {
		lossAccount, err := s.resolveRoleAccount(ctx, domain.RoleLossOnDisposal)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(entry.JournalEntryID, lossAccount.AccountID, domain.DebitLine, gainOrLoss.Neg(), "Loss on disposal", userID, now))
	}
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrImbalancedEntry, err)
	}

	if err := s.assetRepo.MarkDisposalPosted(ctx, disposalID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			return nil, fmt.Errorf("%w: disposal %s", apperrors.ErrAlreadyPosted, disposalID)
		}
		s.LogError(ctx, err, "Failed to post asset disposal to GL", "disposal_id", disposalID)
		return nil, fmt.Errorf("failed to post asset disposal to GL: %w", err)
	}

	s.LogInfo(ctx, "Asset disposal posted to GL", "disposal_id", disposalID, "journal_entry_id", entry.JournalEntryID)
	return s.assetRepo.FindDisposalByID(ctx, disposalID)
}
