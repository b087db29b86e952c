package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
	portssvc "github.com/campuscore/finance_backend/internal/core/ports/services"
	"github.com/campuscore/finance_backend/internal/dto"
	"github.com/campuscore/finance_backend/internal/utils/accounting"
)

// arService is the student billing subledger poster. Bills and payments post
// into the GL at most once, guarded by gl_journal_entry_id.
type arService struct {
	posterCore
	arRepo portsrepo.ArRepositoryFacade
}

// NewArService creates a new ArService.
func NewArService(arRepo portsrepo.ArRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.ArSvcFacade {
	return &arService{
		posterCore: posterCore{accountRepo: accountRepo, periodRepo: periodRepo},
		arRepo:     arRepo,
	}
}

var _ portssvc.ArSvcFacade = (*arService)(nil)

func (s *arService) CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.StudentBill, error) {
	billDate, err := dto.ParseDate(req.BillDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	billID := uuid.NewString()

	total := decimal.Zero
	lineItems := make([]domain.BillLineItem, len(req.LineItems))
	for i, item := range req.LineItems {
		if err := accounting.ValidateAmount(item.Amount); err != nil {
			return nil, fmt.Errorf("%w: line item %q: %v", apperrors.ErrValidation, item.Description, err)
		}
		lineItems[i] = domain.BillLineItem{
			LineItemID:  uuid.NewString(),
			BillID:      billID,
			Description: item.Description,
			Amount:      item.Amount,
			GLAccountID: item.GLAccountID,
		}
		total = total.Add(item.Amount)
	}

	billNumber := "BILL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	if req.BillNumber != nil && *req.BillNumber != "" {
		billNumber = *req.BillNumber
	}

	bill := domain.StudentBill{
		BillID:      billID,
		BillNumber:  billNumber,
		StudentID:   req.StudentID,
		BillDate:    billDate,
		TotalAmount: total,
		PaidAmount:  decimal.Zero,
		BalanceDue:  total,
		Status:      domain.BillOpen,
		LineItems:   lineItems,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.arRepo.SaveBill(ctx, bill); err != nil {
		s.LogError(ctx, err, "Failed to save student bill", "bill_number", billNumber)
		return nil, fmt.Errorf("failed to save student bill: %w", err)
	}

	s.LogInfo(ctx, "Student bill created", "bill_id", billID, "student_id", req.StudentID, "total", total.String())
	return &bill, nil
}

func (s *arService) GetBill(ctx context.Context, billID string) (*domain.StudentBill, error) {
	bill, err := s.arRepo.FindBillByID(ctx, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find student bill", "bill_id", billID)
		}
		return nil, err
	}
	return bill, nil
}

func (s *arService) ListBillsByStudent(ctx context.Context, studentID string) ([]domain.StudentBill, error) {
	bills, err := s.arRepo.ListBillsByStudent(ctx, studentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills for student", "student_id", studentID)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// PostBillToGL posts a bill into the GL: debit accounts receivable for the
// total, credit each line item's revenue account. At most once per bill.
func (s *arService) PostBillToGL(ctx context.Context, billID string, userID string) (*domain.StudentBill, error) {
	bill, err := s.arRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.GLJournalEntryID != nil {
		return nil, fmt.Errorf("%w: bill %s already posted as journal entry %s", apperrors.ErrAlreadyPosted, bill.BillNumber, *bill.GLJournalEntryID)
	}
	if len(bill.LineItems) == 0 {
		return nil, fmt.Errorf("%w: bill %s has no line items", apperrors.ErrValidation, bill.BillNumber)
	}

	period, err := s.resolveOpenPeriod(ctx, bill.BillDate)
	if err != nil {
		return nil, err
	}
	arAccount, err := s.resolveRoleAccount(ctx, domain.RoleAccountsReceivable)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(bill.BillDate, period.PeriodID, "Student bill "+bill.BillNumber, domain.RefStudentBill, bill.BillID, userID, now)

	lines := make([]domain.Transaction, 0, len(bill.LineItems)+1)
	lines = append(lines, newLine(entry.JournalEntryID, arAccount.AccountID, domain.DebitLine, bill.TotalAmount, "Bill "+bill.BillNumber, userID, now))
	for _, item := range bill.LineItems {
		lines = append(lines, newLine(entry.JournalEntryID, item.GLAccountID, domain.CreditLine, item.Amount, item.Description, userID, now))
	}
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrImbalancedEntry, err)
	}

	if err := s.arRepo.MarkBillPosted(ctx, billID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			// Concurrent poster won the conditional update; nothing changed.
			return nil, fmt.Errorf("%w: bill %s", apperrors.ErrAlreadyPosted, bill.BillNumber)
		}
		s.LogError(ctx, err, "Failed to post bill to GL", "bill_id", billID)
		return nil, fmt.Errorf("failed to post bill to GL: %w", err)
	}

	s.LogInfo(ctx, "Bill posted to GL", "bill_id", billID, "journal_entry_id", entry.JournalEntryID)
	return s.arRepo.FindBillByID(ctx, billID)
}

// CreatePayment records a payment and allocates it across bills. Each
// allocation atomically updates the target bill's paid amount, balance due,
// and status.
func (s *arService) CreatePayment(ctx context.Context, req dto.CreateArPaymentRequest, userID string) (*domain.ArPayment, error) {
	paymentDate, err := dto.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: payment amount: %v", apperrors.ErrValidation, err)
	}

	allocated := decimal.Zero
	billIDs := make([]string, 0, len(req.Allocations))
	for _, alloc := range req.Allocations {
		if err := accounting.ValidateAmount(alloc.Amount); err != nil {
			return nil, fmt.Errorf("%w: allocation for bill %s: %v", apperrors.ErrValidation, alloc.BillID, err)
		}
		allocated = allocated.Add(alloc.Amount)
		billIDs = append(billIDs, alloc.BillID)
	}
	if allocated.GreaterThan(req.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s exceeds payment amount %s", apperrors.ErrValidation, allocated.String(), req.Amount.String())
	}

	bills, err := s.arRepo.FindBillsByIDs(ctx, billIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch bills for payment allocation")
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	for _, alloc := range req.Allocations {
		bill, found := bills[alloc.BillID]
		if !found {
			return nil, fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, alloc.BillID)
		}
		if alloc.Amount.GreaterThan(bill.BalanceDue) {
			return nil, fmt.Errorf("%w: allocation %s exceeds balance due %s on bill %s", apperrors.ErrValidation, alloc.Amount.String(), bill.BalanceDue.String(), bill.BillNumber)
		}
	}

	now := time.Now().UTC()
	paymentID := uuid.NewString()
	allocations := make([]domain.PaymentAllocation, len(req.Allocations))
	for i, alloc := range req.Allocations {
		allocations[i] = domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    paymentID,
			BillID:       alloc.BillID,
			Amount:       alloc.Amount,
		}
	}

	payment := domain.ArPayment{
		PaymentID:   paymentID,
		StudentID:   req.StudentID,
		PaymentDate: paymentDate,
		Amount:      req.Amount,
		Method:      req.Method,
		Allocations: allocations,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.arRepo.SavePayment(ctx, payment, allocations); err != nil {
		s.LogError(ctx, err, "Failed to save payment", "student_id", req.StudentID)
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.LogInfo(ctx, "Payment recorded", "payment_id", paymentID, "amount", req.Amount.String(), "allocations", len(allocations))
	return &payment, nil
}

// PostPaymentToGL posts a payment into the GL: debit cash, credit accounts
// receivable. At most once per payment.
func (s *arService) PostPaymentToGL(ctx context.Context, paymentID string, userID string) (*domain.ArPayment, error) {
	payment, err := s.arRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.GLJournalEntryID != nil {
		return nil, fmt.Errorf("%w: payment %s already posted as journal entry %s", apperrors.ErrAlreadyPosted, paymentID, *payment.GLJournalEntryID)
	}

	period, err := s.resolveOpenPeriod(ctx, payment.PaymentDate)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.resolveRoleAccount(ctx, domain.RoleCash)
	if err != nil {
		return nil, err
	}
	arAccount, err := s.resolveRoleAccount(ctx, domain.RoleAccountsReceivable)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(payment.PaymentDate, period.PeriodID, "Student payment "+paymentID, domain.RefArPayment, paymentID, userID, now)
	lines := []domain.Transaction{
		newLine(entry.JournalEntryID, cashAccount.AccountID, domain.DebitLine, payment.Amount, "Payment received", userID, now),
		newLine(entry.JournalEntryID, arAccount.AccountID, domain.CreditLine, payment.Amount, "Payment applied to receivables", userID, now),
	}

	if err := s.arRepo.MarkPaymentPosted(ctx, paymentID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrAlreadyPosted, paymentID)
		}
		s.LogError(ctx, err, "Failed to post payment to GL", "payment_id", paymentID)
		return nil, fmt.Errorf("failed to post payment to GL: %w", err)
	}

	s.LogInfo(ctx, "Payment posted to GL", "payment_id", paymentID, "journal_entry_id", entry.JournalEntryID)
	return s.arRepo.FindPaymentByID(ctx, paymentID)
}
