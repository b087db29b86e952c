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

// apService is the vendor payables subledger poster, the liability-side
// mirror of the AR biller.
type apService struct {
	posterCore
	apRepo portsrepo.ApRepositoryFacade
}

// NewApService creates a new ApService.
func NewApService(apRepo portsrepo.ApRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.ApSvcFacade {
	return &apService{
		posterCore: posterCore{accountRepo: accountRepo, periodRepo: periodRepo},
		apRepo:     apRepo,
	}
}

var _ portssvc.ApSvcFacade = (*apService)(nil)

func (s *apService) CreateInvoice(ctx context.Context, req dto.CreateApInvoiceRequest, userID string) (*domain.ApInvoice, error) {
	invoiceDate, err := dto.ParseDate(req.InvoiceDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()

	total := decimal.Zero
	lines := make([]domain.ApInvoiceLine, len(req.LineItems))
	for i, item := range req.LineItems {
		if err := accounting.ValidateAmount(item.Amount); err != nil {
			return nil, fmt.Errorf("%w: line item %q: %v", apperrors.ErrValidation, item.Description, err)
		}
		lines[i] = domain.ApInvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Amount:      item.Amount,
			GLAccountID: item.GLAccountID,
		}
		total = total.Add(item.Amount)
	}

	invoiceNumber := "INV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	if req.InvoiceNumber != nil && *req.InvoiceNumber != "" {
		invoiceNumber = *req.InvoiceNumber
	}

	invoice := domain.ApInvoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: invoiceNumber,
		VendorID:      req.VendorID,
		InvoiceDate:   invoiceDate,
		TotalAmount:   total,
		PaidAmount:    decimal.Zero,
		BalanceDue:    total,
		Status:        domain.InvoiceOpen,
		LineItems:     lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.apRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save vendor invoice", "invoice_number", invoiceNumber)
		return nil, fmt.Errorf("failed to save vendor invoice: %w", err)
	}

	s.LogInfo(ctx, "Vendor invoice created", "invoice_id", invoiceID, "vendor_id", req.VendorID, "total", total.String())
	return &invoice, nil
}

func (s *apService) GetInvoice(ctx context.Context, invoiceID string) (*domain.ApInvoice, error) {
	invoice, err := s.apRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor invoice", "invoice_id", invoiceID)
		}
		return nil, err
	}
	return invoice, nil
}

// PostInvoiceToGL posts an invoice into the GL: debit each line's expense
// account, credit accounts payable for the total. At most once per invoice.
func (s *apService) PostInvoiceToGL(ctx context.Context, invoiceID string, userID string) (*domain.ApInvoice, error) {
	invoice, err := s.apRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.GLJournalEntryID != nil {
		return nil, fmt.Errorf("%w: invoice %s already posted as journal entry %s", apperrors.ErrAlreadyPosted, invoice.InvoiceNumber, *invoice.GLJournalEntryID)
	}
	if len(invoice.LineItems) == 0 {
		return nil, fmt.Errorf("%w: invoice %s has no line items", apperrors.ErrValidation, invoice.InvoiceNumber)
	}

	period, err := s.resolveOpenPeriod(ctx, invoice.InvoiceDate)
	if err != nil {
		return nil, err
	}
	apAccount, err := s.resolveRoleAccount(ctx, domain.RoleAccountsPayable)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(invoice.InvoiceDate, period.PeriodID, "Vendor invoice "+invoice.InvoiceNumber, domain.RefApInvoice, invoice.InvoiceID, userID, now)

	lines := make([]domain.Transaction, 0, len(invoice.LineItems)+1)
	for _, item := range invoice.LineItems {
		lines = append(lines, newLine(entry.JournalEntryID, item.GLAccountID, domain.DebitLine, item.Amount, item.Description, userID, now))
	}
	lines = append(lines, newLine(entry.JournalEntryID, apAccount.AccountID, domain.CreditLine, invoice.TotalAmount, "Invoice "+invoice.InvoiceNumber, userID, now))
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrImbalancedEntry, err)
	}

	if err := s.apRepo.MarkInvoicePosted(ctx, invoiceID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrAlreadyPosted, invoice.InvoiceNumber)
		}
		s.LogError(ctx, err, "Failed to post invoice to GL", "invoice_id", invoiceID)
		return nil, fmt.Errorf("failed to post invoice to GL: %w", err)
	}

	s.LogInfo(ctx, "Invoice posted to GL", "invoice_id", invoiceID, "journal_entry_id", entry.JournalEntryID)
	return s.apRepo.FindInvoiceByID(ctx, invoiceID)
}

// CreatePayment records a vendor payment and allocates it across invoices.
func (s *apService) CreatePayment(ctx context.Context, req dto.CreateApPaymentRequest, userID string) (*domain.ApPayment, error) {
	paymentDate, err := dto.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: payment amount: %v", apperrors.ErrValidation, err)
	}

	allocated := decimal.Zero
	invoiceIDs := make([]string, 0, len(req.Allocations))
	for _, alloc := range req.Allocations {
		if err := accounting.ValidateAmount(alloc.Amount); err != nil {
			return nil, fmt.Errorf("%w: allocation for invoice %s: %v", apperrors.ErrValidation, alloc.InvoiceID, err)
		}
		allocated = allocated.Add(alloc.Amount)
		invoiceIDs = append(invoiceIDs, alloc.InvoiceID)
	}
	if allocated.GreaterThan(req.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s exceeds payment amount %s", apperrors.ErrValidation, allocated.String(), req.Amount.String())
	}

	invoices, err := s.apRepo.FindInvoicesByIDs(ctx, invoiceIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch invoices for payment allocation")
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	for _, alloc := range req.Allocations {
		invoice, found := invoices[alloc.InvoiceID]
		if !found {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, alloc.InvoiceID)
		}
		if alloc.Amount.GreaterThan(invoice.BalanceDue) {
			return nil, fmt.Errorf("%w: allocation %s exceeds balance due %s on invoice %s", apperrors.ErrValidation, alloc.Amount.String(), invoice.BalanceDue.String(), invoice.InvoiceNumber)
		}
	}

	now := time.Now().UTC()
	paymentID := uuid.NewString()
	allocations := make([]domain.ApPaymentAllocation, len(req.Allocations))
	for i, alloc := range req.Allocations {
		allocations[i] = domain.ApPaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    paymentID,
			InvoiceID:    alloc.InvoiceID,
			Amount:       alloc.Amount,
		}
	}

	payment := domain.ApPayment{
		PaymentID:   paymentID,
		VendorID:    req.VendorID,
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

	if err := s.apRepo.SavePayment(ctx, payment, allocations); err != nil {
		s.LogError(ctx, err, "Failed to save vendor payment", "vendor_id", req.VendorID)
		return nil, fmt.Errorf("failed to save vendor payment: %w", err)
	}

	s.LogInfo(ctx, "Vendor payment recorded", "payment_id", paymentID, "amount", req.Amount.String())
	return &payment, nil
}

// PostPaymentToGL posts a vendor payment: debit accounts payable, credit cash.
func (s *apService) PostPaymentToGL(ctx context.Context, paymentID string, userID string) (*domain.ApPayment, error) {
	payment, err := s.apRepo.FindPaymentByID(ctx, paymentID)
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
	apAccount, err := s.resolveRoleAccount(ctx, domain.RoleAccountsPayable)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.resolveRoleAccount(ctx, domain.RoleCash)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := s.newPostedEntry(payment.PaymentDate, period.PeriodID, "Vendor payment "+paymentID, domain.RefApPayment, paymentID, userID, now)
	lines := []domain.Transaction{
		newLine(entry.JournalEntryID, apAccount.AccountID, domain.DebitLine, payment.Amount, "Payment applied to payables", userID, now),
		newLine(entry.JournalEntryID, cashAccount.AccountID, domain.CreditLine, payment.Amount, "Payment issued", userID, now),
	}

	if err := s.apRepo.MarkPaymentPosted(ctx, paymentID, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPosted) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrAlreadyPosted, paymentID)
		}
		s.LogError(ctx, err, "Failed to post vendor payment to GL", "payment_id", paymentID)
		return nil, fmt.Errorf("failed to post vendor payment to GL: %w", err)
	}

	s.LogInfo(ctx, "Vendor payment posted to GL", "payment_id", paymentID, "journal_entry_id", entry.JournalEntryID)
	return s.apRepo.FindPaymentByID(ctx, paymentID)
}
