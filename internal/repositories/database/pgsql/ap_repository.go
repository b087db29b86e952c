package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscore/finance_backend/internal/apperrors"
	"github.com/campuscore/finance_backend/internal/core/domain"
	portsrepo "github.com/campuscore/finance_backend/internal/core/ports/repositories"
)

type PgxApRepository struct {
	BaseRepository
}

// newPgxApRepository creates a new repository for the vendor payable subledger.
func newPgxApRepository(pool *pgxpool.Pool) portsrepo.ApRepositoryFacade {
	return &PgxApRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ApRepositoryFacade = (*PgxApRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, vendor_id, invoice_date, total_amount, paid_amount, balance_due, status, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*domain.ApInvoice, error) {
	var inv domain.ApInvoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&inv.VendorID,
		&inv.InvoiceDate,
		&inv.TotalAmount,
		&inv.PaidAmount,
		&inv.BalanceDue,
		&inv.Status,
		&inv.GLJournalEntryID,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SaveInvoice persists the invoice header and its lines in one store transaction.
func (r *PgxApRepository) SaveInvoice(ctx context.Context, invoice domain.ApInvoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	invoiceQuery := `
		INSERT INTO ap_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.VendorID,
		invoice.InvoiceDate,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.BalanceDue,
		invoice.Status,
		invoice.GLJournalEntryID,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert AP invoice "+invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ap_invoice_lines (line_id, invoice_id, description, amount, gl_account_id)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range invoice.LineItems {
		batch.Queue(lineQuery, line.LineID, line.InvoiceID, line.Description, line.Amount, line.GLAccountID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for AP invoice "+invoice.InvoiceID, err)
	}
	return r.Commit(ctx, tx)
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxApRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.ApInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM ap_invoices WHERE invoice_id = $1;`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find AP invoice by ID "+invoiceID, err)
	}

	lineQuery := `
		SELECT line_id, invoice_id, description, amount, gl_account_id
		FROM ap_invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for AP invoice "+invoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.ApInvoiceLine
		if err := rows.Scan(&line.LineID, &line.InvoiceID, &line.Description, &line.Amount, &line.GLAccountID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for AP invoice "+invoiceID, err)
		}
		invoice.LineItems = append(invoice.LineItems, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for AP invoice "+invoiceID, err)
	}
	return invoice, nil
}

// FindInvoicesByIDs retrieves multiple invoices keyed by ID, without lines.
func (r *PgxApRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.ApInvoice, error) {
	if len(invoiceIDs) == 0 {
		return map[string]domain.ApInvoice{}, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM ap_invoices WHERE invoice_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query AP invoices by IDs", err)
	}
	defer rows.Close()

	invoices := make(map[string]domain.ApInvoice, len(invoiceIDs))
	for rows.Next() {
		invoice, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan AP invoice row", scanErr)
		}
		invoices[invoice.InvoiceID] = *invoice
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating AP invoice rows", err)
	}
	return invoices, nil
}

// MarkInvoicePosted stamps the invoice's GL link and persists the built
// journal entry in one store transaction, guarded for idempotency.
func (r *PgxApRepository) MarkInvoicePosted(ctx context.Context, invoiceID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE ap_invoices
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE invoice_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, invoiceID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on AP invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePayment persists the vendor payment with its allocations and applies
// each allocation to its invoice in one store transaction. Guards mirror the
// AR side.
func (r *PgxApRepository) SavePayment(ctx context.Context, payment domain.ApPayment, allocations []domain.ApPaymentAllocation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	paymentQuery := `
		INSERT INTO ap_payments (payment_id, vendor_id, payment_date, amount, method, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		payment.PaymentID,
		payment.VendorID,
		payment.PaymentDate,
		payment.Amount,
		payment.Method,
		payment.GLJournalEntryID,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert AP payment "+payment.PaymentID, err)
	}

	allocQuery := `
		INSERT INTO ap_payment_allocations (allocation_id, payment_id, invoice_id, amount)
		VALUES ($1, $2, $3, $4);
	`
	applyQuery := `
		UPDATE ap_invoices
		SET paid_amount = paid_amount + $2,
		    balance_due = balance_due - $2,
		    status = CASE
		        WHEN balance_due - $2 = 0 THEN 'PAID'
		        ELSE 'PARTIAL'
		    END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE invoice_id = $1 AND balance_due >= $2;
	`
	for _, alloc := range allocations {
		if _, err := tx.Exec(ctx, allocQuery, alloc.AllocationID, alloc.PaymentID, alloc.InvoiceID, alloc.Amount); err != nil {
			return apperrors.NewAppError(500, "failed to insert allocation for AP payment "+payment.PaymentID, err)
		}
		cmdTag, err := tx.Exec(ctx, applyQuery, alloc.InvoiceID, alloc.Amount, payment.LastUpdatedAt, payment.LastUpdatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply allocation to AP invoice "+alloc.InvoiceID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
	}
	return r.Commit(ctx, tx)
}

// FindPaymentByID retrieves a vendor payment with its allocations.
func (r *PgxApRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ApPayment, error) {
	query := `
		SELECT payment_id, vendor_id, payment_date, amount, method, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by
		FROM ap_payments
		WHERE payment_id = $1;
	`
	var p domain.ApPayment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
		&p.PaymentID,
		&p.VendorID,
		&p.PaymentDate,
		&p.Amount,
		&p.Method,
		&p.GLJournalEntryID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find AP payment by ID "+paymentID, err)
	}

	allocQuery := `
		SELECT allocation_id, payment_id, invoice_id, amount
		FROM ap_payment_allocations
		WHERE payment_id = $1
		ORDER BY allocation_id;
	`
	rows, err := r.Pool.Query(ctx, allocQuery, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query allocations for AP payment "+paymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.ApPaymentAllocation
		if err := rows.Scan(&a.AllocationID, &a.PaymentID, &a.InvoiceID, &a.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation row for AP payment "+paymentID, err)
		}
		p.Allocations = append(p.Allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating allocation rows for AP payment "+paymentID, err)
	}
	return &p, nil
}

// MarkPaymentPosted stamps the payment's GL link and persists the built
// journal entry in one store transaction.
func (r *PgxApRepository) MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE ap_payments
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE payment_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, paymentID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on AP payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
