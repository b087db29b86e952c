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

type PgxArRepository struct {
	BaseRepository
}

// newPgxArRepository creates a new repository for the student billing subledger.
func newPgxArRepository(pool *pgxpool.Pool) portsrepo.ArRepositoryFacade {
	return &PgxArRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ArRepositoryFacade = (*PgxArRepository)(nil)

const billColumns = `bill_id, bill_number, student_id, bill_date, total_amount, paid_amount, balance_due, status, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (*domain.StudentBill, error) {
	var b domain.StudentBill
	err := row.Scan(
		&b.BillID,
		&b.BillNumber,
		&b.StudentID,
		&b.BillDate,
		&b.TotalAmount,
		&b.PaidAmount,
		&b.BalanceDue,
		&b.Status,
		&b.GLJournalEntryID,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBill persists the bill header and its line items in one store transaction.
func (r *PgxArRepository) SaveBill(ctx context.Context, bill domain.StudentBill) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	billQuery := `
		INSERT INTO student_bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, billQuery,
		bill.BillID,
		bill.BillNumber,
		bill.StudentID,
		bill.BillDate,
		bill.TotalAmount,
		bill.PaidAmount,
		bill.BalanceDue,
		bill.Status,
		bill.GLJournalEntryID,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert student bill "+bill.BillID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO bill_line_items (line_item_id, bill_id, description, amount, gl_account_id)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range bill.LineItems {
		batch.Queue(lineQuery, line.LineItemID, line.BillID, line.Description, line.Amount, line.GLAccountID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert line items for bill "+bill.BillID, err)
	}
	return r.Commit(ctx, tx)
}

// FindBillByID retrieves a bill with its line items.
func (r *PgxArRepository) FindBillByID(ctx context.Context, billID string) (*domain.StudentBill, error) {
	query := `SELECT ` + billColumns + ` FROM student_bills WHERE bill_id = $1;`
	bill, err := scanBill(r.Pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bill by ID "+billID, err)
	}

	lineQuery := `
		SELECT line_item_id, bill_id, description, amount, gl_account_id
		FROM bill_line_items
		WHERE bill_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, billID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for bill "+billID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.BillLineItem
		if err := rows.Scan(&line.LineItemID, &line.BillID, &line.Description, &line.Amount, &line.GLAccountID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for bill "+billID, err)
		}
		bill.LineItems = append(bill.LineItems, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for bill "+billID, err)
	}
	return bill, nil
}

// FindBillsByIDs retrieves multiple bills keyed by ID, without line items.
// Missing IDs are simply absent from the result map.
func (r *PgxArRepository) FindBillsByIDs(ctx context.Context, billIDs []string) (map[string]domain.StudentBill, error) {
	if len(billIDs) == 0 {
		return map[string]domain.StudentBill{}, nil
	}
	query := `SELECT ` + billColumns + ` FROM student_bills WHERE bill_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, billIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bills by IDs", err)
	}
	defer rows.Close()

	bills := make(map[string]domain.StudentBill, len(billIDs))
	for rows.Next() {
		bill, scanErr := scanBill(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bill row", scanErr)
		}
		bills[bill.BillID] = *bill
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bill rows", err)
	}
	return bills, nil
}

// ListBillsByStudent returns a student's bills, newest first.
func (r *PgxArRepository) ListBillsByStudent(ctx context.Context, studentID string) ([]domain.StudentBill, error) {
	query := `SELECT ` + billColumns + ` FROM student_bills WHERE student_id = $1 ORDER BY bill_date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bills for student "+studentID, err)
	}
	defer rows.Close()

	bills := []domain.StudentBill{}
	for rows.Next() {
		bill, scanErr := scanBill(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan bill row for student "+studentID, scanErr)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bill rows for student "+studentID, err)
	}
	return bills, nil
}

// MarkBillPosted stamps the bill's GL link and persists the built journal
// entry in one store transaction. The WHERE gl_journal_entry_id IS NULL guard
// makes posting idempotent; a miss aborts with apperrors.ErrAlreadyPosted and
// nothing written.
func (r *PgxArRepository) MarkBillPosted(ctx context.Context, billID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE student_bills
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE bill_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, billID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on bill "+billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePayment persists the payment with its allocations and applies each
// allocation to its bill in one store transaction. Every bill update is
// guarded by balance_due >= allocation amount so concurrent payments can
// never overdraw a bill; a guard miss aborts with apperrors.ErrConflict.
func (r *PgxArRepository) SavePayment(ctx context.Context, payment domain.ArPayment, allocations []domain.PaymentAllocation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	paymentQuery := `
		INSERT INTO ar_payments (payment_id, student_id, payment_date, amount, method, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		payment.PaymentID,
		payment.StudentID,
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
		return apperrors.NewAppError(500, "failed to insert AR payment "+payment.PaymentID, err)
	}

	allocQuery := `
		INSERT INTO payment_allocations (allocation_id, payment_id, bill_id, amount)
		VALUES ($1, $2, $3, $4);
	`
	applyQuery := `
		UPDATE student_bills
		SET paid_amount = paid_amount + $2,
		    balance_due = balance_due - $2,
		    status = CASE
		        WHEN balance_due - $2 = 0 THEN 'PAID'
		        ELSE 'PARTIAL'
		    END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE bill_id = $1 AND balance_due >= $2;
	`
	for _, alloc := range allocations {
		if _, err := tx.Exec(ctx, allocQuery, alloc.AllocationID, alloc.PaymentID, alloc.BillID, alloc.Amount); err != nil {
			return apperrors.NewAppError(500, "failed to insert allocation for payment "+payment.PaymentID, err)
		}
		cmdTag, err := tx.Exec(ctx, applyQuery, alloc.BillID, alloc.Amount, payment.LastUpdatedAt, payment.LastUpdatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply allocation to bill "+alloc.BillID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
	}
	return r.Commit(ctx, tx)
}

// FindPaymentByID retrieves a payment with its allocations.
func (r *PgxArRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ArPayment, error) {
	query := `
		SELECT payment_id, student_id, payment_date, amount, method, gl_journal_entry_id, created_at, created_by, last_updated_at, last_updated_by
		FROM ar_payments
		WHERE payment_id = $1;
	`
	var p domain.ArPayment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
		&p.PaymentID,
		&p.StudentID,
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
		return nil, apperrors.NewAppError(500, "failed to find AR payment by ID "+paymentID, err)
	}

	allocQuery := `
		SELECT allocation_id, payment_id, bill_id, amount
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY allocation_id;
	`
	rows, err := r.Pool.Query(ctx, allocQuery, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query allocations for payment "+paymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.PaymentAllocation
		if err := rows.Scan(&a.AllocationID, &a.PaymentID, &a.BillID, &a.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation row for payment "+paymentID, err)
		}
		p.Allocations = append(p.Allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating allocation rows for payment "+paymentID, err)
	}
	return &p, nil
}

// MarkPaymentPosted stamps the payment's GL link and persists the built
// journal entry in one store transaction, mirroring MarkBillPosted.
func (r *PgxArRepository) MarkPaymentPosted(ctx context.Context, paymentID string, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	stampQuery := `
		UPDATE ar_payments
		SET gl_journal_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE payment_id = $1 AND gl_journal_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery, paymentID, entry.JournalEntryID, entry.CreatedAt, entry.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp GL link on AR payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyPosted
	}

	if err := insertJournalEntryTx(ctx, tx, entry, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
