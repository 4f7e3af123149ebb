package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `loan_id, copy_id, patron_id, checkout_date, due_date, return_date,
	renewal_count, loan_status, checked_out_by, returned_to`

func scanLoan(row interface{ Scan(...any) error }) (*domain.Loan, error) {
	l := &domain.Loan{}
	err := row.Scan(&l.ID, &l.CopyID, &l.PatronID, &l.CheckoutDate, &l.DueDate, &l.ReturnDate,
		&l.RenewalCount, &l.Status, &l.CheckedOutBy, &l.ReturnedTo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return l, nil
}

// Checkout claims the copy and inserts the loan in one transaction.
// The claim is a conditional update: zero rows affected means another
// checkout won the copy, or the copy was never available.
func (r *loanRepository) Checkout(ctx context.Context, loan *domain.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = $1 AND copy_status = 'Available'`,
		loan.CopyID)
	if err != nil {
		return err
	}
	claimed, _ := res.RowsAffected()

	if claimed == 0 {
		// A Reserved copy may still be checked out, but only by the
		// patron whose Ready hold parked it; doing so fulfills the hold.
		var reservationID int32
		err = tx.QueryRowContext(ctx,
			`UPDATE reservations SET reservation_status = 'Fulfilled', fulfilled_date = $3
			 WHERE copy_id = $1 AND patron_id = $2 AND reservation_status = 'Ready'
			 RETURNING reservation_id`,
			loan.CopyID, loan.PatronID, loan.CheckoutDate).Scan(&reservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return copyClaimFailure(ctx, tx, loan.CopyID)
			}
			return err
		}
		res, err = tx.ExecContext(ctx,
			`UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = $1 AND copy_status = 'Reserved'`,
			loan.CopyID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrCopyUnavailable
		}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO loans (copy_id, patron_id, checkout_date, due_date, renewal_count, loan_status, checked_out_by)
		 VALUES ($1, $2, $3, $4, 0, 'Active', $5)
		 RETURNING loan_id`,
		loan.CopyID, loan.PatronID, loan.CheckoutDate, loan.DueDate, loan.CheckedOutBy).Scan(&loan.ID)
	if err != nil {
		return err
	}
	loan.Status = domain.LoanActive

	return tx.Commit()
}

// copyClaimFailure distinguishes a missing copy from one in the wrong state.
func copyClaimFailure(ctx context.Context, tx *sql.Tx, copyID int32) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT copy_status FROM copies WHERE copy_id = $1`, copyID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCopyNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrCopyUnavailable
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`
	return scanLoan(r.db.QueryRowContext(ctx, query, id))
}

func (r *loanRepository) Return(ctx context.Context, loanID, staffID int32, at time.Time, assess func(*domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error) {
	return r.closeLoan(ctx, loanID, staffID, at, domain.LoanReturned, domain.CopyAvailable, assess)
}

func (r *loanRepository) DeclareLost(ctx context.Context, loanID, staffID int32, at time.Time, assess func(*domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error) {
	return r.closeLoan(ctx, loanID, staffID, at, domain.LoanLost, domain.CopyLost, assess)
}

// closeLoan ends an open loan (return or lost declaration), moves the copy
// to its final status, and assesses the fine the callback decides on. The
// conditional update rejects a second close: the loan row is only matched
// while it is still open.
func (r *loanRepository) closeLoan(ctx context.Context, loanID, staffID int32, at time.Time,
	loanStatus domain.LoanStatus, copyStatus domain.CopyStatus, assess func(*domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	loan := &domain.Loan{ID: loanID, Status: loanStatus}
	err = tx.QueryRowContext(ctx,
		`UPDATE loans SET loan_status = $2, return_date = $3, returned_to = $4
		 WHERE loan_id = $1 AND loan_status IN ('Active', 'Overdue')
		 RETURNING copy_id, patron_id, checkout_date, due_date, renewal_count, checked_out_by`,
		loanID, loanStatus, at, staffID).Scan(&loan.CopyID, &loan.PatronID, &loan.CheckoutDate,
		&loan.DueDate, &loan.RenewalCount, &loan.CheckedOutBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, closeLoanFailure(ctx, tx, loanID)
		}
		return nil, nil, err
	}
	loan.ReturnDate = &at
	loan.ReturnedTo = &staffID

	_, err = tx.ExecContext(ctx,
		`UPDATE copies SET copy_status = $2 WHERE copy_id = $1 AND copy_status = 'Checked Out'`,
		loan.CopyID, copyStatus)
	if err != nil {
		return nil, nil, err
	}

	var fine *domain.Fine
	if assess != nil {
		fine = assess(loan)
	}
	if fine != nil {
		if err := insertFine(ctx, tx, fine); err != nil {
			return nil, nil, fmt.Errorf("assessing fine for loan %d: %w", loanID, err)
		}
		if _, err := recomputeBalance(ctx, tx, fine.PatronID); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return loan, fine, nil
}

func closeLoanFailure(ctx context.Context, tx *sql.Tx, loanID int32) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT loan_status FROM loans WHERE loan_id = $1`, loanID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrLoanNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrAlreadyReturned
}

// Renew extends the due date from the current due date, not from today.
// The renewal cap is enforced in the same conditional update that applies
// the extension.
func (r *loanRepository) Renew(ctx context.Context, loanID int32, extendBy time.Duration, maxRenewals int32) (*domain.Loan, error) {
	days := int32(extendBy.Hours() / 24)
	query := `UPDATE loans SET due_date = due_date + make_interval(days => $2), renewal_count = renewal_count + 1
	          WHERE loan_id = $1 AND loan_status IN ('Active', 'Overdue') AND renewal_count < $3
	          RETURNING ` + loanColumns
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, loanID, days, maxRenewals))
	if err == nil {
		return loan, nil
	}
	if !errors.Is(err, domain.ErrLoanNotFound) {
		return nil, err
	}

	var status string
	var count int32
	err = r.db.QueryRowContext(ctx, `SELECT loan_status, renewal_count FROM loans WHERE loan_id = $1`, loanID).
		Scan(&status, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != string(domain.LoanActive) && status != string(domain.LoanOverdue) {
		return nil, domain.ErrAlreadyReturned
	}
	return nil, domain.ErrRenewalLimitExceeded
}

func (r *loanRepository) ListOpenByPatron(ctx context.Context, patronID int32) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans
	          WHERE patron_id = $1 AND loan_status IN ('Active', 'Overdue')
	          ORDER BY due_date`
	return r.listLoans(ctx, query, patronID)
}

func (r *loanRepository) ListOverdue(ctx context.Context, branchID *int32, asOf time.Time) ([]domain.Loan, error) {
	if branchID != nil {
		query := `SELECT ` + prefixedLoanColumns + ` FROM loans l
		          JOIN copies c ON c.copy_id = l.copy_id
		          WHERE l.loan_status IN ('Active', 'Overdue') AND l.due_date <= $1 AND c.branch_id = $2
		          ORDER BY l.due_date`
		return r.listLoans(ctx, query, asOf, *branchID)
	}
	query := `SELECT ` + loanColumns + ` FROM loans
	          WHERE loan_status IN ('Active', 'Overdue') AND due_date <= $1
	          ORDER BY due_date`
	return r.listLoans(ctx, query, asOf)
}

const prefixedLoanColumns = `l.loan_id, l.copy_id, l.patron_id, l.checkout_date, l.due_date, l.return_date,
	l.renewal_count, l.loan_status, l.checked_out_by, l.returned_to`

func (r *loanRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `UPDATE loans SET loan_status = 'Overdue'
	          WHERE loan_status = 'Active' AND due_date < $1
	          RETURNING ` + loanColumns
	return r.listLoans(ctx, query, asOf)
}

func (r *loanRepository) listLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.CopyID, &l.PatronID, &l.CheckoutDate, &l.DueDate, &l.ReturnDate,
			&l.RenewalCount, &l.Status, &l.CheckedOutBy, &l.ReturnedTo); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
