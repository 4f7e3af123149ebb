package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type fineRepository struct {
	db *sql.DB
}

func NewFineRepository(db *sql.DB) repository.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `fine_id, loan_id, patron_id, amount_cents, fine_type, fine_reason, issued_date,
	fine_status, paid_date, payment_method, waived_by, waived_reason`

func scanFine(row interface{ Scan(...any) error }) (*domain.Fine, error) {
	f := &domain.Fine{}
	var method, waivedReason sql.NullString
	err := row.Scan(&f.ID, &f.LoanID, &f.PatronID, &f.AmountCents, &f.Type, &f.Reason, &f.IssuedDate,
		&f.Status, &f.PaidDate, &method, &f.WaivedBy, &waivedReason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFineNotFound
		}
		return nil, err
	}
	f.PaymentMethod = domain.PaymentMethod(method.String)
	f.WaivedReason = waivedReason.String
	return f, nil
}

// insertFine writes the fine inside the caller's transaction. The caller
// is responsible for recomputing the patron balance before committing.
func insertFine(ctx context.Context, tx *sql.Tx, f *domain.Fine) error {
	query := `INSERT INTO fines (loan_id, patron_id, amount_cents, fine_type, fine_reason, issued_date, fine_status)
	          VALUES ($1, $2, $3, $4, $5, $6, 'Pending')
	          RETURNING fine_id`
	f.Status = domain.FinePending
	return tx.QueryRowContext(ctx, query, f.LoanID, f.PatronID, f.AmountCents, f.Type, f.Reason, f.IssuedDate).
		Scan(&f.ID)
}

// recomputeBalance rewrites the patron's cached total from the Pending
// fines themselves, inside the transaction that changed them. The cache
// can therefore never drift from the source of truth.
func recomputeBalance(ctx context.Context, tx *sql.Tx, patronID int32) (int32, error) {
	var balance int32
	query := `UPDATE patrons SET total_fines_owed_cents =
	            COALESCE((SELECT SUM(amount_cents) FROM fines WHERE patron_id = $1 AND fine_status = 'Pending'), 0)
	          WHERE patron_id = $1
	          RETURNING total_fines_owed_cents`
	err := tx.QueryRowContext(ctx, query, patronID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrPatronNotFound
	}
	return balance, err
}

func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) (int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := insertFine(ctx, tx, f); err != nil {
		return 0, err
	}
	balance, err := recomputeBalance(ctx, tx, f.PatronID)
	if err != nil {
		return 0, err
	}
	return balance, tx.Commit()
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE fine_id = $1`
	return scanFine(r.db.QueryRowContext(ctx, query, id))
}

func (r *fineRepository) Pay(ctx context.Context, fineID int32, method domain.PaymentMethod, at time.Time) (*domain.Fine, int32, error) {
	return r.settle(ctx, fineID, func(tx *sql.Tx) (*domain.Fine, error) {
		query := `UPDATE fines SET fine_status = 'Paid', paid_date = $2, payment_method = $3
		          WHERE fine_id = $1 AND fine_status = 'Pending'
		          RETURNING ` + fineColumns
		return scanFine(tx.QueryRowContext(ctx, query, fineID, at, method))
	})
}

func (r *fineRepository) Waive(ctx context.Context, fineID, staffID int32, reason string, at time.Time) (*domain.Fine, int32, error) {
	return r.settle(ctx, fineID, func(tx *sql.Tx) (*domain.Fine, error) {
		query := `UPDATE fines SET fine_status = 'Waived', waived_by = $2, waived_reason = $3
		          WHERE fine_id = $1 AND fine_status = 'Pending'
		          RETURNING ` + fineColumns
		return scanFine(tx.QueryRowContext(ctx, query, fineID, staffID, reason))
	})
}

// settle runs a conditional Pending -> Paid/Waived update plus the balance
// recompute in one transaction. A second settlement attempt matches no row
// and is rejected, never double-processed.
func (r *fineRepository) settle(ctx context.Context, fineID int32, update func(tx *sql.Tx) (*domain.Fine, error)) (*domain.Fine, int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	fine, err := update(tx)
	if err != nil {
		if errors.Is(err, domain.ErrFineNotFound) {
			return nil, 0, settleFailure(ctx, tx, fineID)
		}
		return nil, 0, err
	}

	balance, err := recomputeBalance(ctx, tx, fine.PatronID)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return fine, balance, nil
}

func settleFailure(ctx context.Context, tx *sql.Tx, fineID int32) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT fine_status FROM fines WHERE fine_id = $1`, fineID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrFineNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrFineNotPending
}

func (r *fineRepository) ListByPatron(ctx context.Context, patronID int32, status domain.FineStatus) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE patron_id = $1`
	args := []any{patronID}
	if status != "" {
		query += ` AND fine_status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY issued_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []domain.Fine
	for rows.Next() {
		f := domain.Fine{}
		var method, waivedReason sql.NullString
		if err := rows.Scan(&f.ID, &f.LoanID, &f.PatronID, &f.AmountCents, &f.Type, &f.Reason,
			&f.IssuedDate, &f.Status, &f.PaidDate, &method, &f.WaivedBy, &waivedReason); err != nil {
			return nil, err
		}
		f.PaymentMethod = domain.PaymentMethod(method.String)
		f.WaivedReason = waivedReason.String
		fines = append(fines, f)
	}
	return fines, rows.Err()
}
