package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type patronRepository struct {
	db *sql.DB
}

func NewPatronRepository(db *sql.DB) repository.PatronRepository {
	return &patronRepository{db: db}
}

const patronColumns = `patron_id, user_id, card_number, first_name, last_name, email, phone, address,
	date_of_birth, membership_type, registration_date, membership_expiry, registered_branch_id,
	account_status, total_fines_owed_cents, max_borrow_limit`

func scanPatron(row interface{ Scan(...any) error }) (*domain.Patron, error) {
	p := &domain.Patron{}
	err := row.Scan(&p.ID, &p.UserID, &p.CardNumber, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Address, &p.DateOfBirth, &p.MembershipType, &p.RegistrationDate, &p.MembershipExpiry,
		&p.RegisteredBranchID, &p.AccountStatus, &p.TotalFinesOwedCents, &p.MaxBorrowLimit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatronNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *patronRepository) Create(ctx context.Context, p *domain.Patron) error {
	query := `INSERT INTO patrons (user_id, card_number, first_name, last_name, email, phone, address,
	            date_of_birth, membership_type, registration_date, membership_expiry,
	            registered_branch_id, account_status, total_fines_owed_cents, max_borrow_limit)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING patron_id`
	return r.db.QueryRowContext(ctx, query, p.UserID, p.CardNumber, p.FirstName, p.LastName, p.Email,
		p.Phone, p.Address, p.DateOfBirth, p.MembershipType, p.RegistrationDate, p.MembershipExpiry,
		p.RegisteredBranchID, p.AccountStatus, p.TotalFinesOwedCents, p.MaxBorrowLimit).Scan(&p.ID)
}

func (r *patronRepository) GetByID(ctx context.Context, id int32) (*domain.Patron, error) {
	query := `SELECT ` + patronColumns + ` FROM patrons WHERE patron_id = $1`
	return scanPatron(r.db.QueryRowContext(ctx, query, id))
}

func (r *patronRepository) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Patron, error) {
	query := `SELECT ` + patronColumns + ` FROM patrons WHERE card_number = $1`
	return scanPatron(r.db.QueryRowContext(ctx, query, cardNumber))
}

func (r *patronRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Patron, error) {
	query := `SELECT ` + patronColumns + ` FROM patrons WHERE user_id = $1`
	return scanPatron(r.db.QueryRowContext(ctx, query, userID))
}

func (r *patronRepository) UpdateContact(ctx context.Context, id int32, email, phone, address string) error {
	query := `UPDATE patrons SET email = $2, phone = $3, address = $4 WHERE patron_id = $1`
	res, err := r.db.ExecContext(ctx, query, id, email, phone, address)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPatronNotFound
	}
	return nil
}

func (r *patronRepository) SetAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error {
	query := `UPDATE patrons SET account_status = $2 WHERE patron_id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPatronNotFound
	}
	return nil
}

func (r *patronRepository) RenewMembership(ctx context.Context, id int32, newExpiry time.Time) error {
	// Renewing also clears an Expired status; a suspension stays in place.
	query := `UPDATE patrons SET membership_expiry = $2,
	            account_status = CASE WHEN account_status = 'Expired' THEN 'Active' ELSE account_status END
	          WHERE patron_id = $1`
	res, err := r.db.ExecContext(ctx, query, id, newExpiry)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPatronNotFound
	}
	return nil
}

func (r *patronRepository) CountOpenLoans(ctx context.Context, patronID int32) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM loans WHERE patron_id = $1 AND loan_status IN ('Active', 'Overdue')`
	if err := r.db.QueryRowContext(ctx, query, patronID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *patronRepository) Statistics(ctx context.Context, patronID int32) (*domain.PatronStatistics, error) {
	stats := &domain.PatronStatistics{PatronID: patronID}
	query := `SELECT
	    (SELECT COUNT(*) FROM loans WHERE patron_id = $1 AND loan_status IN ('Active', 'Overdue')),
	    (SELECT COUNT(*) FROM loans WHERE patron_id = $1 AND loan_status IN ('Active', 'Overdue') AND due_date < NOW()),
	    (SELECT COUNT(*) FROM fines WHERE patron_id = $1 AND fine_status = 'Pending'),
	    (SELECT COALESCE(SUM(amount_cents), 0) FROM fines WHERE patron_id = $1 AND fine_status = 'Pending'),
	    (SELECT COUNT(*) FROM reservations WHERE patron_id = $1 AND reservation_status IN ('Pending', 'Ready')),
	    (SELECT COUNT(*) FROM loans WHERE patron_id = $1)`
	err := r.db.QueryRowContext(ctx, query, patronID).Scan(&stats.ActiveLoans, &stats.OverdueLoans,
		&stats.PendingFines, &stats.PendingFineCents, &stats.OpenReservations, &stats.LifetimeLoans)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *patronRepository) ExpireLapsedMemberships(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE patrons SET account_status = 'Expired'
	          WHERE account_status = 'Active' AND membership_expiry < $1`
	res, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
