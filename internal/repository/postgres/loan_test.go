package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository/postgres"
)

func loanColumnNames() []string {
	return []string{"loan_id", "copy_id", "patron_id", "checkout_date", "due_date", "return_date",
		"renewal_count", "loan_status", "checked_out_by", "returned_to"}
}

func TestLoanRepository_Checkout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		loan := &domain.Loan{
			CopyID:       3,
			PatronID:     7,
			CheckoutDate: now,
			DueDate:      now.Add(14 * 24 * time.Hour),
			CheckedOutBy: 99,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = \\$1 AND copy_status = 'Available'").
			WithArgs(loan.CopyID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO loans").
			WithArgs(loan.CopyID, loan.PatronID, loan.CheckoutDate, loan.DueDate, loan.CheckedOutBy).
			WillReturnRows(sqlmock.NewRows([]string{"loan_id"}).AddRow(11))
		mock.ExpectCommit()

		err := repo.Checkout(ctx, loan)
		assert.NoError(t, err)
		assert.Equal(t, int32(11), loan.ID)
		assert.Equal(t, domain.LoanActive, loan.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReservedCopyFulfillsOwnHold", func(t *testing.T) {
		loan := &domain.Loan{
			CopyID:       3,
			PatronID:     7,
			CheckoutDate: now,
			DueDate:      now.Add(14 * 24 * time.Hour),
			CheckedOutBy: 99,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = \\$1 AND copy_status = 'Available'").
			WithArgs(loan.CopyID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Fulfilled'").
			WithArgs(loan.CopyID, loan.PatronID, loan.CheckoutDate).
			WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).AddRow(31))
		mock.ExpectExec("UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = \\$1 AND copy_status = 'Reserved'").
			WithArgs(loan.CopyID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO loans").
			WithArgs(loan.CopyID, loan.PatronID, loan.CheckoutDate, loan.DueDate, loan.CheckedOutBy).
			WillReturnRows(sqlmock.NewRows([]string{"loan_id"}).AddRow(12))
		mock.ExpectCommit()

		err := repo.Checkout(ctx, loan)
		assert.NoError(t, err)
		assert.Equal(t, int32(12), loan.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CopyUnavailable", func(t *testing.T) {
		loan := &domain.Loan{CopyID: 3, PatronID: 7, CheckoutDate: now, DueDate: now, CheckedOutBy: 99}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = \\$1 AND copy_status = 'Available'").
			WithArgs(loan.CopyID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Fulfilled'").
			WithArgs(loan.CopyID, loan.PatronID, loan.CheckoutDate).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT copy_status FROM copies").
			WithArgs(loan.CopyID).
			WillReturnRows(sqlmock.NewRows([]string{"copy_status"}).AddRow("Checked Out"))
		mock.ExpectRollback()

		err := repo.Checkout(ctx, loan)
		assert.ErrorIs(t, err, domain.ErrCopyUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CopyNotFound", func(t *testing.T) {
		loan := &domain.Loan{CopyID: 404, PatronID: 7, CheckoutDate: now, DueDate: now, CheckedOutBy: 99}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE copies SET copy_status = 'Checked Out' WHERE copy_id = \\$1 AND copy_status = 'Available'").
			WithArgs(loan.CopyID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Fulfilled'").
			WithArgs(loan.CopyID, loan.PatronID, loan.CheckoutDate).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT copy_status FROM copies").
			WithArgs(loan.CopyID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Checkout(ctx, loan)
		assert.ErrorIs(t, err, domain.ErrCopyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_Return(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("LateReturnInsertsFineAndRecomputesBalance", func(t *testing.T) {
		due := now.Add(-5 * 24 * time.Hour)
		assess := func(l *domain.Loan) *domain.Fine {
			loanID := l.ID
			return &domain.Fine{
				LoanID:      &loanID,
				PatronID:    l.PatronID,
				AmountCents: 500,
				Type:        domain.FineOverdue,
				Reason:      "Returned 5 day(s) late",
				IssuedDate:  now,
			}
		}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE loans SET loan_status = \\$2, return_date = \\$3, returned_to = \\$4").
			WithArgs(int32(11), domain.LoanReturned, now, int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"copy_id", "patron_id", "checkout_date", "due_date", "renewal_count", "checked_out_by"}).
				AddRow(3, 7, due.Add(-14*24*time.Hour), due, 0, 99))
		mock.ExpectExec("UPDATE copies SET copy_status = \\$2 WHERE copy_id = \\$1 AND copy_status = 'Checked Out'").
			WithArgs(int32(3), domain.CopyAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO fines").
			WithArgs(sqlmock.AnyArg(), int32(7), int32(500), domain.FineOverdue, "Returned 5 day(s) late", now).
			WillReturnRows(sqlmock.NewRows([]string{"fine_id"}).AddRow(5))
		mock.ExpectQuery("UPDATE patrons SET total_fines_owed_cents").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"total_fines_owed_cents"}).AddRow(500))
		mock.ExpectCommit()

		loan, fine, err := repo.Return(ctx, 11, 99, now, assess)
		assert.NoError(t, err)
		assert.Equal(t, domain.LoanReturned, loan.Status)
		assert.Equal(t, int32(3), loan.CopyID)
		if assert.NotNil(t, fine) {
			assert.Equal(t, int32(5), fine.ID)
			assert.Equal(t, domain.FinePending, fine.Status)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OnTimeReturnSkipsTheFineLedger", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE loans SET loan_status = \\$2, return_date = \\$3, returned_to = \\$4").
			WithArgs(int32(11), domain.LoanReturned, now, int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"copy_id", "patron_id", "checkout_date", "due_date", "renewal_count", "checked_out_by"}).
				AddRow(3, 7, now.Add(-7*24*time.Hour), now.Add(7*24*time.Hour), 0, 99))
		mock.ExpectExec("UPDATE copies SET copy_status = \\$2 WHERE copy_id = \\$1 AND copy_status = 'Checked Out'").
			WithArgs(int32(3), domain.CopyAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		_, fine, err := repo.Return(ctx, 11, 99, now, func(*domain.Loan) *domain.Fine { return nil })
		assert.NoError(t, err)
		assert.Nil(t, fine)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondReturnIsRejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE loans SET loan_status = \\$2, return_date = \\$3, returned_to = \\$4").
			WithArgs(int32(11), domain.LoanReturned, now, int32(99)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT loan_status FROM loans").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows([]string{"loan_status"}).AddRow("Returned"))
		mock.ExpectRollback()

		_, _, err := repo.Return(ctx, 11, 99, now, nil)
		assert.ErrorIs(t, err, domain.ErrAlreadyReturned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE loans SET loan_status = \\$2, return_date = \\$3, returned_to = \\$4").
			WithArgs(int32(404), domain.LoanReturned, now, int32(99)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT loan_status FROM loans").
			WithArgs(int32(404)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, _, err := repo.Return(ctx, 404, 99, now, nil)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_Renew(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		due := now.Add(28 * 24 * time.Hour)
		mock.ExpectQuery("UPDATE loans SET due_date = due_date \\+ make_interval").
			WithArgs(int32(11), int32(14), int32(2)).
			WillReturnRows(sqlmock.NewRows(loanColumnNames()).
				AddRow(11, 3, 7, now, due, nil, 1, "Active", 99, nil))

		loan, err := repo.Renew(ctx, 11, 14*24*time.Hour, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), loan.RenewalCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RenewalCapReached", func(t *testing.T) {
		mock.ExpectQuery("UPDATE loans SET due_date = due_date \\+ make_interval").
			WithArgs(int32(11), int32(14), int32(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT loan_status, renewal_count FROM loans").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows([]string{"loan_status", "renewal_count"}).AddRow("Active", 2))

		_, err := repo.Renew(ctx, 11, 14*24*time.Hour, 2)
		assert.ErrorIs(t, err, domain.ErrRenewalLimitExceeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ClosedLoanCannotRenew", func(t *testing.T) {
		mock.ExpectQuery("UPDATE loans SET due_date = due_date \\+ make_interval").
			WithArgs(int32(11), int32(14), int32(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT loan_status, renewal_count FROM loans").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows([]string{"loan_status", "renewal_count"}).AddRow("Returned", 1))

		_, err := repo.Renew(ctx, 11, 14*24*time.Hour, 2)
		assert.ErrorIs(t, err, domain.ErrAlreadyReturned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		mock.ExpectQuery("UPDATE loans SET due_date = due_date \\+ make_interval").
			WithArgs(int32(404), int32(14), int32(2)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT loan_status, renewal_count FROM loans").
			WithArgs(int32(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Renew(ctx, 404, 14*24*time.Hour, 2)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("UPDATE loans SET loan_status = 'Overdue'").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(loanColumnNames()).
			AddRow(1, 3, 7, now.Add(-20*24*time.Hour), now.Add(-6*24*time.Hour), nil, 0, "Overdue", 99, nil).
			AddRow(2, 4, 8, now.Add(-15*24*time.Hour), now.Add(-24*time.Hour), nil, 1, "Overdue", 99, nil))

	marked, err := repo.MarkOverdue(ctx, now)
	assert.NoError(t, err)
	assert.Len(t, marked, 2)
	assert.Equal(t, domain.LoanOverdue, marked[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
