package postgres

import (
	"context"
	"database/sql"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// DailyCirculation aggregates desk activity for the calendar day containing
// the given instant. A nil branchID reports across all branches.
func (r *reportRepository) DailyCirculation(ctx context.Context, branchID *int32, day time.Time) (*domain.DailyCirculationReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	report := &domain.DailyCirculationReport{Day: start, BranchID: branchID}

	if branchID == nil {
		query := `SELECT
		    (SELECT COUNT(*) FROM loans WHERE checkout_date >= $1 AND checkout_date < $2),
		    (SELECT COUNT(*) FROM loans WHERE return_date >= $1 AND return_date < $2),
		    (SELECT COALESCE(SUM(amount_cents), 0) FROM fines WHERE issued_date >= $1 AND issued_date < $2),
		    (SELECT COALESCE(SUM(amount_cents), 0) FROM fines WHERE fine_status = 'Paid' AND paid_date >= $1 AND paid_date < $2),
		    (SELECT COUNT(*) FROM reservations WHERE placed_date >= $1 AND placed_date < $2)`
		err := r.db.QueryRowContext(ctx, query, start, end).Scan(&report.Checkouts, &report.Returns,
			&report.FinesAssessedCents, &report.FinesCollectedCents, &report.NewReservations)
		if err != nil {
			return nil, err
		}
		return report, nil
	}

	query := `SELECT
	    (SELECT COUNT(*) FROM loans l JOIN copies c ON c.copy_id = l.copy_id
	     WHERE l.checkout_date >= $1 AND l.checkout_date < $2 AND c.branch_id = $3),
	    (SELECT COUNT(*) FROM loans l JOIN copies c ON c.copy_id = l.copy_id
	     WHERE l.return_date >= $1 AND l.return_date < $2 AND c.branch_id = $3),
	    (SELECT COALESCE(SUM(f.amount_cents), 0) FROM fines f
	     JOIN patrons p ON p.patron_id = f.patron_id
	     WHERE f.issued_date >= $1 AND f.issued_date < $2 AND p.registered_branch_id = $3),
	    (SELECT COALESCE(SUM(f.amount_cents), 0) FROM fines f
	     JOIN patrons p ON p.patron_id = f.patron_id
	     WHERE f.fine_status = 'Paid' AND f.paid_date >= $1 AND f.paid_date < $2 AND p.registered_branch_id = $3),
	    (SELECT COUNT(*) FROM reservations r
	     JOIN patrons p ON p.patron_id = r.patron_id
	     WHERE r.placed_date >= $1 AND r.placed_date < $2 AND p.registered_branch_id = $3)`
	err := r.db.QueryRowContext(ctx, query, start, end, *branchID).Scan(&report.Checkouts,
		&report.Returns, &report.FinesAssessedCents, &report.FinesCollectedCents, &report.NewReservations)
	if err != nil {
		return nil, err
	}
	return report, nil
}
