package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `reservation_id, material_id, patron_id, placed_date, expiry_date,
	queue_position, reservation_status, copy_id, notified_date, fulfilled_date`

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(&res.ID, &res.MaterialID, &res.PatronID, &res.PlacedDate, &res.ExpiryDate,
		&res.QueuePosition, &res.Status, &res.CopyID, &res.NotifiedDate, &res.FulfilledDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Place appends the hold to the material's FIFO queue. The material row is
// locked first so concurrent placements serialize and the stored
// count(Pending)+1 position reflects true arrival order.
func (r *reservationRepository) Place(ctx context.Context, res *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var materialID int32
	err = tx.QueryRowContext(ctx,
		`SELECT material_id FROM materials WHERE material_id = $1 FOR UPDATE`, res.MaterialID).
		Scan(&materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrMaterialNotFound
		}
		return err
	}

	var duplicate bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM reservations
		     WHERE material_id = $1 AND patron_id = $2 AND reservation_status IN ('Pending', 'Ready')
		 ) OR EXISTS (
		     SELECT 1 FROM loans l JOIN copies c ON c.copy_id = l.copy_id
		     WHERE c.material_id = $1 AND l.patron_id = $2 AND l.loan_status IN ('Active', 'Overdue')
		 )`, res.MaterialID, res.PatronID).Scan(&duplicate)
	if err != nil {
		return err
	}
	if duplicate {
		return domain.ErrDuplicateHold
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO reservations (material_id, patron_id, placed_date, queue_position, reservation_status)
		 VALUES ($1, $2, $3,
		     (SELECT COUNT(*) + 1 FROM reservations WHERE material_id = $1 AND reservation_status = 'Pending'),
		     'Pending')
		 RETURNING reservation_id, queue_position`,
		res.MaterialID, res.PatronID, res.PlacedDate).Scan(&res.ID, &res.QueuePosition)
	if err != nil {
		return err
	}
	res.Status = domain.ReservationPending

	return tx.Commit()
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) Fulfill(ctx context.Context, reservationID, copyID, staffID int32, readyUntil time.Time) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := scanReservation(tx.QueryRowContext(ctx,
		`UPDATE reservations SET reservation_status = 'Ready', copy_id = $2, notified_date = $3, expiry_date = $4
		 WHERE reservation_id = $1 AND reservation_status = 'Pending'
		 RETURNING `+reservationColumns,
		reservationID, copyID, now, readyUntil))
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return nil, fulfillFailure(ctx, tx, reservationID)
		}
		return nil, err
	}

	// Park the copy for pickup; the join enforces that the copy belongs
	// to the reserved material.
	parked, err := tx.ExecContext(ctx,
		`UPDATE copies SET copy_status = 'Reserved'
		 WHERE copy_id = $1 AND copy_status = 'Available' AND material_id = $2`,
		copyID, res.MaterialID)
	if err != nil {
		return nil, err
	}
	if n, _ := parked.RowsAffected(); n == 0 {
		return nil, domain.ErrCopyUnavailable
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func fulfillFailure(ctx context.Context, tx *sql.Tx, reservationID int32) error {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT reservation_status FROM reservations WHERE reservation_id = $1`, reservationID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrReservationNotPending
}

func (r *reservationRepository) Cancel(ctx context.Context, reservationID, patronID int32) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`UPDATE reservations SET reservation_status = 'Cancelled'
		 WHERE reservation_id = $1 AND patron_id = $2 AND reservation_status IN ('Pending', 'Ready')
		 RETURNING `+reservationColumns,
		reservationID, patronID))
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return nil, cancelFailure(ctx, tx, reservationID, patronID)
		}
		return nil, err
	}

	// A cancelled Ready hold releases its parked copy.
	if res.CopyID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE copies SET copy_status = 'Available' WHERE copy_id = $1 AND copy_status = 'Reserved'`,
			*res.CopyID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func cancelFailure(ctx context.Context, tx *sql.Tx, reservationID, patronID int32) error {
	var owner int32
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT patron_id, reservation_status FROM reservations WHERE reservation_id = $1`, reservationID).
		Scan(&owner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if owner != patronID {
		return domain.ErrNotOwner
	}
	return domain.ErrAlreadyTerminal
}

// Rank computes the effective queue position lazily: Pending holds placed
// strictly earlier, plus one. Stored positions are never renumbered, so a
// cancellation ahead in the queue heals itself here.
func (r *reservationRepository) Rank(ctx context.Context, reservationID int32) (int32, error) {
	var rank int32
	query := `SELECT (SELECT COUNT(*) FROM reservations q
	              WHERE q.material_id = r.material_id
	                AND q.reservation_status = 'Pending'
	                AND (q.placed_date < r.placed_date
	                     OR (q.placed_date = r.placed_date AND q.reservation_id < r.reservation_id))) + 1
	          FROM reservations r WHERE r.reservation_id = $1`
	err := r.db.QueryRowContext(ctx, query, reservationID).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrReservationNotFound
	}
	return rank, err
}

func (r *reservationRepository) NextPending(ctx context.Context, materialID int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE material_id = $1 AND reservation_status = 'Pending'
	          ORDER BY placed_date, reservation_id
	          LIMIT 1`
	return scanReservation(r.db.QueryRowContext(ctx, query, materialID))
}

func (r *reservationRepository) ListByPatron(ctx context.Context, patronID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE patron_id = $1
	          ORDER BY placed_date DESC`
	return r.listReservations(ctx, query, patronID)
}

func (r *reservationRepository) ListPendingByMaterial(ctx context.Context, materialID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE material_id = $1 AND reservation_status = 'Pending'
	          ORDER BY placed_date, reservation_id`
	return r.listReservations(ctx, query, materialID)
}

func (r *reservationRepository) ExpireStale(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`UPDATE reservations SET reservation_status = 'Expired'
		 WHERE reservation_status = 'Ready' AND expiry_date < $1
		 RETURNING `+reservationColumns, asOf)
	if err != nil {
		return nil, err
	}
	expired, err := collectReservations(rows)
	if err != nil {
		return nil, err
	}

	for _, res := range expired {
		if res.CopyID == nil {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE copies SET copy_status = 'Available' WHERE copy_id = $1 AND copy_status = 'Reserved'`,
			*res.CopyID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *reservationRepository) listReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.MaterialID, &res.PatronID, &res.PlacedDate, &res.ExpiryDate,
			&res.QueuePosition, &res.Status, &res.CopyID, &res.NotifiedDate, &res.FulfilledDate); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
