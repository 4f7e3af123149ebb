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

func reservationColumnNames() []string {
	return []string{"reservation_id", "material_id", "patron_id", "placed_date", "expiry_date",
		"queue_position", "reservation_status", "copy_id", "notified_date", "fulfilled_date"}
}

func TestReservationRepository_Place(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("JoinsTheQueueAtTheTail", func(t *testing.T) {
		res := &domain.Reservation{MaterialID: 21, PatronID: 7, PlacedDate: now}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT material_id FROM materials WHERE material_id = \\$1 FOR UPDATE").
			WithArgs(res.MaterialID).
			WillReturnRows(sqlmock.NewRows([]string{"material_id"}).AddRow(21))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(res.MaterialID, res.PatronID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(res.MaterialID, res.PatronID, res.PlacedDate).
			WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "queue_position"}).AddRow(31, 4))
		mock.ExpectCommit()

		err := repo.Place(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(31), res.ID)
		assert.Equal(t, int32(4), res.QueuePosition)
		assert.Equal(t, domain.ReservationPending, res.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateHoldIsRefused", func(t *testing.T) {
		res := &domain.Reservation{MaterialID: 21, PatronID: 7, PlacedDate: now}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT material_id FROM materials WHERE material_id = \\$1 FOR UPDATE").
			WithArgs(res.MaterialID).
			WillReturnRows(sqlmock.NewRows([]string{"material_id"}).AddRow(21))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(res.MaterialID, res.PatronID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.Place(ctx, res)
		assert.ErrorIs(t, err, domain.ErrDuplicateHold)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownMaterial", func(t *testing.T) {
		res := &domain.Reservation{MaterialID: 404, PatronID: 7, PlacedDate: now}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT material_id FROM materials WHERE material_id = \\$1 FOR UPDATE").
			WithArgs(res.MaterialID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Place(ctx, res)
		assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_Fulfill(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()
	readyUntil := now.Add(3 * 24 * time.Hour)

	t.Run("ParksTheCopyForPickup", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Ready'").
			WithArgs(int32(31), int32(3), sqlmock.AnyArg(), readyUntil).
			WillReturnRows(sqlmock.NewRows(reservationColumnNames()).
				AddRow(31, 21, 7, now.Add(-48*time.Hour), readyUntil, 1, "Ready", 3, now, nil))
		mock.ExpectExec("UPDATE copies SET copy_status = 'Reserved'").
			WithArgs(int32(3), int32(21)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := repo.Fulfill(ctx, 31, 3, 99, readyUntil)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationReady, res.Status)
		if assert.NotNil(t, res.CopyID) {
			assert.Equal(t, int32(3), *res.CopyID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CopyFromAnotherMaterialIsRejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Ready'").
			WithArgs(int32(31), int32(5), sqlmock.AnyArg(), readyUntil).
			WillReturnRows(sqlmock.NewRows(reservationColumnNames()).
				AddRow(31, 21, 7, now.Add(-48*time.Hour), readyUntil, 1, "Ready", 5, now, nil))
		mock.ExpectExec("UPDATE copies SET copy_status = 'Reserved'").
			WithArgs(int32(5), int32(21)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Fulfill(ctx, 31, 5, 99, readyUntil)
		assert.ErrorIs(t, err, domain.ErrCopyUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OnlyPendingHoldsFulfill", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Ready'").
			WithArgs(int32(31), int32(3), sqlmock.AnyArg(), readyUntil).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT reservation_status FROM reservations").
			WithArgs(int32(31)).
			WillReturnRows(sqlmock.NewRows([]string{"reservation_status"}).AddRow("Cancelled"))
		mock.ExpectRollback()

		_, err := repo.Fulfill(ctx, 31, 3, 99, readyUntil)
		assert.ErrorIs(t, err, domain.ErrReservationNotPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("PendingHoldCancels", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Cancelled'").
			WithArgs(int32(31), int32(7)).
			WillReturnRows(sqlmock.NewRows(reservationColumnNames()).
				AddRow(31, 21, 7, now.Add(-48*time.Hour), nil, 2, "Cancelled", nil, nil, nil))
		mock.ExpectCommit()

		res, err := repo.Cancel(ctx, 31, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationCancelled, res.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReadyHoldReleasesItsCopy", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Cancelled'").
			WithArgs(int32(31), int32(7)).
			WillReturnRows(sqlmock.NewRows(reservationColumnNames()).
				AddRow(31, 21, 7, now.Add(-48*time.Hour), now.Add(24*time.Hour), 1, "Cancelled", 3, now, nil))
		mock.ExpectExec("UPDATE copies SET copy_status = 'Available' WHERE copy_id = \\$1 AND copy_status = 'Reserved'").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := repo.Cancel(ctx, 31, 7)
		assert.NoError(t, err)
		if assert.NotNil(t, res.CopyID) {
			assert.Equal(t, int32(3), *res.CopyID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SomeoneElsesHold", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Cancelled'").
			WithArgs(int32(31), int32(9)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT patron_id, reservation_status FROM reservations").
			WithArgs(int32(31)).
			WillReturnRows(sqlmock.NewRows([]string{"patron_id", "reservation_status"}).AddRow(7, "Pending"))
		mock.ExpectRollback()

		_, err := repo.Cancel(ctx, 31, 9)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyTerminal", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Cancelled'").
			WithArgs(int32(31), int32(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT patron_id, reservation_status FROM reservations").
			WithArgs(int32(31)).
			WillReturnRows(sqlmock.NewRows([]string{"patron_id", "reservation_status"}).AddRow(7, "Expired"))
		mock.ExpectRollback()

		_, err := repo.Cancel(ctx, 31, 7)
		assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_Rank(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("EarlierCancellationsDoNotCount", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\(SELECT COUNT\\(\\*\\) FROM reservations q").
			WithArgs(int32(31)).
			WillReturnRows(sqlmock.NewRows([]string{"rank"}).AddRow(2))

		rank, err := repo.Rank(ctx, 31)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), rank)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownReservation", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\(SELECT COUNT\\(\\*\\) FROM reservations q").
			WithArgs(int32(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Rank(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_ExpireStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reservations SET reservation_status = 'Expired'").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(reservationColumnNames()).
			AddRow(31, 21, 7, now.Add(-6*24*time.Hour), now.Add(-time.Hour), 1, "Expired", 3, now.Add(-3*24*time.Hour), nil).
			AddRow(32, 22, 8, now.Add(-7*24*time.Hour), now.Add(-2*time.Hour), 1, "Expired", nil, now.Add(-4*24*time.Hour), nil))
	mock.ExpectExec("UPDATE copies SET copy_status = 'Available' WHERE copy_id = \\$1 AND copy_status = 'Reserved'").
		WithArgs(int32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expired, err := repo.ExpireStale(ctx, now)
	assert.NoError(t, err)
	assert.Len(t, expired, 2)
	assert.Equal(t, domain.ReservationExpired, expired[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
