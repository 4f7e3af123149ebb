package postgres

import (
	"database/sql"

	"openshelf-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PatronRepository
	repository.BranchRepository
	repository.MaterialRepository
	repository.CopyRepository
	repository.LoanRepository
	repository.FineRepository
	repository.ReservationRepository
	repository.NotificationRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		PatronRepository:       NewPatronRepository(db),
		BranchRepository:       NewBranchRepository(db),
		MaterialRepository:     NewMaterialRepository(db),
		CopyRepository:         NewCopyRepository(db),
		LoanRepository:         NewLoanRepository(db),
		FineRepository:         NewFineRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ReportRepository:       NewReportRepository(db),
	}
}
