package service

import (
	"context"
	"io"
	"time"

	"openshelf-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// CirculationService is the lending desk: checkouts, returns, renewals and
// lost declarations. Due dates and fine amounts are decided here; the state
// transitions themselves are enforced in the repository transactions.
type CirculationService interface {
	Checkout(ctx context.Context, copyID, patronID, staffID int32) (*domain.Loan, error)
	Return(ctx context.Context, loanID, staffID int32) (*domain.Loan, *domain.Fine, error)
	Renew(ctx context.Context, loanID int32) (*domain.Loan, error)
	DeclareLost(ctx context.Context, loanID, staffID, replacementCostCents int32) (*domain.Loan, *domain.Fine, error)
	ActiveLoans(ctx context.Context, patronID int32) ([]domain.Loan, error)
	OverdueLoans(ctx context.Context, branchID *int32) ([]domain.Loan, error)
}

type FineService interface {
	Assess(ctx context.Context, patronID int32, loanID *int32, amountCents int32, fineType domain.FineType, reason string) (*domain.Fine, int32, error)
	// Pay settles a fine in full. A payment that does not match the fine
	// amount exactly is rejected with domain.ErrPartialPayment.
	Pay(ctx context.Context, fineID, amountCents int32, method domain.PaymentMethod) (*domain.Fine, int32, error)
	Waive(ctx context.Context, fineID, staffID int32, reason string) (*domain.Fine, int32, error)
	List(ctx context.Context, patronID int32, status domain.FineStatus) ([]domain.Fine, error)
}

type ReservationService interface {
	Place(ctx context.Context, materialID, patronID int32) (*domain.Reservation, error)
	Fulfill(ctx context.Context, reservationID, copyID, staffID int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, patronID int32) (*domain.Reservation, error)
	Position(ctx context.Context, reservationID int32) (int32, error)
	ListByPatron(ctx context.Context, patronID int32) ([]domain.Reservation, error)
	Queue(ctx context.Context, materialID int32) ([]domain.Reservation, error)
}

type PatronService interface {
	Register(ctx context.Context, p *domain.Patron) error
	Get(ctx context.Context, patronID int32) (*domain.Patron, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Patron, error)
	UpdateContact(ctx context.Context, patronID int32, email, phone, address string) error
	Suspend(ctx context.Context, patronID int32) error
	Reactivate(ctx context.Context, patronID int32) error
	RenewMembership(ctx context.Context, patronID int32) (*domain.Patron, error)
	Statistics(ctx context.Context, patronID int32) (*domain.PatronStatistics, error)
}

type CatalogService interface {
	CreateMaterial(ctx context.Context, m *domain.Material) error
	GetMaterial(ctx context.Context, id int32) (*domain.Material, []domain.Copy, error)
	UpdateMaterial(ctx context.Context, m *domain.Material) error
	DeleteMaterial(ctx context.Context, id int32) error
	SearchMaterials(ctx context.Context, query, materialType string, page, pageSize int32) ([]domain.Material, int32, error)
	UploadCoverImage(ctx context.Context, materialID int32, filename, contentType string, data io.Reader) (string, error)

	AddCopy(ctx context.Context, c *domain.Copy) error
	GetCopyByBarcode(ctx context.Context, barcode string) (*domain.Copy, error)
	UpdateCopy(ctx context.Context, c *domain.Copy) error
	ListCopiesByBranch(ctx context.Context, branchID, page, pageSize int32) ([]domain.Copy, int32, error)

	CreateBranch(ctx context.Context, b *domain.Branch) error
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendOverdueReminder(ctx context.Context, to, patronName string, items []string) error
	SendReservationReady(ctx context.Context, to, patronName, materialTitle string, pickupBy time.Time) error
}

type ReportService interface {
	DailyCirculation(ctx context.Context, branchID *int32, day time.Time) (*domain.DailyCirculationReport, error)
}

// BatchService backs both the nightly cron sweeps and the staff-triggered
// batch endpoints. Each method returns how many rows it touched.
type BatchService interface {
	MarkOverdueLoans(ctx context.Context) (int, error)
	SendOverdueReminders(ctx context.Context) (int, error)
	ExpireReservations(ctx context.Context) (int, error)
	ExpireMemberships(ctx context.Context) (int64, error)
}
