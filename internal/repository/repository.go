package repository

import (
	"context"
	"time"

	"openshelf-backend/internal/domain"
)

type PatronRepository interface {
	Create(ctx context.Context, p *domain.Patron) error
	GetByID(ctx context.Context, id int32) (*domain.Patron, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Patron, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Patron, error)
	UpdateContact(ctx context.Context, id int32, email, phone, address string) error
	SetAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error
	RenewMembership(ctx context.Context, id int32, newExpiry time.Time) error
	CountOpenLoans(ctx context.Context, patronID int32) (int32, error)
	Statistics(ctx context.Context, patronID int32) (*domain.PatronStatistics, error)
	ExpireLapsedMemberships(ctx context.Context, asOf time.Time) (int64, error)
}

type MaterialRepository interface {
	Create(ctx context.Context, m *domain.Material) error
	GetByID(ctx context.Context, id int32) (*domain.Material, error)
	Update(ctx context.Context, m *domain.Material) error
	Delete(ctx context.Context, id int32) error
	Search(ctx context.Context, query string, materialType string, page, pageSize int32) ([]domain.Material, int32, error)
	SetCoverImageURL(ctx context.Context, id int32, url string) error
}

type CopyRepository interface {
	Create(ctx context.Context, c *domain.Copy) error
	GetByID(ctx context.Context, id int32) (*domain.Copy, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.Copy, error)
	Update(ctx context.Context, c *domain.Copy) error
	ListByMaterial(ctx context.Context, materialID int32) ([]domain.Copy, error)
	ListByBranch(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Copy, int32, error)
}

type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) error
	GetByID(ctx context.Context, id int32) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}

// LoanRepository owns the loan/copy state machine. The mutating methods
// run as one transaction and enforce their preconditions with conditional
// updates, so concurrent callers cannot both succeed.
type LoanRepository interface {
	// Checkout claims the copy (Available -> Checked Out, or Reserved ->
	// Checked Out when the patron holds the Ready reservation, which is
	// then marked Fulfilled) and inserts the loan. Fails with
	// domain.ErrCopyUnavailable when the copy cannot be claimed.
	Checkout(ctx context.Context, loan *domain.Loan) error

	GetByID(ctx context.Context, id int32) (*domain.Loan, error)

	// Return closes an open loan, releases the copy, and assesses the
	// fine produced by the assess callback (nil means no fine). The fine
	// insert and the patron balance recompute happen in the same
	// transaction.
	Return(ctx context.Context, loanID, staffID int32, at time.Time, assess func(loan *domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error)

	// Renew extends the due date by extendBy from the current due date,
	// provided the loan is open and has been renewed fewer than
	// maxRenewals times.
	Renew(ctx context.Context, loanID int32, extendBy time.Duration, maxRenewals int32) (*domain.Loan, error)

	// DeclareLost closes an open loan as Lost, marks the copy Lost, and
	// assesses the replacement-cost fine from the assess callback.
	DeclareLost(ctx context.Context, loanID, staffID int32, at time.Time, assess func(loan *domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error)

	ListOpenByPatron(ctx context.Context, patronID int32) ([]domain.Loan, error)
	ListOverdue(ctx context.Context, branchID *int32, asOf time.Time) ([]domain.Loan, error)

	// MarkOverdue relabels open loans past due as Overdue and returns the
	// ones it changed.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error)
}

// FineRepository keeps patrons.total_fines_owed_cents equal to the sum of
// their Pending fines; every mutation recomputes it transactionally.
type FineRepository interface {
	// Create inserts the fine and returns the patron's new balance.
	Create(ctx context.Context, f *domain.Fine) (int32, error)
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)
	// Pay settles a Pending fine in full and returns it with the new balance.
	Pay(ctx context.Context, fineID int32, method domain.PaymentMethod, at time.Time) (*domain.Fine, int32, error)
	// Waive cancels a Pending fine and returns it with the new balance.
	Waive(ctx context.Context, fineID, staffID int32, reason string, at time.Time) (*domain.Fine, int32, error)
	ListByPatron(ctx context.Context, patronID int32, status domain.FineStatus) ([]domain.Fine, error)
}

type ReservationRepository interface {
	// Place appends the hold to the material's queue. The stored queue
	// position is count(Pending)+1 computed inside the transaction; the
	// duplicate-hold guard (open loan or Pending/Ready hold on the same
	// material) is checked there too.
	Place(ctx context.Context, r *domain.Reservation) error

	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)

	// Fulfill moves a Pending hold to Ready and parks the copy
	// (Available -> Reserved) for pickup until readyUntil.
	Fulfill(ctx context.Context, reservationID, copyID, staffID int32, readyUntil time.Time) (*domain.Reservation, error)

	// Cancel terminates the patron's own Pending or Ready hold and, for a
	// Ready hold, releases the parked copy.
	Cancel(ctx context.Context, reservationID, patronID int32) (*domain.Reservation, error)

	// Rank returns the effective 1-based position among Pending holds:
	// holds placed strictly earlier, plus one.
	Rank(ctx context.Context, reservationID int32) (int32, error)

	NextPending(ctx context.Context, materialID int32) (*domain.Reservation, error)
	ListByPatron(ctx context.Context, patronID int32) ([]domain.Reservation, error)
	ListPendingByMaterial(ctx context.Context, materialID int32) ([]domain.Reservation, error)

	// ExpireStale expires Ready holds past their pickup deadline,
	// releasing their copies, and returns the holds it expired.
	ExpireStale(ctx context.Context, asOf time.Time) ([]domain.Reservation, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type ReportRepository interface {
	DailyCirculation(ctx context.Context, branchID *int32, day time.Time) (*domain.DailyCirculationReport, error)
}
