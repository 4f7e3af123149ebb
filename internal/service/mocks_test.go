package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"openshelf-backend/internal/domain"
)

// MockPatronRepo
type MockPatronRepo struct {
	mock.Mock
}

func (m *MockPatronRepo) Create(ctx context.Context, p *domain.Patron) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPatronRepo) GetByID(ctx context.Context, id int32) (*domain.Patron, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}
func (m *MockPatronRepo) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Patron, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}
func (m *MockPatronRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Patron, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}
func (m *MockPatronRepo) UpdateContact(ctx context.Context, id int32, email, phone, address string) error {
	args := m.Called(ctx, id, email, phone, address)
	return args.Error(0)
}
func (m *MockPatronRepo) SetAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPatronRepo) RenewMembership(ctx context.Context, id int32, newExpiry time.Time) error {
	args := m.Called(ctx, id, newExpiry)
	return args.Error(0)
}
func (m *MockPatronRepo) CountOpenLoans(ctx context.Context, patronID int32) (int32, error) {
	args := m.Called(ctx, patronID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPatronRepo) Statistics(ctx context.Context, patronID int32) (*domain.PatronStatistics, error) {
	args := m.Called(ctx, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatronStatistics), args.Error(1)
}
func (m *MockPatronRepo) ExpireLapsedMemberships(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockLoanRepo simulates the repository's transaction semantics: the assess
// callback runs against the closed loan, exactly as the real transaction
// does.
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Checkout(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Return(ctx context.Context, loanID, staffID int32, at time.Time, assess func(*domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error) {
	args := m.Called(ctx, loanID, staffID, at, assess)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	loan := args.Get(0).(*domain.Loan)
	var fine *domain.Fine
	if assess != nil {
		fine = assess(loan)
	}
	return loan, fine, args.Error(2)
}
func (m *MockLoanRepo) Renew(ctx context.Context, loanID int32, extendBy time.Duration, maxRenewals int32) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, extendBy, maxRenewals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) DeclareLost(ctx context.Context, loanID, staffID int32, at time.Time, assess func(*domain.Loan) *domain.Fine) (*domain.Loan, *domain.Fine, error) {
	args := m.Called(ctx, loanID, staffID, at, assess)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	loan := args.Get(0).(*domain.Loan)
	var fine *domain.Fine
	if assess != nil {
		fine = assess(loan)
	}
	return loan, fine, args.Error(2)
}
func (m *MockLoanRepo) ListOpenByPatron(ctx context.Context, patronID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, patronID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListOverdue(ctx context.Context, branchID *int32, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, branchID, asOf)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, f *domain.Fine) (int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) Pay(ctx context.Context, fineID int32, method domain.PaymentMethod, at time.Time) (*domain.Fine, int32, error) {
	args := m.Called(ctx, fineID, method, at)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Fine), args.Get(1).(int32), args.Error(2)
}
func (m *MockFineRepo) Waive(ctx context.Context, fineID, staffID int32, reason string, at time.Time) (*domain.Fine, int32, error) {
	args := m.Called(ctx, fineID, staffID, reason, at)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Fine), args.Get(1).(int32), args.Error(2)
}
func (m *MockFineRepo) ListByPatron(ctx context.Context, patronID int32, status domain.FineStatus) ([]domain.Fine, error) {
	args := m.Called(ctx, patronID, status)
	return args.Get(0).([]domain.Fine), args.Error(1)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Place(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Fulfill(ctx context.Context, reservationID, copyID, staffID int32, readyUntil time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, copyID, staffID, readyUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Cancel(ctx context.Context, reservationID, patronID int32) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Rank(ctx context.Context, reservationID int32) (int32, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReservationRepo) NextPending(ctx context.Context, materialID int32) (*domain.Reservation, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByPatron(ctx context.Context, patronID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, patronID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListPendingByMaterial(ctx context.Context, materialID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ExpireStale(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockCopyRepo
type MockCopyRepo struct {
	mock.Mock
}

func (m *MockCopyRepo) Create(ctx context.Context, c *domain.Copy) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCopyRepo) GetByID(ctx context.Context, id int32) (*domain.Copy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Copy), args.Error(1)
}
func (m *MockCopyRepo) GetByBarcode(ctx context.Context, barcode string) (*domain.Copy, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Copy), args.Error(1)
}
func (m *MockCopyRepo) Update(ctx context.Context, c *domain.Copy) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCopyRepo) ListByMaterial(ctx context.Context, materialID int32) ([]domain.Copy, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).([]domain.Copy), args.Error(1)
}
func (m *MockCopyRepo) ListByBranch(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Copy, int32, error) {
	args := m.Called(ctx, branchID, page, pageSize)
	return args.Get(0).([]domain.Copy), args.Get(1).(int32), args.Error(2)
}

// MockMaterialRepo
type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) Create(ctx context.Context, mat *domain.Material) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}
func (m *MockMaterialRepo) GetByID(ctx context.Context, id int32) (*domain.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Material), args.Error(1)
}
func (m *MockMaterialRepo) Update(ctx context.Context, mat *domain.Material) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}
func (m *MockMaterialRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaterialRepo) Search(ctx context.Context, query string, materialType string, page, pageSize int32) ([]domain.Material, int32, error) {
	args := m.Called(ctx, query, materialType, page, pageSize)
	return args.Get(0).([]domain.Material), args.Get(1).(int32), args.Error(2)
}
func (m *MockMaterialRepo) SetCoverImageURL(ctx context.Context, id int32, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, to, patronName string, items []string) error {
	args := m.Called(ctx, to, patronName, items)
	return args.Error(0)
}
func (m *MockEmailService) SendReservationReady(ctx context.Context, to, patronName, materialTitle string, pickupBy time.Time) error {
	args := m.Called(ctx, to, patronName, materialTitle, pickupBy)
	return args.Error(0)
}
