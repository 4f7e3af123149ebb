package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
)

type patronService struct {
	patronRepo repository.PatronRepository
	policy     *config.PolicyConfig
}

func NewPatronService(patronRepo repository.PatronRepository, policy *config.PolicyConfig) PatronService {
	return &patronService{patronRepo: patronRepo, policy: policy}
}

// defaultBorrowLimits by membership tier, applied at registration when the
// caller does not set one.
var defaultBorrowLimits = map[domain.MembershipType]int32{
	domain.MembershipStandard: 10,
	domain.MembershipStudent:  10,
	domain.MembershipPremium:  15,
	domain.MembershipVIP:      20,
	domain.MembershipChild:    5,
}

func (s *patronService) Register(ctx context.Context, p *domain.Patron) error {
	now := time.Now()
	if p.CardNumber == "" {
		p.CardNumber = newCardNumber()
	}
	if p.MembershipType == "" {
		p.MembershipType = domain.MembershipStandard
	}
	if p.MaxBorrowLimit == 0 {
		p.MaxBorrowLimit = defaultBorrowLimits[p.MembershipType]
	}
	p.RegistrationDate = now
	p.MembershipExpiry = now.Add(s.policy.MembershipPeriod())
	p.AccountStatus = domain.AccountActive
	p.TotalFinesOwedCents = 0

	if err := s.patronRepo.Create(ctx, p); err != nil {
		return err
	}
	logger.Info("patron registered", "patron_id", p.ID, "card_number", p.CardNumber,
		"membership", p.MembershipType)
	return nil
}

func newCardNumber() string {
	return "OS-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *patronService) Get(ctx context.Context, patronID int32) (*domain.Patron, error) {
	return s.patronRepo.GetByID(ctx, patronID)
}

func (s *patronService) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Patron, error) {
	return s.patronRepo.GetByCardNumber(ctx, cardNumber)
}

func (s *patronService) UpdateContact(ctx context.Context, patronID int32, email, phone, address string) error {
	return s.patronRepo.UpdateContact(ctx, patronID, email, phone, address)
}

func (s *patronService) Suspend(ctx context.Context, patronID int32) error {
	if err := s.patronRepo.SetAccountStatus(ctx, patronID, domain.AccountSuspended); err != nil {
		return err
	}
	logger.Warn("patron suspended", "patron_id", patronID)
	return nil
}

func (s *patronService) Reactivate(ctx context.Context, patronID int32) error {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return err
	}
	// Reactivating a lapsed membership still leaves it Expired; the patron
	// has to renew, not just un-suspend.
	status := domain.AccountActive
	if time.Now().After(patron.MembershipExpiry) {
		status = domain.AccountExpired
	}
	if err := s.patronRepo.SetAccountStatus(ctx, patronID, status); err != nil {
		return err
	}
	logger.Info("patron reactivated", "patron_id", patronID, "status", status)
	return nil
}

func (s *patronService) RenewMembership(ctx context.Context, patronID int32) (*domain.Patron, error) {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}

	// Renewal extends from the current expiry when it is still in the
	// future, otherwise from today.
	now := time.Now()
	base := patron.MembershipExpiry
	if base.Before(now) {
		base = now
	}
	newExpiry := base.Add(s.policy.MembershipPeriod())

	if err := s.patronRepo.RenewMembership(ctx, patronID, newExpiry); err != nil {
		return nil, err
	}
	logger.Info("membership renewed", "patron_id", patronID, "expiry", newExpiry)
	return s.patronRepo.GetByID(ctx, patronID)
}

func (s *patronService) Statistics(ctx context.Context, patronID int32) (*domain.PatronStatistics, error) {
	if _, err := s.patronRepo.GetByID(ctx, patronID); err != nil {
		return nil, err
	}
	return s.patronRepo.Statistics(ctx, patronID)
}
