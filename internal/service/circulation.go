package service

import (
	"context"
	"fmt"
	"time"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
)

type circulationService struct {
	loanRepo   repository.LoanRepository
	patronRepo repository.PatronRepository
	desk       *HoldDesk
	policy     *config.PolicyConfig
}

func NewCirculationService(
	loanRepo repository.LoanRepository,
	patronRepo repository.PatronRepository,
	desk *HoldDesk,
	policy *config.PolicyConfig,
) CirculationService {
	return &circulationService{
		loanRepo:   loanRepo,
		patronRepo: patronRepo,
		desk:       desk,
		policy:     policy,
	}
}

func (s *circulationService) Checkout(ctx context.Context, copyID, patronID, staffID int32) (*domain.Loan, error) {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}
	openLoans, err := s.patronRepo.CountOpenLoans(ctx, patronID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := domain.CheckBorrow(patron, openLoans, s.policy.FineThresholdCents, now); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		CopyID:       copyID,
		PatronID:     patronID,
		CheckoutDate: now,
		DueDate:      now.Add(s.policy.LoanPeriod(string(patron.MembershipType))),
		CheckedOutBy: staffID,
	}
	if err := s.loanRepo.Checkout(ctx, loan); err != nil {
		return nil, err
	}

	logger.Info("checkout", "loan_id", loan.ID, "copy_id", copyID, "patron_id", patronID, "due", loan.DueDate)
	return loan, nil
}

func (s *circulationService) Return(ctx context.Context, loanID, staffID int32) (*domain.Loan, *domain.Fine, error) {
	now := time.Now()
	loan, fine, err := s.loanRepo.Return(ctx, loanID, staffID, now, s.overdueFine(now))
	if err != nil {
		return nil, nil, err
	}

	if fine != nil {
		logger.Info("overdue fine assessed", "loan_id", loan.ID, "fine_id", fine.ID, "amount_cents", fine.AmountCents)
	}

	// The returned copy goes to the head of the hold queue before it goes
	// back on the shelf.
	s.desk.OfferCopy(ctx, loan.CopyID, staffID)
	return loan, fine, nil
}

// overdueFine prices a late return at the daily rate times whole days late.
// On-time returns produce no fine.
func (s *circulationService) overdueFine(at time.Time) func(*domain.Loan) *domain.Fine {
	return func(l *domain.Loan) *domain.Fine {
		days := domain.DaysOverdue(l.DueDate, at)
		if days <= 0 {
			return nil
		}
		loanID := l.ID
		return &domain.Fine{
			LoanID:      &loanID,
			PatronID:    l.PatronID,
			AmountCents: days * s.policy.DailyFineCents,
			Type:        domain.FineOverdue,
			Reason:      fmt.Sprintf("Returned %d day(s) late", days),
			IssuedDate:  at,
		}
	}
}

func (s *circulationService) Renew(ctx context.Context, loanID int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.Renew(ctx, loanID, s.policy.RenewalPeriod(), s.policy.MaxRenewals)
	if err != nil {
		return nil, err
	}
	logger.Info("loan renewed", "loan_id", loan.ID, "renewal_count", loan.RenewalCount, "due", loan.DueDate)
	return loan, nil
}

func (s *circulationService) DeclareLost(ctx context.Context, loanID, staffID, replacementCostCents int32) (*domain.Loan, *domain.Fine, error) {
	now := time.Now()
	loan, fine, err := s.loanRepo.DeclareLost(ctx, loanID, staffID, now, func(l *domain.Loan) *domain.Fine {
		if replacementCostCents <= 0 {
			return nil
		}
		lostLoanID := l.ID
		return &domain.Fine{
			LoanID:      &lostLoanID,
			PatronID:    l.PatronID,
			AmountCents: replacementCostCents,
			Type:        domain.FineLostItem,
			Reason:      "Replacement cost for lost item",
			IssuedDate:  now,
		}
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Warn("loan declared lost", "loan_id", loan.ID, "copy_id", loan.CopyID)
	return loan, fine, nil
}

func (s *circulationService) ActiveLoans(ctx context.Context, patronID int32) ([]domain.Loan, error) {
	return s.loanRepo.ListOpenByPatron(ctx, patronID)
}

func (s *circulationService) OverdueLoans(ctx context.Context, branchID *int32) ([]domain.Loan, error) {
	return s.loanRepo.ListOverdue(ctx, branchID, time.Now())
}
