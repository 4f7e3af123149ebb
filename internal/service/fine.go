package service

import (
	"context"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
)

type fineService struct {
	fineRepo repository.FineRepository
}

func NewFineService(fineRepo repository.FineRepository) FineService {
	return &fineService{fineRepo: fineRepo}
}

func (s *fineService) Assess(ctx context.Context, patronID int32, loanID *int32, amountCents int32, fineType domain.FineType, reason string) (*domain.Fine, int32, error) {
	fine := &domain.Fine{
		LoanID:      loanID,
		PatronID:    patronID,
		AmountCents: amountCents,
		Type:        fineType,
		Reason:      reason,
		IssuedDate:  time.Now(),
	}
	balance, err := s.fineRepo.Create(ctx, fine)
	if err != nil {
		return nil, 0, err
	}
	logger.Info("fine assessed", "fine_id", fine.ID, "patron_id", patronID,
		"amount_cents", amountCents, "balance_cents", balance)
	return fine, balance, nil
}

func (s *fineService) Pay(ctx context.Context, fineID, amountCents int32, method domain.PaymentMethod) (*domain.Fine, int32, error) {
	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, 0, err
	}
	if amountCents != fine.AmountCents {
		return nil, 0, domain.ErrPartialPayment
	}

	fine, balance, err := s.fineRepo.Pay(ctx, fineID, method, time.Now())
	if err != nil {
		return nil, 0, err
	}
	logger.Info("fine paid", "fine_id", fine.ID, "patron_id", fine.PatronID,
		"amount_cents", fine.AmountCents, "balance_cents", balance)
	return fine, balance, nil
}

func (s *fineService) Waive(ctx context.Context, fineID, staffID int32, reason string) (*domain.Fine, int32, error) {
	fine, balance, err := s.fineRepo.Waive(ctx, fineID, staffID, reason, time.Now())
	if err != nil {
		return nil, 0, err
	}
	logger.Info("fine waived", "fine_id", fine.ID, "patron_id", fine.PatronID,
		"waived_by", staffID, "balance_cents", balance)
	return fine, balance, nil
}

func (s *fineService) List(ctx context.Context, patronID int32, status domain.FineStatus) ([]domain.Fine, error) {
	return s.fineRepo.ListByPatron(ctx, patronID, status)
}
