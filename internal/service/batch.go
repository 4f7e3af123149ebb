package service

import (
	"context"
	"fmt"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
)

// systemActor is the staff id recorded when a sweep, not a librarian,
// performs an action.
const systemActor int32 = 0

type batchService struct {
	loanRepo     repository.LoanRepository
	patronRepo   repository.PatronRepository
	resRepo      repository.ReservationRepository
	copyRepo     repository.CopyRepository
	materialRepo repository.MaterialRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	desk         *HoldDesk
}

func NewBatchService(
	loanRepo repository.LoanRepository,
	patronRepo repository.PatronRepository,
	resRepo repository.ReservationRepository,
	copyRepo repository.CopyRepository,
	materialRepo repository.MaterialRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	desk *HoldDesk,
) BatchService {
	return &batchService{
		loanRepo:     loanRepo,
		patronRepo:   patronRepo,
		resRepo:      resRepo,
		copyRepo:     copyRepo,
		materialRepo: materialRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		desk:         desk,
	}
}

func (s *batchService) MarkOverdueLoans(ctx context.Context) (int, error) {
	marked, err := s.loanRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Info("overdue sweep", "loans_marked", len(marked))
	return len(marked), nil
}

// SendOverdueReminders emails each patron with open overdue loans one
// summary of everything they owe. Returns the number of patrons reminded.
func (s *batchService) SendOverdueReminders(ctx context.Context) (int, error) {
	overdue, err := s.loanRepo.ListOverdue(ctx, nil, time.Now())
	if err != nil {
		return 0, err
	}

	byPatron := map[int32][]domain.Loan{}
	for _, loan := range overdue {
		byPatron[loan.PatronID] = append(byPatron[loan.PatronID], loan)
	}

	reminded := 0
	for patronID, loans := range byPatron {
		if err := s.remindPatron(ctx, patronID, loans); err != nil {
			logger.ErrorContext(ctx, "overdue reminder failed", "patron_id", patronID, "error", err)
			continue
		}
		reminded++
	}
	logger.Info("overdue reminder sweep", "patrons_reminded", reminded, "loans_overdue", len(overdue))
	return reminded, nil
}

func (s *batchService) remindPatron(ctx context.Context, patronID int32, loans []domain.Loan) error {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return err
	}

	items := make([]string, 0, len(loans))
	for _, loan := range loans {
		title := fmt.Sprintf("copy #%d", loan.CopyID)
		if cp, err := s.copyRepo.GetByID(ctx, loan.CopyID); err == nil {
			if m, err := s.materialRepo.GetByID(ctx, cp.MaterialID); err == nil {
				title = m.Title
			}
		}
		items = append(items, fmt.Sprintf("%s (due %s)", title, loan.DueDate.Format("Jan 2")))
	}

	if err := s.emailSvc.SendOverdueReminder(ctx, patron.Email, patron.FirstName, items); err != nil {
		return err
	}
	if patron.UserID != nil {
		note := &domain.Notification{
			UserID:  *patron.UserID,
			Title:   "Overdue items",
			Message: fmt.Sprintf("You have %d overdue item(s). Daily fines apply until they are returned.", len(loans)),
			Attributes: map[string]string{
				"type": "OVERDUE_REMINDER",
			},
			CreatedDate: time.Now(),
		}
		_ = s.noteRepo.Create(ctx, note)
	}
	return nil
}

// ExpireReservations retires Ready holds whose pickup window lapsed and
// offers their copies to the next patron in each queue.
func (s *batchService) ExpireReservations(ctx context.Context) (int, error) {
	expired, err := s.resRepo.ExpireStale(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, res := range expired {
		if res.CopyID != nil {
			s.desk.OfferCopy(ctx, *res.CopyID, systemActor)
		}
	}
	logger.Info("reservation expiry sweep", "holds_expired", len(expired))
	return len(expired), nil
}

func (s *batchService) ExpireMemberships(ctx context.Context) (int64, error) {
	n, err := s.patronRepo.ExpireLapsedMemberships(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Info("membership expiry sweep", "patrons_expired", n)
	return n, nil
}
