package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
)

type reservationService struct {
	resRepo    repository.ReservationRepository
	patronRepo repository.PatronRepository
	desk       *HoldDesk
	policy     *config.PolicyConfig
}

func NewReservationService(
	resRepo repository.ReservationRepository,
	patronRepo repository.PatronRepository,
	desk *HoldDesk,
	policy *config.PolicyConfig,
) ReservationService {
	return &reservationService{
		resRepo:    resRepo,
		patronRepo: patronRepo,
		desk:       desk,
		policy:     policy,
	}
}

func (s *reservationService) Place(ctx context.Context, materialID, patronID int32) (*domain.Reservation, error) {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := domain.CheckReserve(patron, s.policy.FineThresholdCents, now); err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		MaterialID: materialID,
		PatronID:   patronID,
		PlacedDate: now,
	}
	if err := s.resRepo.Place(ctx, res); err != nil {
		return nil, err
	}

	logger.Info("hold placed", "reservation_id", res.ID, "material_id", materialID,
		"patron_id", patronID, "queue_position", res.QueuePosition)
	return res, nil
}

func (s *reservationService) Fulfill(ctx context.Context, reservationID, copyID, staffID int32) (*domain.Reservation, error) {
	readyUntil := time.Now().Add(s.policy.PickupWindow())
	res, err := s.resRepo.Fulfill(ctx, reservationID, copyID, staffID, readyUntil)
	if err != nil {
		return nil, err
	}
	s.desk.NotifyReady(ctx, res)
	return res, nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationID, patronID int32) (*domain.Reservation, error) {
	res, err := s.resRepo.Cancel(ctx, reservationID, patronID)
	if err != nil {
		return nil, err
	}
	logger.Info("hold cancelled", "reservation_id", res.ID, "patron_id", patronID)

	// A released copy should immediately serve whoever is next in line.
	if res.CopyID != nil {
		s.desk.OfferCopy(ctx, *res.CopyID, patronID)
	}
	return res, nil
}

func (s *reservationService) Position(ctx context.Context, reservationID int32) (int32, error) {
	return s.resRepo.Rank(ctx, reservationID)
}

func (s *reservationService) ListByPatron(ctx context.Context, patronID int32) ([]domain.Reservation, error) {
	return s.resRepo.ListByPatron(ctx, patronID)
}

func (s *reservationService) Queue(ctx context.Context, materialID int32) ([]domain.Reservation, error) {
	return s.resRepo.ListPendingByMaterial(ctx, materialID)
}

// HoldDesk routes freshly available copies to the head of the hold queue
// and tells the patron their hold is ready. Routing is best effort: a
// failure here must never roll back the return or cancellation that freed
// the copy.
type HoldDesk struct {
	copyRepo     repository.CopyRepository
	materialRepo repository.MaterialRepository
	patronRepo   repository.PatronRepository
	resRepo      repository.ReservationRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	pickupWindow time.Duration
}

func NewHoldDesk(
	copyRepo repository.CopyRepository,
	materialRepo repository.MaterialRepository,
	patronRepo repository.PatronRepository,
	resRepo repository.ReservationRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	pickupWindow time.Duration,
) *HoldDesk {
	return &HoldDesk{
		copyRepo:     copyRepo,
		materialRepo: materialRepo,
		patronRepo:   patronRepo,
		resRepo:      resRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		pickupWindow: pickupWindow,
	}
}

// OfferCopy assigns the copy to the material's next pending hold, if any.
func (d *HoldDesk) OfferCopy(ctx context.Context, copyID, staffID int32) {
	cp, err := d.copyRepo.GetByID(ctx, copyID)
	if err != nil {
		logger.ErrorContext(ctx, "hold routing: load copy", "copy_id", copyID, "error", err)
		return
	}
	next, err := d.resRepo.NextPending(ctx, cp.MaterialID)
	if err != nil {
		if !errors.Is(err, domain.ErrReservationNotFound) {
			logger.ErrorContext(ctx, "hold routing: next pending", "material_id", cp.MaterialID, "error", err)
		}
		return
	}

	res, err := d.resRepo.Fulfill(ctx, next.ID, copyID, staffID, time.Now().Add(d.pickupWindow))
	if err != nil {
		logger.ErrorContext(ctx, "hold routing: fulfill", "reservation_id", next.ID, "error", err)
		return
	}
	d.NotifyReady(ctx, res)
}

// NotifyReady records an in-app notification and emails the patron that
// their hold is waiting at the pickup desk.
func (d *HoldDesk) NotifyReady(ctx context.Context, res *domain.Reservation) {
	patron, err := d.patronRepo.GetByID(ctx, res.PatronID)
	if err != nil {
		logger.ErrorContext(ctx, "hold notify: load patron", "patron_id", res.PatronID, "error", err)
		return
	}
	material, err := d.materialRepo.GetByID(ctx, res.MaterialID)
	if err != nil {
		logger.ErrorContext(ctx, "hold notify: load material", "material_id", res.MaterialID, "error", err)
		return
	}

	pickupBy := time.Now().Add(d.pickupWindow)
	if res.ExpiryDate != nil {
		pickupBy = *res.ExpiryDate
	}
	_ = d.emailSvc.SendReservationReady(ctx, patron.Email, patron.FirstName, material.Title, pickupBy)

	if patron.UserID != nil {
		note := &domain.Notification{
			UserID:  *patron.UserID,
			Title:   "Hold ready for pickup",
			Message: fmt.Sprintf("%s is ready for pickup until %s", material.Title, pickupBy.Format("Jan 2")),
			Attributes: map[string]string{
				"type":           "RESERVATION_READY",
				"reservation_id": fmt.Sprintf("%d", res.ID),
			},
			CreatedDate: time.Now(),
		}
		_ = d.noteRepo.Create(ctx, note)
	}

	logger.Info("hold ready", "reservation_id", res.ID, "patron_id", res.PatronID, "pickup_by", pickupBy)
}
