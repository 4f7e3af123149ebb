package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"openshelf-backend/internal/config"
	"openshelf-backend/internal/logger"
)

type emailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailService(cfg *config.SendGridConfig) EmailService {
	return &emailService{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

func (s *emailService) SendOverdueReminder(ctx context.Context, to, patronName string, items []string) error {
	subject := fmt.Sprintf("Overdue reminder: %d item(s)", len(items))
	body := fmt.Sprintf("Hi %s,\n\nThe following items are overdue:\n\n- %s\n\nPlease return them as soon as possible. Daily fines apply until they are back.\n",
		patronName, strings.Join(items, "\n- "))
	return s.send(ctx, to, patronName, subject, body)
}

func (s *emailService) SendReservationReady(ctx context.Context, to, patronName, materialTitle string, pickupBy time.Time) error {
	subject := fmt.Sprintf("Your hold is ready: %s", materialTitle)
	body := fmt.Sprintf("Hi %s,\n\n%s is being held for you at the pickup desk until %s.\n\nIt will be offered to the next patron in line after that.\n",
		patronName, materialTitle, pickupBy.Format("Monday, January 2"))
	return s.send(ctx, to, patronName, subject, body)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, to), body, "")
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ErrorContext(ctx, "sendgrid send failed", "to", to, "subject", subject, "error", err)
		return err
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		logger.ErrorContext(ctx, "sendgrid send rejected", "to", to, "subject", subject, "error", err)
		return err
	}
	logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}
