package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional notifications to instructors.
type Sender interface {
	SendApprovalNotification(toName, toAddress string) error
	SendCertificationExpiryReminder(toName, toAddress, certificationName, expiryDate string) error
}

// Config holds SendGrid delivery settings.
type Config struct {
	APIKey      string
	FromName    string
	FromAddress string
}

// SendGridSender sends notifications through the SendGrid API.
type SendGridSender struct {
	client *sendgrid.Client
	config Config
	logger zerolog.Logger
}

// NewSendGridSender creates a new SendGridSender.
func NewSendGridSender(config Config, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(config.APIKey),
		config: config,
		logger: logger,
	}
}

func (s *SendGridSender) send(toName, toAddress, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.config.FromName, s.config.FromAddress)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email delivery rejected with status %d", resp.StatusCode)
	}

	s.logger.Debug().Str("to", toAddress).Str("subject", subject).Msg("Sent notification email")
	return nil
}

// SendApprovalNotification tells an instructor their account was approved.
func (s *SendGridSender) SendApprovalNotification(toName, toAddress string) error {
	subject := "Your instructor account has been approved"
	plainText := fmt.Sprintf("Hi %s,\n\nYour instructor account has been approved. You can now sign in and access the portal.\n", toName)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Your instructor account has been approved. You can now sign in and access the portal.</p>", toName)
	return s.send(toName, toAddress, subject, plainText, htmlContent)
}

// SendCertificationExpiryReminder warns an instructor about an expiring
// certification.
func (s *SendGridSender) SendCertificationExpiryReminder(toName, toAddress, certificationName, expiryDate string) error {
	subject := fmt.Sprintf("Certification expiring: %s", certificationName)
	plainText := fmt.Sprintf("Hi %s,\n\nYour %s certification expires on %s. Please schedule a renewal.\n", toName, certificationName, expiryDate)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Your <b>%s</b> certification expires on %s. Please schedule a renewal.</p>", toName, certificationName, expiryDate)
	return s.send(toName, toAddress, subject, plainText, htmlContent)
}

// NoopSender drops notifications. Used when no SendGrid API key is
// configured, for example in development.
type NoopSender struct {
	logger zerolog.Logger
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender(logger zerolog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) SendApprovalNotification(toName, toAddress string) error {
	s.logger.Debug().Str("to", toAddress).Msg("Email delivery disabled, skipping approval notification")
	return nil
}

func (s *NoopSender) SendCertificationExpiryReminder(toName, toAddress, certificationName, expiryDate string) error {
	s.logger.Debug().Str("to", toAddress).Str("certification", certificationName).Msg("Email delivery disabled, skipping expiry reminder")
	return nil
}
