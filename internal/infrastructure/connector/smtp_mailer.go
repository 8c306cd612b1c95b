package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"

	"github.com/avast/retry-go/v4"
	"gopkg.in/gomail.v2"
)

// sender delivers composed messages. *gomail.Dialer satisfies it.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// smtpMailer struct that implements the Mailer interface over SMTP
type smtpMailer struct {
	from          string
	sender        sender
	renderer      *mailRenderer
	retryAttempts uint
	retryDelay    time.Duration
	logger        logger.Logger
}

// NewSMTPMailer creates a Mailer delivering through the SMTP server of the settings
func NewSMTPMailer(mailSettings *config.MailSettings, authSettings *config.AuthSettings, logger logger.Logger) (users.Mailer, error) {
	if err := mailSettings.Validate(); err != nil {
		return nil, err
	}

	dialer := gomail.NewDialer(mailSettings.Host, mailSettings.Port, mailSettings.Username, mailSettings.Password)
	return newSMTPMailer(mailSettings, authSettings, dialer, logger)
}

func newSMTPMailer(mailSettings *config.MailSettings, authSettings *config.AuthSettings, s sender, logger logger.Logger) (*smtpMailer, error) {
	renderer, err := newMailRenderer(mailSettings.FrontendURL, authSettings.VerificationTokenTTL, authSettings.ResetTokenTTL)
	if err != nil {
		return nil, err
	}

	attempts := mailSettings.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &smtpMailer{
		from:          mailSettings.From,
		sender:        s,
		renderer:      renderer,
		retryAttempts: attempts,
		retryDelay:    mailSettings.RetryDelay,
		logger:        logger,
	}, nil
}

func (m *smtpMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	msg, err := m.renderer.verification(to, name, token)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *smtpMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	msg, err := m.renderer.passwordReset(to, name, token)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *smtpMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	msg, err := m.renderer.welcome(to, name)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *smtpMailer) send(ctx context.Context, msg *mail) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.Body)

	err := retry.Do(
		func() error {
			return m.sender.DialAndSend(message)
		},
		retry.Context(ctx),
		retry.Attempts(m.retryAttempts),
		retry.Delay(m.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			m.logger.Warn(fmt.Sprintf("Sending %q to %s failed (attempt %d/%d): %v", msg.Subject, msg.To, attempt+1, m.retryAttempts, err))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}

	m.logger.Info("Sent mail ", msg.Subject, " to ", msg.To)
	return nil
}
