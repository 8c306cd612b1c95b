package connector

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
)

// logMailer writes rendered mails to the logger instead of delivering them
type logMailer struct {
	renderer *mailRenderer
	logger   logger.Logger
}

// NewLogMailer creates a Mailer for local development and tests
func NewLogMailer(mailSettings *config.MailSettings, authSettings *config.AuthSettings, logger logger.Logger) (users.Mailer, error) {
	renderer, err := newMailRenderer(mailSettings.FrontendURL, authSettings.VerificationTokenTTL, authSettings.ResetTokenTTL)
	if err != nil {
		return nil, err
	}
	return &logMailer{renderer: renderer, logger: logger}, nil
}

func (m *logMailer) SendVerificationEmail(_ context.Context, to, name, token string) error {
	msg, err := m.renderer.verification(to, name, token)
	if err != nil {
		return err
	}
	m.log(msg)
	return nil
}

func (m *logMailer) SendPasswordResetEmail(_ context.Context, to, name, token string) error {
	msg, err := m.renderer.passwordReset(to, name, token)
	if err != nil {
		return err
	}
	m.log(msg)
	return nil
}

func (m *logMailer) SendWelcomeEmail(_ context.Context, to, name string) error {
	msg, err := m.renderer.welcome(to, name)
	if err != nil {
		return err
	}
	m.log(msg)
	return nil
}

func (m *logMailer) log(msg *mail) {
	m.logger.Info(fmt.Sprintf("Mail %q to %s: %s", msg.Subject, msg.To, msg.Link))
	m.logger.Debug(msg.Body)
}
