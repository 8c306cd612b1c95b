package connector

import (
	"fmt"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
)

// NewMailer creates the Mailer selected by the mail type of the settings
func NewMailer(mailSettings *config.MailSettings, authSettings *config.AuthSettings, logger logger.Logger) (users.Mailer, error) {
	switch mailSettings.Type {
	case config.MailTypeSMTP:
		return NewSMTPMailer(mailSettings, authSettings, logger)
	case config.MailTypeLog:
		return NewLogMailer(mailSettings, authSettings, logger)
	default:
		return nil, fmt.Errorf("unsupported mail type: %s", mailSettings.Type)
	}
}
