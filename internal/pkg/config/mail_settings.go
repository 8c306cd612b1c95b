package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// MailSettings holds configuration for outgoing account e-mails
type MailSettings struct {
	Type          string        `mapstructure:"type" validate:"required,oneof=smtp log"`
	Host          string        `mapstructure:"host" validate:"required_if=Type smtp"`
	Port          int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	From          string        `mapstructure:"from" validate:"required,email"`
	FrontendURL   string        `mapstructure:"frontend_url" validate:"required,url"`
	RetryAttempts uint          `mapstructure:"retry_attempts" validate:"max=10"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	// SendTimeout bounds one delivery including its retries when mails are sent in the background
	SendTimeout   time.Duration `mapstructure:"send_timeout"`
}

// Validate checks that all fields in MailSettings are valid
func (s *MailSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for MailSettings: %w", err)
	}

	if s.Type == MailTypeSMTP && s.Port == 0 {
		return fmt.Errorf("port is required for smtp mailer")
	}

	return nil
}
