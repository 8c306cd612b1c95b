//go:build unit
// +build unit

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthSettingsValidation(t *testing.T) {
	valid := func() *AuthSettings {
		return &AuthSettings{
			JWTSecret:            "0123456789abcdef",
			JWTMaxAge:            60,
			VerificationTokenTTL: 24 * time.Hour,
			ResetTokenTTL:        30 * time.Minute,
		}
	}

	tests := []struct {
		name          string
		mutate        func(s *AuthSettings)
		expectedError bool
	}{
		{"valid settings", func(s *AuthSettings) {}, false},
		{"short secret", func(s *AuthSettings) { s.JWTSecret = "short" }, true},
		{"missing secret", func(s *AuthSettings) { s.JWTSecret = "" }, true},
		{"zero max age", func(s *AuthSettings) { s.JWTMaxAge = 0 }, true},
		{"missing verification ttl", func(s *AuthSettings) { s.VerificationTokenTTL = 0 }, true},
		{"missing reset ttl", func(s *AuthSettings) { s.ResetTokenTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := valid()
			tt.mutate(settings)

			err := settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMailSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *MailSettings
		expectedError bool
	}{
		{
			name: "valid log mailer",
			settings: &MailSettings{
				Type:        MailTypeLog,
				From:        "noreply@notes.example.com",
				FrontendURL: "http://localhost:3000",
			},
		},
		{
			name: "valid smtp mailer",
			settings: &MailSettings{
				Type:        MailTypeSMTP,
				Host:        "smtp.example.com",
				Port:        587,
				Username:    "mailer",
				Password:    "secret",
				From:        "noreply@notes.example.com",
				FrontendURL: "https://notes.example.com",
			},
		},
		{
			name: "smtp without host",
			settings: &MailSettings{
				Type:        MailTypeSMTP,
				Port:        587,
				From:        "noreply@notes.example.com",
				FrontendURL: "https://notes.example.com",
			},
			expectedError: true,
		},
		{
			name: "smtp without port",
			settings: &MailSettings{
				Type:        MailTypeSMTP,
				Host:        "smtp.example.com",
				From:        "noreply@notes.example.com",
				FrontendURL: "https://notes.example.com",
			},
			expectedError: true,
		},
		{
			name: "invalid sender",
			settings: &MailSettings{
				Type:        MailTypeLog,
				From:        "not-an-address",
				FrontendURL: "http://localhost:3000",
			},
			expectedError: true,
		},
		{
			name: "unknown type",
			settings: &MailSettings{
				Type:        "sendgrid",
				From:        "noreply@notes.example.com",
				FrontendURL: "http://localhost:3000",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
