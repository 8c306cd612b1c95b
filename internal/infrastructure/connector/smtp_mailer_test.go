//go:build unit
// +build unit

package connector

import (
	"context"
	"testing"
	"time"

	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailSettings() *config.MailSettings {
	return &config.MailSettings{
		Type:          config.MailTypeSMTP,
		Host:          "smtp.example.com",
		Port:          587,
		From:          "no-reply@example.com",
		FrontendURL:   "http://localhost:3000/",
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func testAuthSettings() *config.AuthSettings {
	return &config.AuthSettings{
		JWTSecret:            "0123456789abcdef",
		JWTMaxAge:            60,
		VerificationTokenTTL: 24 * time.Hour,
		ResetTokenTTL:        30 * time.Minute,
	}
}

func setupSMTPMailer(t *testing.T, s sender) *smtpMailer {
	t.Helper()
	mailer, err := newSMTPMailer(testMailSettings(), testAuthSettings(), s, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return mailer
}

func TestSMTPMailer_SendVerificationEmail(t *testing.T) {
	s := &fakeSender{}
	mailer := setupSMTPMailer(t, s)

	err := mailer.SendVerificationEmail(context.Background(), "jane@example.com", "Jane", "abc-123")
	require.NoError(t, err)

	assert.Equal(t, 1, s.calls)
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, s.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Verify your e-mail address"}, s.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"no-reply@example.com"}, s.sent[0].GetHeader("From"))
}

func TestSMTPMailer_RetriesTransientFailures(t *testing.T) {
	s := &fakeSender{failures: 2}
	mailer := setupSMTPMailer(t, s)

	err := mailer.SendPasswordResetEmail(context.Background(), "jane@example.com", "Jane", "reset")
	require.NoError(t, err)
	assert.Equal(t, 3, s.calls)
	assert.Len(t, s.sent, 1)
}

func TestSMTPMailer_GivesUpAfterAttempts(t *testing.T) {
	s := &fakeSender{failures: 10}
	mailer := setupSMTPMailer(t, s)

	err := mailer.SendWelcomeEmail(context.Background(), "jane@example.com", "Jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "421 service not available")
	assert.Equal(t, 3, s.calls)
	assert.Empty(t, s.sent)
}

func TestSMTPMailer_ContextCanceled(t *testing.T) {
	s := &fakeSender{failures: 10}
	mailer := setupSMTPMailer(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.SendWelcomeEmail(ctx, "jane@example.com", "Jane")
	assert.Error(t, err)
	assert.LessOrEqual(t, s.calls, 1)
}

func TestNewSMTPMailer_InvalidSettings(t *testing.T) {
	settings := testMailSettings()
	settings.Port = 0

	_, err := NewSMTPMailer(settings, testAuthSettings(), testutil.SetupTestLogger(t))
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	mailer, err := NewMailer(testMailSettings(), testAuthSettings(), logger)
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, mailer)

	logSettings := testMailSettings()
	logSettings.Type = config.MailTypeLog
	mailer, err = NewMailer(logSettings, testAuthSettings(), logger)
	require.NoError(t, err)
	assert.IsType(t, &logMailer{}, mailer)

	logSettings.Type = "pigeon"
	_, err = NewMailer(logSettings, testAuthSettings(), logger)
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	settings := testMailSettings()
	settings.Type = config.MailTypeLog

	mailer, err := NewLogMailer(settings, testAuthSettings(), testutil.SetupTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, mailer.SendVerificationEmail(ctx, "jane@example.com", "Jane", "token"))
	assert.NoError(t, mailer.SendPasswordResetEmail(ctx, "jane@example.com", "Jane", "token"))
	assert.NoError(t, mailer.SendWelcomeEmail(ctx, "jane@example.com", "Jane"))
}
