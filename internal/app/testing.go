//go:build integration
// +build integration

package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/persistence"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestJWTSecret signs the access tokens issued during tests
const TestJWTSecret = "integration-test-signing-key"

// sentMail is one mail captured by the recording mailer
type sentMail struct {
	Kind  string
	To    string
	Name  string
	Token string
}

// recordingMailer captures mails instead of delivering them
type recordingMailer struct {
	mu   sync.Mutex
	fail bool
	sent []sentMail
}

func (m *recordingMailer) record(kind, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Name: name, Token: token})
	return nil
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, name, token string) error {
	return m.record("verification", to, name, token)
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, name, token string) error {
	return m.record("reset", to, name, token)
}

func (m *recordingMailer) SendWelcomeEmail(_ context.Context, to, name string) error {
	return m.record("welcome", to, name, "")
}

// Last returns the most recent mail of kind
func (m *recordingMailer) Last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	AuthService users.AuthService
	UserService users.UserService
	Hasher      users.PasswordHasher
	Tokens      users.TokenManager
	Mailer      *recordingMailer
	Settings    *config.AuthSettings

	// Infrastructure
	DBContext *persistence.TestContext
}

// TestAuthSettings returns the auth policy used by the integration tests
func TestAuthSettings() *config.AuthSettings {
	return &config.AuthSettings{
		JWTSecret:            TestJWTSecret,
		JWTMaxAge:            60,
		VerificationTokenTTL: 24 * time.Hour,
		ResetTokenTTL:        30 * time.Minute,
	}
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string, settings *config.AuthSettings) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	if settings == nil {
		settings = TestAuthSettings()
	}

	// Cheap parameters keep the suite fast
	hasher, err := cryptography.NewArgon2Hasher(cryptography.Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}, logger)
	require.NoError(t, err, "Failed to create password hasher")

	tokens, err := cryptography.NewJWTManager(settings.JWTSecret, settings.TokenMaxAge())
	require.NoError(t, err, "Failed to create token manager")

	mailer := &recordingMailer{}

	authService, err := NewAuthService(dbContext.UserRepo, hasher, tokens, mailer, settings, logger)
	require.NoError(t, err, "Failed to create auth service")

	userService, err := NewUserService(dbContext.UserRepo, hasher, logger)
	require.NoError(t, err, "Failed to create user service")

	return &TestServices{
		AuthService: authService,
		UserService: userService,
		Hasher:      hasher,
		Tokens:      tokens,
		Mailer:      mailer,
		Settings:    settings,
		DBContext:   dbContext,
	}
}
