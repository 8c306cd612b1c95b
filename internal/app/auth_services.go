package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"

	"github.com/google/uuid"
)

// authService implements the AuthService interface for the self service account flows
type authService struct {
	userRepo users.UserRepository
	hasher   users.PasswordHasher
	tokens   users.TokenManager
	mailer   users.Mailer
	settings *config.AuthSettings
	logger   logger.Logger
	now      func() time.Time
}

// NewAuthService creates a new authService instance
func NewAuthService(
	userRepo users.UserRepository,
	hasher users.PasswordHasher,
	tokens users.TokenManager,
	mailer users.Mailer,
	settings *config.AuthSettings,
	logger logger.Logger,
) (users.AuthService, error) {
	if settings == nil {
		return nil, fmt.Errorf("auth settings are required")
	}
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Register creates an unverified account and sends the verification e-mail.
// A failing mail delivery is logged but does not fail the registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (*users.User, error) {
	name, err := users.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	token := uuid.NewString()
	expiresAt := now.Add(s.settings.VerificationTokenTTL)

	user := &users.User{
		ID:                uuid.NewString(),
		Name:              name,
		Email:             normalizeEmail(email),
		PasswordHash:      hash,
		VerificationToken: &token,
		TokenExpiresAt:    &expiresAt,
		Role:              users.RoleUser,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Error("Failed to send verification e-mail to ", user.Email, ": ", err)
	}

	s.logger.Info("Registered user with id ", user.ID)
	return user, nil
}

// Login checks the credentials and returns a signed access token
func (s *authService) Login(ctx context.Context, email, password string) (string, *users.User, error) {
	user, err := s.userRepo.GetUser(ctx, users.ByEmail(normalizeEmail(email)))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, users.ErrWrongCredentials
	}

	ok, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		var lengthErr *users.ExceededMaxPasswordLengthError
		if errors.Is(err, users.ErrEmptyPassword) || errors.As(err, &lengthErr) {
			return "", nil, users.ErrWrongCredentials
		}
		return "", nil, err
	}
	if !ok {
		return "", nil, users.ErrWrongCredentials
	}

	if s.settings.RequireVerifiedEmail && !user.Verified {
		return "", nil, users.ErrEmailNotVerified
	}

	token, err := s.tokens.Create(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User ", user.ID, " logged in")
	return token, user, nil
}

// VerifyEmail consumes a verification token and welcomes the user
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userByPendingToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.userRepo.VerifyToken(ctx, token); err != nil {
		return err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.logger.Error("Failed to send welcome e-mail to ", user.Email, ": ", err)
	}

	s.logger.Info("Verified e-mail of user ", user.ID)
	return nil
}

// ForgotPassword issues a reset token. Unknown e-mails and mail failures are only logged.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUser(ctx, users.ByEmail(normalizeEmail(email)))
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Info("Password reset requested for unknown e-mail")
		return nil
	}

	token := uuid.NewString()
	expiresAt := s.now().UTC().Add(s.settings.ResetTokenTTL)
	if err := s.userRepo.SetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Error("Failed to send password reset e-mail to ", user.Email, ": ", err)
		return nil
	}

	s.logger.Info("Issued password reset token for user ", user.ID)
	return nil
}

// ResetPassword consumes a reset token and replaces the password. The token is consumed by the same
// statement that stores the new hash, so concurrent resets with one token succeed at most once.
func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.userByPendingToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.userRepo.ResetPassword(ctx, token, hash, s.now().UTC()); err != nil {
		return err
	}

	s.logger.Info("Reset password of user ", user.ID)
	return nil
}

// Authenticate resolves the user behind an access token
func (s *authService) Authenticate(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, users.ErrTokenNotProvided
	}

	subject, err := s.tokens.Decode(token)
	if err != nil {
		return nil, users.ErrInvalidToken
	}

	user, err := s.userRepo.GetUser(ctx, users.ByID(subject))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, users.ErrUserNoLongerExist
	}
	return user, nil
}

func (s *authService) userByPendingToken(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, users.ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.GetUser(ctx, users.ByToken(token))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.TokenValid(token, s.now()) {
		return nil, users.ErrInvalidOrExpiredToken
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
