package users

import (
	"context"
	"time"
)

// UserRepository defines the persistence operations on user accounts
type UserRepository interface {
	// GetUser returns the first user matching all set fields of filter, or nil when there is none.
	GetUser(ctx context.Context, filter UserFilter) (*User, error)
	// List returns one page of users ordered by creation time, newest first.
	List(ctx context.Context, query *UserQuery) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	// Create stores a new user. A duplicate e-mail yields ErrEmailExists.
	Create(ctx context.Context, user *User) error
	UpdateName(ctx context.Context, id, name string) (*User, error)
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*User, error)
	// VerifyToken marks the holder of token as verified and clears the token.
	VerifyToken(ctx context.Context, token string) error
	// SetToken stores a pending verification or reset token together with its expiry.
	SetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	// ResetPassword stores passwordHash for the holder of token and consumes the token in one statement.
	// A token that is unknown, already consumed or expired at now yields ErrInvalidOrExpiredToken.
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
	// ClearToken removes a pending token without touching the verification flag.
	ClearToken(ctx context.Context, id string) error
	AutoMigrate(ctx context.Context) error
}

// AuthService defines the self service flows of an account: registration, login, e-mail verification
// and password recovery.
type AuthService interface {
	// Register creates an unverified account and sends the verification e-mail.
	Register(ctx context.Context, name, email, password string) (*User, error)

	// Login checks the credentials and returns a signed access token for the user.
	Login(ctx context.Context, email, password string) (string, *User, error)

	// VerifyEmail consumes a verification token.
	VerifyEmail(ctx context.Context, token string) error

	// ForgotPassword issues a reset token for the account with the given e-mail. Unknown e-mails are not reported.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the password.
	ResetPassword(ctx context.Context, token, password string) error

	// Authenticate resolves the user behind an access token.
	Authenticate(ctx context.Context, token string) (*User, error)
}

// UserService defines the account management operations
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)

	// List returns one page of users and the total number of users.
	List(ctx context.Context, query *UserQuery) ([]*User, int64, error)

	UpdateName(ctx context.Context, id, name string) (*User, error)
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)

	// UpdatePassword replaces the password after checking the current one.
	UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error

	// CreateAdmin creates a verified account holding the admin role.
	CreateAdmin(ctx context.Context, name, email, password string) (*User, error)
}

// PasswordHasher derives and checks password hashes
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

// TokenManager issues and decodes signed access tokens
type TokenManager interface {
	Create(subject string) (string, error)
	Decode(token string) (string, error)
	MaxAge() time.Duration
}

// Mailer is an interface for delivering account e-mails.
// The current implementations send over SMTP or write the message to the log.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
}
