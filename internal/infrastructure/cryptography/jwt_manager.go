package cryptography

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/golang-jwt/jwt/v5"
)

// jwtManager struct that implements the TokenManager interface using HS256 signed tokens
type jwtManager struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewJWTManager creates a token manager signing with secret. Tokens expire after maxAge.
func NewJWTManager(secret string, maxAge time.Duration) (users.TokenManager, error) {
	return newJWTManager(secret, maxAge, time.Now)
}

func newJWTManager(secret string, maxAge time.Duration, now func() time.Time) (*jwtManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("jwt max age must be positive")
	}
	return &jwtManager{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    now,
	}, nil
}

// Create issues a token for subject
func (m *jwtManager) Create(subject string) (string, error) {
	if subject == "" {
		return "", users.ErrInvalidToken
	}

	issuedAt := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.maxAge)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its subject
func (m *jwtManager) Decode(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", users.ErrInvalidToken)
		}
		return "", users.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", users.ErrInvalidToken
	}
	return claims.Subject, nil
}

// MaxAge returns the lifetime of issued tokens
func (m *jwtManager) MaxAge() time.Duration {
	return m.maxAge
}
