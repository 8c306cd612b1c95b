package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthSettings holds the token and account policy settings
type AuthSettings struct {
	JWTSecret            string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	JWTMaxAge            int           `mapstructure:"jwt_max_age" validate:"required,min=1"`
	RequireVerifiedEmail bool          `mapstructure:"require_verified_email"`
	VerificationTokenTTL time.Duration `mapstructure:"verification_token_ttl" validate:"required"`
	ResetTokenTTL        time.Duration `mapstructure:"reset_token_ttl" validate:"required"`
	CookieSecure         bool          `mapstructure:"cookie_secure"`
}

// TokenMaxAge returns the JWT lifetime; JWTMaxAge is expressed in minutes
func (s *AuthSettings) TokenMaxAge() time.Duration {
	return time.Duration(s.JWTMaxAge) * time.Minute
}

// Validate checks that all fields in AuthSettings are valid
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	return nil
}
