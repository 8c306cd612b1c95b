package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MGTheTrain/notes-app/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// Role of a user account
type Role string

const (
	// RoleAdmin grants access to the administration endpoints
	RoleAdmin Role = "admin"
	// RoleUser is the default role of a registered account
	RoleUser Role = "user"
)

// ParseRole converts s into a Role and fails for unknown values
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// MaxNameLength is the upper bound of a display name in characters
const MaxNameLength = 100

// NormalizeName trims surrounding white space and checks the length of the display name in characters.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// String returns the textual representation of the role
func (r Role) String() string {
	return string(r)
}

// User entity
type User struct {
	ID                string    `validate:"required,uuid4"`
	Name              string    `validate:"required,notblank,min=1,max=100"`
	Email             string    `validate:"required,email,max=255"`
	PasswordHash      string    `validate:"required"`
	VerificationToken *string   `validate:"omitempty,max=255"`
	Role              Role      `validate:"role"`
	CreatedAt         time.Time `validate:"required"`
	Verified          bool
	TokenExpiresAt    *time.Time
	UpdatedAt         time.Time
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TokenValid reports whether token matches the pending token of the user and has not expired at now
func (u *User) TokenValid(token string, now time.Time) bool {
	if u.VerificationToken == nil || *u.VerificationToken != token {
		return false
	}
	if u.TokenExpiresAt == nil {
		return true
	}
	return now.Before(*u.TokenExpiresAt)
}

// Validate for validating User struct
func (u *User) Validate() error {
	validate := validator.New()

	if err := validators.Register(validate); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err := validate.Struct(u)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// FilteredUser is the public projection of a User. Password hashes and pending tokens never leave the service.
type FilteredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFilteredUser projects u into a FilteredUser
func NewFilteredUser(u *User) FilteredUser {
	return FilteredUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewFilteredUsers projects every user of list
func NewFilteredUsers(list []*User) []FilteredUser {
	out := make([]FilteredUser, 0, len(list))
	for _, u := range list {
		out = append(out, NewFilteredUser(u))
	}
	return out
}

// UserFilter selects a single user. Only the set fields take part in the lookup.
type UserFilter struct {
	ID    *string
	Name  *string
	Email *string
	Token *string
}

// IsEmpty reports whether no field of the filter is set
func (f UserFilter) IsEmpty() bool {
	return f.ID == nil && f.Name == nil && f.Email == nil && f.Token == nil
}

// ByID returns a filter matching the user with the given id
func ByID(id string) UserFilter {
	return UserFilter{ID: &id}
}

// ByEmail returns a filter matching the user with the given e-mail
func ByEmail(email string) UserFilter {
	return UserFilter{Email: &email}
}

// ByToken returns a filter matching the user holding the given verification or reset token
func ByToken(token string) UserFilter {
	return UserFilter{Token: &token}
}

const (
	// DefaultPage is used when a query does not set a page
	DefaultPage = 1
	// DefaultLimit is used when a query does not set a limit
	DefaultLimit = 10
	// MaxLimit caps the page size of user listings
	MaxLimit = 50
)

// UserQuery paginates user listings
type UserQuery struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1,max=50"`
}

// NewUserQuery creates a query and substitutes the defaults for zero values
func NewUserQuery(page, limit int) *UserQuery {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return &UserQuery{Page: page, Limit: limit}
}

// Offset returns the number of rows skipped before the requested page
func (q *UserQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Validate for validating UserQuery struct
func (q *UserQuery) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
