//go:build unit
// +build unit

package users

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UserValidationTests struct encapsulates the test data and methods for User validation
type UserValidationTests struct {
	validUser        User
	invalidEmailUser User
	invalidRoleUser  User
	missingNameUser  User
	invalidIDUser    User
}

// NewUserValidationTests is a constructor to create a new instance of UserValidationTests
func NewUserValidationTests() *UserValidationTests {
	valid := User{
		ID:           uuid.NewString(),
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	invalidEmail := valid
	invalidEmail.Email = "not-an-email"

	invalidRole := valid
	invalidRole.Role = Role("moderator")

	missingName := valid
	missingName.Name = ""

	invalidID := valid
	invalidID.ID = "123"

	return &UserValidationTests{
		validUser:        valid,
		invalidEmailUser: invalidEmail,
		invalidRoleUser:  invalidRole,
		missingNameUser:  missingName,
		invalidIDUser:    invalidID,
	}
}

// TestUserValidation tests the Validate method for User
func (ut *UserValidationTests) TestUserValidation(t *testing.T) {
	err := ut.validUser.Validate()
	assert.Nil(t, err, "Expected no validation errors for valid User")

	err = ut.invalidEmailUser.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Field: Email, Tag: email")

	err = ut.invalidRoleUser.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Field: Role, Tag: role")

	err = ut.missingNameUser.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Field: Name, Tag: required")

	err = ut.invalidIDUser.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Field: ID, Tag: uuid4")
}

// TestUserValidation is the entry point to run the User validation tests
func TestUserValidation(t *testing.T) {
	ut := NewUserValidationTests()
	t.Run("TestUserValidation", ut.TestUserValidation)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestUser_TokenValid(t *testing.T) {
	now := time.Now()
	token := "abc"
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	u := &User{VerificationToken: &token, TokenExpiresAt: &future}
	assert.True(t, u.TokenValid("abc", now))
	assert.False(t, u.TokenValid("other", now))

	u.TokenExpiresAt = &past
	assert.False(t, u.TokenValid("abc", now))

	u.TokenExpiresAt = nil
	assert.True(t, u.TokenValid("abc", now))

	assert.False(t, (&User{}).TokenValid("abc", now))
}

func TestNewFilteredUser(t *testing.T) {
	token := "secret"
	u := &User{
		ID:                uuid.NewString(),
		Name:              "John",
		Email:             "john@example.com",
		PasswordHash:      "hash",
		VerificationToken: &token,
		Role:              RoleAdmin,
		Verified:          true,
	}

	f := NewFilteredUser(u)
	assert.Equal(t, u.ID, f.ID)
	assert.Equal(t, "admin", f.Role)
	assert.True(t, f.Verified)

	list := NewFilteredUsers([]*User{u, u})
	assert.Len(t, list, 2)
}

func TestUserQuery(t *testing.T) {
	q := NewUserQuery(0, 0)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset())
	assert.NoError(t, q.Validate())

	q = NewUserQuery(3, 20)
	assert.Equal(t, 40, q.Offset())

	q = NewUserQuery(1, MaxLimit+1)
	err := q.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Limit, Tag: max")

	q = NewUserQuery(-1, 10)
	err = q.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Page, Tag: min")
}

func TestUserFilter(t *testing.T) {
	assert.True(t, UserFilter{}.IsEmpty())
	assert.False(t, ByID("x").IsEmpty())
	assert.Equal(t, "a@b.c", *ByEmail("a@b.c").Email)
	assert.Equal(t, "t", *ByToken("t").Token)
}

func TestErrors(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", ErrUserNoLongerExist)
	assert.True(t, errors.Is(wrapped, ErrUserNoLongerExist))
	assert.Equal(t, "User no longer exist", ErrUserNoLongerExist.Error())

	var lengthErr *ExceededMaxPasswordLengthError
	err := fmt.Errorf("hash: %w", &ExceededMaxPasswordLengthError{Max: 128})
	require.True(t, errors.As(err, &lengthErr))
	assert.Equal(t, "Max password length is 128", lengthErr.Error())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Jane", "Jane", false},
		{"trimmed", "  Jane Doe \t", "Jane Doe", false},
		{"multi byte at limit", strings.Repeat("é", MaxNameLength), strings.Repeat("é", MaxNameLength), false},
		{"empty", "", "", true},
		{"white space only", " \t\n ", "", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUser_Validate_BlankName(t *testing.T) {
	u := NewUserValidationTests().validUser
	u.Name = "   "

	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Name, Tag: notblank")
}
