//go:build unit
// +build unit

package cryptography

import (
	"strings"
	"testing"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupArgon2Hasher(t *testing.T) users.PasswordHasher {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	hasher, err := NewArgon2Hasher(DefaultArgon2Params(), logger)
	require.NoError(t, err)
	return hasher
}

func TestArgon2Hasher(t *testing.T) {
	hasher := setupArgon2Hasher(t)

	t.Run("HashCompare", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))

		ok, err := hasher.Compare("correct horse battery staple", hash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = hasher.Compare("wrong password", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RandomSalt", func(t *testing.T) {
		first, err := hasher.Hash("password123")
		require.NoError(t, err)
		second, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, users.ErrEmptyPassword)

		_, err = hasher.Compare("", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA")
		assert.ErrorIs(t, err, users.ErrEmptyPassword)
	})

	t.Run("ExceededMaxPasswordLength", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("x", 129))
		var lengthErr *users.ExceededMaxPasswordLengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, 128, lengthErr.Max)
		assert.Equal(t, "Max password length is 128", err.Error())

		_, err = hasher.Hash(strings.Repeat("x", 128))
		assert.NoError(t, err)
	})

	t.Run("InvalidHashFormat", func(t *testing.T) {
		for _, hash := range []string{
			"",
			"plain",
			"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=16$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=0,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
			"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$",
		} {
			_, err := hasher.Compare("password", hash)
			assert.ErrorIs(t, err, users.ErrInvalidHashFormat, "hash %q", hash)
		}
	})

	t.Run("ParametersReadFromHash", func(t *testing.T) {
		weak, err := NewArgon2Hasher(Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}, testutil.SetupTestLogger(t))
		require.NoError(t, err)

		hash, err := weak.Hash("password123")
		require.NoError(t, err)

		ok, err := hasher.Compare("password123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestNewArgon2Hasher_InvalidParams(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	_, err := NewArgon2Hasher(Argon2Params{}, logger)
	assert.Error(t, err)

	_, err = NewArgon2Hasher(Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 32}, logger)
	assert.Error(t, err)
}
