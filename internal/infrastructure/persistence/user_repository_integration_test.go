//go:build integration
// +build integration

package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachDatabase runs fn against SQLite and, unless -short is set, PostgreSQL
func forEachDatabase(t *testing.T, fn func(t *testing.T, tc *TestContext)) {
	t.Helper()

	for _, dbType := range []string{config.SqliteDbType, config.PostgresDbType} {
		t.Run(dbType, func(t *testing.T) {
			if dbType == config.PostgresDbType && testing.Short() {
				t.Skip("skipping PostgreSQL in short mode")
			}
			fn(t, SetupTestDB(t, dbType))
		})
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUser(t, "jane@example.com")

		require.NoError(t, tc.UserRepo.Create(ctx, user))

		byID, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, users.RoleUser, byID.Role)
		assert.False(t, byID.Verified)

		byEmail, err := tc.UserRepo.GetUser(ctx, users.ByEmail("jane@example.com"))
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)

		var stored models.UserModel
		require.NoError(t, tc.DB.First(&stored, "id = ?", user.ID).Error)
		assert.Equal(t, user.PasswordHash, stored.PasswordHash)
	})
}

func TestUserRepository_GetUser_NotFound(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
			user, err := tc.UserRepo.GetUser(context.Background(), users.ByID(id))
			assert.NoError(t, err, id)
			assert.Nil(t, user, id)
		}
	})
}

func TestUserRepository_GetUser_EmptyFilter(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	user, err := tc.UserRepo.GetUser(context.Background(), users.UserFilter{})
	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()

		require.NoError(t, tc.UserRepo.Create(ctx, CreateTestUser(t, "dup@example.com")))

		err := tc.UserRepo.Create(ctx, CreateTestUser(t, "dup@example.com"))
		assert.ErrorIs(t, err, users.ErrEmailExists)
	})
}

func TestUserRepository_Create_ValidationError(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	err := tc.UserRepo.Create(context.Background(), &users.User{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestUserRepository_ListAndCount(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			u := CreateTestUserAt(t, fmt.Sprintf("user%d@example.com", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, tc.UserRepo.Create(ctx, u))
		}

		count, err := tc.UserRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		firstPage, err := tc.UserRepo.List(ctx, users.NewUserQuery(1, 2))
		require.NoError(t, err)
		require.Len(t, firstPage, 2)
		assert.Equal(t, "user4@example.com", firstPage[0].Email)
		assert.Equal(t, "user3@example.com", firstPage[1].Email)

		lastPage, err := tc.UserRepo.List(ctx, users.NewUserQuery(3, 2))
		require.NoError(t, err)
		require.Len(t, lastPage, 1)
		assert.Equal(t, "user0@example.com", lastPage[0].Email)
	})
}

func TestUserRepository_List_InvalidQuery(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	_, err := tc.UserRepo.List(context.Background(), users.NewUserQuery(1, users.MaxLimit+1))
	assert.Error(t, err)
}

func TestUserRepository_Updates(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUserAt(t, "update@example.com", time.Now().Add(-time.Hour))
		require.NoError(t, tc.UserRepo.Create(ctx, user))

		renamed, err := tc.UserRepo.UpdateName(ctx, user.ID, "Renamed")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", renamed.Name)
		assert.True(t, renamed.UpdatedAt.After(user.UpdatedAt))

		promoted, err := tc.UserRepo.UpdateRole(ctx, user.ID, users.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, users.RoleAdmin, promoted.Role)

		rehashed, err := tc.UserRepo.UpdatePassword(ctx, user.ID, "new-hash")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", rehashed.PasswordHash)
	})
}

func TestUserRepository_Updates_MissingUser(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()

		for _, missing := range []string{uuid.NewString(), "not-a-uuid"} {
			t.Run(missing, func(t *testing.T) {
				_, err := tc.UserRepo.UpdateName(ctx, missing, "Nobody")
				assert.ErrorIs(t, err, users.ErrUserNoLongerExist)

				_, err = tc.UserRepo.UpdateRole(ctx, missing, users.RoleAdmin)
				assert.ErrorIs(t, err, users.ErrUserNoLongerExist)

				_, err = tc.UserRepo.UpdatePassword(ctx, missing, "hash")
				assert.ErrorIs(t, err, users.ErrUserNoLongerExist)

				err = tc.UserRepo.SetToken(ctx, missing, "token", time.Now().Add(time.Hour))
				assert.ErrorIs(t, err, users.ErrUserNoLongerExist)
			})
		}
	})
}

func TestUserRepository_UpdateRole_Invalid(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	user := CreateTestUser(t, "role@example.com")
	require.NoError(t, tc.UserRepo.Create(ctx, user))

	_, err := tc.UserRepo.UpdateRole(ctx, user.ID, users.Role("root"))
	assert.Error(t, err)
}

func TestUserRepository_TokenLifecycle(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUser(t, "token@example.com")
		require.NoError(t, tc.UserRepo.Create(ctx, user))

		token := uuid.NewString()
		require.NoError(t, tc.UserRepo.SetToken(ctx, user.ID, token, time.Now().Add(time.Hour)))

		holder, err := tc.UserRepo.GetUser(ctx, users.ByToken(token))
		require.NoError(t, err)
		require.NotNil(t, holder)
		assert.Equal(t, user.ID, holder.ID)
		require.NotNil(t, holder.TokenExpiresAt)
		assert.True(t, holder.TokenValid(token, time.Now()))

		require.NoError(t, tc.UserRepo.VerifyToken(ctx, token))

		verified, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
		require.NoError(t, err)
		assert.True(t, verified.Verified)
		assert.Nil(t, verified.VerificationToken)
		assert.Nil(t, verified.TokenExpiresAt)

		assert.ErrorIs(t, tc.UserRepo.VerifyToken(ctx, token), users.ErrInvalidOrExpiredToken)
	})
}

func TestUserRepository_ClearToken(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	user := CreateTestUser(t, "clear@example.com")
	require.NoError(t, tc.UserRepo.Create(ctx, user))
	require.NoError(t, tc.UserRepo.SetToken(ctx, user.ID, "reset", time.Now().Add(time.Minute)))

	require.NoError(t, tc.UserRepo.ClearToken(ctx, user.ID))

	cleared, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
	require.NoError(t, err)
	assert.Nil(t, cleared.VerificationToken)
	assert.False(t, cleared.Verified)
}

func TestUserRepository_ResetPassword(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUser(t, "reset@example.com")
		require.NoError(t, tc.UserRepo.Create(ctx, user))

		token := uuid.NewString()
		require.NoError(t, tc.UserRepo.SetToken(ctx, user.ID, token, time.Now().Add(time.Hour)))

		require.NoError(t, tc.UserRepo.ResetPassword(ctx, token, "reset-hash", time.Now()))

		stored, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
		require.NoError(t, err)
		assert.Equal(t, "reset-hash", stored.PasswordHash)
		assert.Nil(t, stored.VerificationToken)
		assert.Nil(t, stored.TokenExpiresAt)

		err = tc.UserRepo.ResetPassword(ctx, token, "second-hash", time.Now())
		assert.ErrorIs(t, err, users.ErrInvalidOrExpiredToken)

		err = tc.UserRepo.ResetPassword(ctx, "", "empty-hash", time.Now())
		assert.ErrorIs(t, err, users.ErrInvalidOrExpiredToken)
	})
}

func TestUserRepository_ResetPassword_Expired(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUser(t, "expired@example.com")
		require.NoError(t, tc.UserRepo.Create(ctx, user))

		token := uuid.NewString()
		expiresAt := time.Now().Add(time.Minute)
		require.NoError(t, tc.UserRepo.SetToken(ctx, user.ID, token, expiresAt))

		err := tc.UserRepo.ResetPassword(ctx, token, "late-hash", expiresAt.Add(time.Second))
		assert.ErrorIs(t, err, users.ErrInvalidOrExpiredToken)

		stored, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
		require.NoError(t, err)
		assert.Equal(t, user.PasswordHash, stored.PasswordHash)
		require.NotNil(t, stored.VerificationToken)
	})
}

func TestUserRepository_ResetPassword_ConcurrentUseOfOneToken(t *testing.T) {
	forEachDatabase(t, func(t *testing.T, tc *TestContext) {
		ctx := context.Background()
		user := CreateTestUser(t, "race@example.com")
		require.NoError(t, tc.UserRepo.Create(ctx, user))

		token := uuid.NewString()
		require.NoError(t, tc.UserRepo.SetToken(ctx, user.ID, token, time.Now().Add(time.Hour)))

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded []string
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				hash := fmt.Sprintf("hash-%d", i)
				err := tc.UserRepo.ResetPassword(ctx, token, hash, time.Now())
				if err == nil {
					mu.Lock()
					succeeded = append(succeeded, hash)
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, users.ErrInvalidOrExpiredToken)
			}(i)
		}
		wg.Wait()

		require.Len(t, succeeded, 1)
		stored, err := tc.UserRepo.GetUser(ctx, users.ByID(user.ID))
		require.NoError(t, err)
		assert.Equal(t, succeeded[0], stored.PasswordHash)
	})
}
