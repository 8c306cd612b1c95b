//go:build integration
// +build integration

package persistence

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "postgres"
	postgresPassword = "postgres"
	postgresDB       = "postgres"

	// TestPostgresDSNEnv points the tests at an existing server instead of a container
	TestPostgresDSNEnv = "NOTES_TEST_POSTGRES_DSN"
)

var (
	postgresOnce      sync.Once
	postgresContainer *postgres.PostgresContainer
	postgresDSN       string
	postgresErr       error
)

// TestContext holds test database and repositories
type TestContext struct {
	DB       *gorm.DB
	UserRepo users.UserRepository
}

// startPostgres starts one PostgreSQL container shared by every test of the package
func startPostgres() (string, error) {
	postgresOnce.Do(func() {
		if dsn := os.Getenv(TestPostgresDSNEnv); dsn != "" {
			postgresDSN = dsn
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := postgres.Run(ctx,
			postgresImage,
			postgres.WithDatabase(postgresDB),
			postgres.WithUsername(postgresUser),
			postgres.WithPassword(postgresPassword),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			postgresErr = fmt.Errorf("failed to start postgres container: %w", err)
			return
		}
		postgresContainer = container

		postgresDSN, postgresErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	return postgresDSN, postgresErr
}

// TerminatePostgres stops the shared container if one was started
func TerminatePostgres(ctx context.Context) error {
	if postgresContainer == nil {
		return nil
	}
	return postgresContainer.Terminate(ctx)
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		adminDSN, err := startPostgres()
		require.NoError(t, err, "Failed to provide PostgreSQL")

		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:         config.PostgresDbType,
			DSN:          adminDSN,
			Name:         uniqueDBName,
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		}
		cleanupFunc = func() {
			if err := DropDatabase(adminDSN, uniqueDBName); err != nil {
				t.Logf("failed to drop database %s: %v", uniqueDBName, err)
			}
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		if err := CloseDB(db); err != nil {
			t.Logf("failed to close database: %v", err)
		}
		cleanupFunc()
	})

	log := testutil.SetupTestLogger(t)

	userRepo, err := NewGormUserRepository(db, log)
	require.NoError(t, err, "Failed to create user repository")

	require.NoError(t, userRepo.AutoMigrate(context.Background()), "Failed to migrate schema")

	return &TestContext{
		DB:       db,
		UserRepo: userRepo,
	}
}

// CreateTestUser creates a valid, unverified user with the given e-mail
func CreateTestUser(t *testing.T, email string) *users.User {
	t.Helper()

	now := time.Now().UTC()
	return &users.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo",
		Role:         users.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestUserAt creates a test user with a fixed creation time
func CreateTestUserAt(t *testing.T, email string, createdAt time.Time) *users.User {
	t.Helper()

	u := CreateTestUser(t, email)
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = createdAt.UTC()
	return u
}
