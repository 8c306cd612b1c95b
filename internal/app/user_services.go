package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"

	"github.com/google/uuid"
)

// userService implements the UserService interface for account management
type userService struct {
	userRepo users.UserRepository
	hasher   users.PasswordHasher
	logger   logger.Logger
}

// NewUserService creates a new userService instance
func NewUserService(userRepo users.UserRepository, hasher users.PasswordHasher, logger logger.Logger) (users.UserService, error) {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// GetByID returns the user with the given id
func (s *userService) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, err := s.userRepo.GetUser(ctx, users.ByID(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, users.ErrUserNoLongerExist
	}
	return user, nil
}

// List returns one page of users together with the total number of users
func (s *userService) List(ctx context.Context, query *users.UserQuery) ([]*users.User, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	list, err := s.userRepo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// UpdateName renames a user
func (s *userService) UpdateName(ctx context.Context, id, name string) (*users.User, error) {
	name, err := users.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.userRepo.UpdateName(ctx, id, name)
}

// UpdateRole changes the role of a user
func (s *userService) UpdateRole(ctx context.Context, id string, role users.Role) (*users.User, error) {
	if _, err := users.ParseRole(role.String()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Changed role of user ", id, " to ", role)
	return user, nil
}

// UpdatePassword replaces the password after checking the current one
func (s *userService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Compare(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return users.ErrWrongCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.logger.Info("Changed password of user ", id)
	return nil
}

// CreateAdmin creates a verified account holding the admin role
func (s *userService) CreateAdmin(ctx context.Context, name, email, password string) (*users.User, error) {
	name, err := users.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &users.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalizeEmail(email),
		Verified:     true,
		PasswordHash: hash,
		Role:         users.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Created admin with id ", user.ID)
	return user, nil
}
