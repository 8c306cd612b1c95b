package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormUserRepository creates a new GORM-based UserRepository implementation
func NewGormUserRepository(db *gorm.DB, logger logger.Logger) (users.UserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUserRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.UserModel{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func (r *gormUserRepository) GetUser(ctx context.Context, filter users.UserFilter) (*users.User, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("user filter must set at least one field")
	}

	// ids are uuid columns on postgres; a malformed id can never match
	if filter.ID != nil && !isUUID(*filter.ID) {
		return nil, nil
	}

	dbQuery := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.ID != nil {
		dbQuery = dbQuery.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		dbQuery = dbQuery.Where("name = ?", *filter.Name)
	}
	if filter.Email != nil {
		dbQuery = dbQuery.Where("email = ?", *filter.Email)
	}
	if filter.Token != nil {
		dbQuery = dbQuery.Where("verification_token = ?", *filter.Token)
	}

	var model models.UserModel
	if err := dbQuery.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormUserRepository) List(ctx context.Context, query *users.UserQuery) ([]*users.User, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.UserModel
	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	domainList := make([]*users.User, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *users.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("Created user with id ", user.ID)
	return nil
}

func (r *gormUserRepository) UpdateName(ctx context.Context, id, name string) (*users.User, error) {
	return r.updateByID(ctx, id, map[string]interface{}{"name": name})
}

func (r *gormUserRepository) UpdateRole(ctx context.Context, id string, role users.Role) (*users.User, error) {
	if _, err := users.ParseRole(role.String()); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return r.updateByID(ctx, id, map[string]interface{}{"role": role.String()})
}

func (r *gormUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*users.User, error) {
	return r.updateByID(ctx, id, map[string]interface{}{"password": passwordHash})
}

func (r *gormUserRepository) VerifyToken(ctx context.Context, token string) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("verification_token = ?", token).
		Updates(map[string]interface{}{
			"verified":           true,
			"verification_token": nil,
			"token_expires_at":   nil,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to verify token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return users.ErrInvalidOrExpiredToken
	}

	r.logger.Info("Verified e-mail of ", res.RowsAffected, " user(s)")
	return nil
}

func (r *gormUserRepository) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	if token == "" {
		return users.ErrInvalidOrExpiredToken
	}

	now = now.UTC()
	res := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("verification_token = ?", token).
		Where("token_expires_at IS NULL OR token_expires_at > ?", now).
		Updates(map[string]interface{}{
			"password":           passwordHash,
			"verification_token": nil,
			"token_expires_at":   nil,
			"updated_at":         now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return users.ErrInvalidOrExpiredToken
	}

	r.logger.Info("Reset password with a pending token")
	return nil
}

func (r *gormUserRepository) SetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.updateByID(ctx, id, map[string]interface{}{
		"verification_token": token,
		"token_expires_at":   expiresAt.UTC(),
	})
	return err
}

func (r *gormUserRepository) ClearToken(ctx context.Context, id string) error {
	_, err := r.updateByID(ctx, id, map[string]interface{}{
		"verification_token": nil,
		"token_expires_at":   nil,
	})
	return err
}

func (r *gormUserRepository) updateByID(ctx context.Context, id string, values map[string]interface{}) (*users.User, error) {
	if !isUUID(id) {
		return nil, users.ErrUserNoLongerExist
	}
	values["updated_at"] = time.Now().UTC()

	var model models.UserModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserModel{}).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return users.ErrUserNoLongerExist
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, users.ErrUserNoLongerExist) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNoLongerExist
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}

	r.logger.Info("Updated user with id ", id)
	return model.ToDomain(), nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isUniqueViolation detects duplicate keys. TranslateError covers both drivers; the message check
// catches errors surfacing through a connection opened without it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
