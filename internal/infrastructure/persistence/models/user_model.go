package models

import (
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
)

// UserModel is the GORM database model for user accounts (infrastructure concern)
type UserModel struct {
	ID                string     `gorm:"primaryKey;type:uuid"`
	Name              string     `gorm:"not null;type:varchar(100)"`
	Email             string     `gorm:"not null;uniqueIndex;type:varchar(255)"`
	Verified          bool       `gorm:"not null;default:false"`
	PasswordHash      string     `gorm:"column:password;not null;type:varchar(255)"`
	VerificationToken *string    `gorm:"index;type:varchar(255)"`
	TokenExpiresAt    *time.Time `gorm:"default:null"`
	Role              string     `gorm:"not null;default:user;type:varchar(16)"`
	CreatedAt         time.Time  `gorm:"not null;index"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts GORM model to domain entity
func (m *UserModel) ToDomain() *users.User {
	return &users.User{
		ID:                m.ID,
		Name:              m.Name,
		Email:             m.Email,
		Verified:          m.Verified,
		PasswordHash:      m.PasswordHash,
		VerificationToken: m.VerificationToken,
		TokenExpiresAt:    m.TokenExpiresAt,
		Role:              users.Role(m.Role),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *UserModel) FromDomain(u *users.User) {
	m.ID = u.ID
	m.Name = u.Name
	m.Email = u.Email
	m.Verified = u.Verified
	m.PasswordHash = u.PasswordHash
	m.VerificationToken = u.VerificationToken
	m.TokenExpiresAt = u.TokenExpiresAt
	m.Role = u.Role.String()
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
}
