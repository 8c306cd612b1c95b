package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// PostgresDbType selects the PostgreSQL driver
const PostgresDbType = "postgres"

// SqliteDbType selects the SQLite driver
const SqliteDbType = "sqlite"

// DatabaseSettings holds the connection settings for the relational database
type DatabaseSettings struct {
	Type            string        `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN             string        `mapstructure:"dsn" validate:"required_if=Type postgres"`
	Name            string        `mapstructure:"name" validate:"omitempty,max=63"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.MaxOpenConns > 0 && s.MaxIdleConns > s.MaxOpenConns {
		return fmt.Errorf("max idle connections (%d) cannot exceed max open connections (%d)", s.MaxIdleConns, s.MaxOpenConns)
	}

	return nil
}
