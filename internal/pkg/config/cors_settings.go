package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CorsSettings lists the origins allowed to call the API with credentials
type CorsSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,url"`
}

// Validate checks that all fields in CorsSettings are valid
func (s *CorsSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for CorsSettings: %w", err)
	}

	return nil
}

// MetricsSettings toggles the Prometheus endpoint
type MetricsSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}
