package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables read by the application
const EnvPrefix = "NOTES"

// RestConfig wraps the entire configuration of the REST API and the operator CLI
type RestConfig struct {
	Port     string           `mapstructure:"port"`
	Database DatabaseSettings `mapstructure:"database"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	Auth     AuthSettings     `mapstructure:"auth"`
	Mail     MailSettings     `mapstructure:"mail"`
	Cors     CorsSettings     `mapstructure:"cors"`
	Metrics  MetricsSettings  `mapstructure:"metrics"`
}

// Validate checks every configuration section
func (c *RestConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	if err := c.Cors.Validate(); err != nil {
		return err
	}

	return nil
}

// envBindings maps config keys to the environment variables that may provide them.
// The first name is the preferred one; the others are accepted for compatibility with
// the deployment scripts of the previous backend.
var envBindings = map[string][]string{
	"port":                        {"NOTES_PORT", "PORT"},
	"database.type":               {"NOTES_DATABASE_TYPE"},
	"database.dsn":                {"NOTES_DATABASE_DSN", "DATABASE_URL"},
	"database.name":               {"NOTES_DATABASE_NAME"},
	"auth.jwt_secret":             {"NOTES_AUTH_JWT_SECRET", "JWT_SECRET_KEY"},
	"auth.jwt_max_age":            {"NOTES_AUTH_JWT_MAX_AGE", "JWT_MAXAGE"},
	"auth.require_verified_email": {"NOTES_AUTH_REQUIRE_VERIFIED_EMAIL"},
	"auth.cookie_secure":          {"NOTES_AUTH_COOKIE_SECURE"},
	"mail.type":                   {"NOTES_MAIL_TYPE"},
	"mail.host":                   {"NOTES_MAIL_HOST", "SMTP_SERVER"},
	"mail.port":                   {"NOTES_MAIL_PORT", "SMTP_PORT"},
	"mail.username":               {"NOTES_MAIL_USERNAME", "SMTP_USERNAME"},
	"mail.password":               {"NOTES_MAIL_PASSWORD", "SMTP_PASSWORD"},
	"mail.from":                   {"NOTES_MAIL_FROM", "SMTP_FROM_ADDRESS"},
	"mail.frontend_url":           {"NOTES_MAIL_FRONTEND_URL", "FRONTEND_URL"},
	"cors.allowed_origins":        {"NOTES_CORS_ALLOWED_ORIGINS"},
	"logger.log_level":            {"NOTES_LOGGER_LOG_LEVEL"},
	"logger.log_type":             {"NOTES_LOGGER_LOG_TYPE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("database.type", PostgresDbType)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("auth.jwt_max_age", 60)
	v.SetDefault("auth.verification_token_ttl", 24*time.Hour)
	v.SetDefault("auth.reset_token_ttl", 30*time.Minute)
	v.SetDefault("mail.type", MailTypeLog)
	v.SetDefault("mail.from", "no-reply@localhost.localdomain")
	v.SetDefault("mail.frontend_url", "http://localhost:3000")
	v.SetDefault("mail.retry_attempts", 3)
	v.SetDefault("mail.retry_delay", 500*time.Millisecond)
	v.SetDefault("mail.send_timeout", 30*time.Second)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "notes")
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// InitializeRestConfig loads the configuration from the YAML file at path, falling back to
// defaults and environment variables when the file does not exist. Environment variables
// always take precedence over file values.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	cfg := &RestConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
