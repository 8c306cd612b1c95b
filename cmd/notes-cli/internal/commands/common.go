package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/MGTheTrain/notes-app/internal/app"
	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/persistence"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// ConfigFlag is the persistent flag selecting the configuration file
const ConfigFlag = "config"

// DefaultConfigPath returns CONFIG_PATH or the path used by the REST API
func DefaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "configs/rest-app.yaml"
}

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if settings == nil {
		settings = &config.LoggerSettings{
			LogLevel: config.LogLevelInfo,
			LogType:  config.LogTypeConsole,
		}
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

func loadConfig(cmd *cobra.Command) (*config.RestConfig, error) {
	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid %s flag: %w", ConfigFlag, err)
	}

	cfg, err := config.InitializeRestConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return cfg, nil
}

// environment is the state shared by the commands touching the database
type environment struct {
	cfg         *config.RestConfig
	logger      logger.Logger
	db          *gorm.DB
	userRepo    users.UserRepository
	userService users.UserService
}

// openEnvironment loads the configuration, connects to the database and migrates the schema
func openEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	loggerInstance, err := setupLogger(&cfg.Logger)
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	userRepo, err := persistence.NewGormUserRepository(db, loggerInstance)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	if err := userRepo.AutoMigrate(commandContext(cmd)); err != nil {
		_ = persistence.CloseDB(db)
		return nil, err
	}

	hasher, err := cryptography.NewArgon2Hasher(cryptography.DefaultArgon2Params(), loggerInstance)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	userService, err := app.NewUserService(userRepo, hasher, loggerInstance)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	return &environment{
		cfg:         cfg,
		logger:      loggerInstance,
		db:          db,
		userRepo:    userRepo,
		userService: userService,
	}, nil
}

func (e *environment) Close() {
	if err := persistence.CloseDB(e.db); err != nil {
		e.logger.Error("failed to close database ", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
