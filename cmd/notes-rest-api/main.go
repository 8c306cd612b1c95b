// cmd/notes-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/MGTheTrain/notes-app/internal/api/rest/v1"
	"github.com/MGTheTrain/notes-app/internal/app"
	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/connector"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/persistence"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
	"github.com/MGTheTrain/notes-app/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDrainTimeout)
		defer cancel()
		if err := deps.mailer.Close(ctx); err != nil {
			log.Error("Failed to deliver pending mails: ", err)
		}
		if err := persistence.CloseDB(deps.db); err != nil {
			log.Error("Failed to close database: ", err)
		}
	}()

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// mailDrainTimeout bounds the wait for background mails on shutdown
const mailDrainTimeout = 30 * time.Second

// newDBConnection is replaced in tests to observe the connection opened during startup
var newDBConnection = persistence.NewDBConnection

// appDependencies holds all initialized application components
type appDependencies struct {
	db      *gorm.DB
	mailer  *connector.AsyncMailer
	metrics *metrics.Manager
	auth    users.AuthService
	users   users.UserService
}

// initializeDependencies sets up all application components. The database connection is closed again
// when a later component fails.
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (_ *appDependencies, err error) {
	// Initialize database
	db, err := newDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := persistence.CloseDB(db); closeErr != nil {
			log.Error("Failed to close database: ", closeErr)
		}
	}()

	userRepo, err := persistence.NewGormUserRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	// Run migrations
	if err := userRepo.AutoMigrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	metricsManager, err := initializeMetrics(cfg, db)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptography.NewArgon2Hasher(cryptography.DefaultArgon2Params(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	tokens, err := cryptography.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenMaxAge())
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	deliverer, err := connector.NewMailer(&cfg.Mail, &cfg.Auth, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	mailer := connector.NewAsyncMailer(deliverer, cfg.Mail.SendTimeout, log)

	// Initialize services
	authService, err := app.NewAuthService(userRepo, hasher, tokens, mailer, &cfg.Auth, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	userService, err := app.NewUserService(userRepo, hasher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appDependencies{
		db:      db,
		mailer:  mailer,
		metrics: metricsManager,
		auth:    authService,
		users:   userService,
	}, nil
}

// initializeMetrics creates the metrics manager and exposes the connection pool statistics
func initializeMetrics(cfg *config.RestConfig, db *gorm.DB) (*metrics.Manager, error) {
	opts := []metrics.Option{metrics.WithMetricsEnabled(cfg.Metrics.Enabled)}
	if cfg.Metrics.Namespace != "" {
		opts = append(opts, metrics.WithNamespace(cfg.Metrics.Namespace))
	}
	manager := metrics.NewManager(opts...)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	if err := manager.RegisterDBStats(sqlDB, cfg.Database.Type); err != nil {
		return nil, err
	}
	return manager, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Setup API routes
	v1.SetupRoutes(r,
		deps.auth,
		deps.users,
		&cfg.Auth,
		&cfg.Cors,
		deps.metrics,
		log,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
