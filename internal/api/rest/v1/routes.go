package v1

import (
	"net/http"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
	"github.com/MGTheTrain/notes-app/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes installs the middleware chain and sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	authService users.AuthService,
	userService users.UserService,
	authSettings *config.AuthSettings,
	corsSettings *config.CorsSettings,
	metricsManager *metrics.Manager,
	log logger.Logger) {

	r.Use(
		RequestIDMiddleware(),
		LoggerMiddleware(log),
		MetricsMiddleware(metricsManager),
		cors.New(corsConfig(corsSettings)),
	)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})
	if metricsManager.Enabled() {
		r.GET("/metrics", gin.WrapH(metricsManager.Handler()))
	}

	v1 := r.Group(BasePath) // lookup in version file
	requireUser := AuthMiddleware(authService)

	// Auth Routes
	authHandler := NewAuthHandler(authService, authSettings, metricsManager)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", requireUser, authHandler.Logout)
	auth.GET("/verify", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Users Routes
	userHandler := NewUserHandler(userService)
	usersGroup := v1.Group("/users", requireUser)
	usersGroup.GET("/me", userHandler.GetMe)
	usersGroup.PUT("/me/name", userHandler.UpdateName)
	usersGroup.PUT("/me/password", userHandler.UpdatePassword)
	usersGroup.GET("", RequireRole(users.RoleAdmin), userHandler.List)
	usersGroup.PUT("/:id/role", RequireRole(users.RoleAdmin), userHandler.UpdateRole)
}

func corsConfig(settings *config.CorsSettings) cors.Config {
	return cors.Config{
		AllowOrigins:     settings.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
