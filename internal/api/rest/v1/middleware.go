package v1

import (
	"errors"
	"strings"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
	"github.com/MGTheTrain/notes-app/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

const (
	// TokenCookieName is the cookie carrying the access token
	TokenCookieName = "token"
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"

	userContextKey      = "user"
	requestIDContextKey = "request_id"
)

// AuthMiddleware resolves the caller from the token cookie or the bearer header and stores it in the context.
// A cookie the service rejects does not hide a valid bearer token sent with the same request.
func AuthMiddleware(authService users.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := authenticate(ctx, authService, tokensFromRequest(ctx))
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

// authenticate tries the candidate tokens in order. The error of the first candidate is reported when all
// of them are rejected; failures other than a rejected token stop the search.
func authenticate(ctx *gin.Context, authService users.AuthService, tokens []string) (*users.User, error) {
	if len(tokens) == 0 {
		return authService.Authenticate(ctx.Request.Context(), "")
	}

	var firstErr error
	for _, token := range tokens {
		user, err := authService.Authenticate(ctx.Request.Context(), token)
		if err == nil {
			return user, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if !isRejectedToken(err) {
			return nil, err
		}
	}
	return nil, firstErr
}

func isRejectedToken(err error) bool {
	return errors.Is(err, users.ErrInvalidToken) || errors.Is(err, users.ErrUserNoLongerExist)
}

// RequireRole lets only users holding role pass. It must run after AuthMiddleware.
func RequireRole(role users.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			abortWithError(ctx, users.ErrUserNotAuthenticated)
			return
		}
		if user.Role != role {
			abortWithError(ctx, users.ErrPermissionDenied)
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(ctx *gin.Context) (*users.User, bool) {
	value, exists := ctx.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*users.User)
	return user, ok && user != nil
}

// tokensFromRequest returns the cookie token followed by the bearer token, skipping empty and repeated ones
func tokensFromRequest(ctx *gin.Context) []string {
	var tokens []string
	if token, err := ctx.Cookie(TokenCookieName); err == nil && token != "" {
		tokens = append(tokens, token)
	}

	header := ctx.GetHeader("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		token = strings.TrimSpace(token)
		if token != "" && (len(tokens) == 0 || tokens[0] != token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// RequestIDMiddleware echoes the X-Request-ID header or generates a new id
func RequestIDMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = "req_" + ksuid.New().String()
		}
		ctx.Set(requestIDContextKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// MetricsMiddleware records the count and latency of every request under its route template
func MetricsMiddleware(m *metrics.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(route, ctx.Request.Method, ctx.Writer.Status(), time.Since(start))
	}
}

// LoggerMiddleware logs one line per request and the errors handlers attached to the context
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		line := []interface{}{
			ctx.Request.Method, " ", ctx.Request.URL.Path, " ", status, " ", time.Since(start),
			" request_id=", ctx.GetString(requestIDContextKey),
		}

		switch {
		case len(ctx.Errors) > 0:
			log.Error(append(line, " errors=", ctx.Errors.String())...)
		case status >= 500:
			log.Error(line...)
		case status >= 400:
			log.Warn(line...)
		default:
			log.Debug(line...)
		}
	}
}
