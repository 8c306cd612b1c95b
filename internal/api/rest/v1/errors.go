package v1

import (
	"errors"
	"net/http"

	"github.com/MGTheTrain/notes-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

var errorStatus = map[users.Error]int{
	users.ErrEmptyPassword:         http.StatusBadRequest,
	users.ErrHashing:               http.StatusInternalServerError,
	users.ErrInvalidHashFormat:     http.StatusInternalServerError,
	users.ErrInvalidToken:          http.StatusUnauthorized,
	users.ErrServer:                http.StatusInternalServerError,
	users.ErrWrongCredentials:      http.StatusBadRequest,
	users.ErrEmailExists:           http.StatusConflict,
	users.ErrUserNoLongerExist:     http.StatusUnauthorized,
	users.ErrTokenNotProvided:      http.StatusUnauthorized,
	users.ErrPermissionDenied:      http.StatusForbidden,
	users.ErrUserNotAuthenticated:  http.StatusUnauthorized,
	users.ErrInvalidOrExpiredToken: http.StatusBadRequest,
	users.ErrPasswordMismatch:      http.StatusBadRequest,
	users.ErrEmailNotVerified:      http.StatusForbidden,
	users.ErrInvalidName:           http.StatusBadRequest,
}

// statusFor maps err to the HTTP status and the message exposed to the client
func statusFor(err error) (int, string) {
	var catalogued users.Error
	if errors.As(err, &catalogued) {
		if status, ok := errorStatus[catalogued]; ok {
			return status, catalogued.Error()
		}
	}

	var lengthErr *users.ExceededMaxPasswordLengthError
	if errors.As(err, &lengthErr) {
		return http.StatusBadRequest, lengthErr.Error()
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	return http.StatusInternalServerError, users.ErrServer.Error()
}

// abortWithError writes the error body and stops the handler chain. Server errors are attached to the
// context so the request logger reports them.
func abortWithError(ctx *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = ctx.Error(err)
	}
	ctx.AbortWithStatusJSON(status, ErrorResponse{Status: StatusFail, Message: message})
}

// abortWithBadRequest reports a malformed request body
func abortWithBadRequest(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Status: StatusFail, Message: message})
}
