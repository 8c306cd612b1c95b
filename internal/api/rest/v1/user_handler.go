package v1

import (
	"net/http"
	"strconv"

	"github.com/MGTheTrain/notes-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// MsgPasswordUpdated acknowledges a password change
const MsgPasswordUpdated = "Password updated successfully"

// UserHandler struct holds the services of the account endpoints
type UserHandler struct {
	userService users.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService users.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe returns the authenticated user
func (handler *UserHandler) GetMe(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		abortWithError(ctx, users.ErrUserNotAuthenticated)
		return
	}
	ctx.JSON(http.StatusOK, newUserResponse(user))
}

// List handles the GET request listing one page of users
func (handler *UserHandler) List(ctx *gin.Context) {
	page, err := intQuery(ctx, "page", users.DefaultPage)
	if err != nil {
		abortWithBadRequest(ctx, "Invalid page parameter")
		return
	}
	limit, err := intQuery(ctx, "limit", users.DefaultLimit)
	if err != nil {
		abortWithBadRequest(ctx, "Invalid limit parameter")
		return
	}

	query := users.NewUserQuery(page, limit)
	if err := query.Validate(); err != nil {
		abortWithBadRequest(ctx, err.Error())
		return
	}

	list, total, err := handler.userService.List(ctx.Request.Context(), query)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, UserListResponse{
		Status:  StatusSuccess,
		Users:   users.NewFilteredUsers(list),
		Results: total,
	})
}

// UpdateName handles the PUT request renaming the authenticated user
func (handler *UserHandler) UpdateName(ctx *gin.Context) {
	current, ok := CurrentUser(ctx)
	if !ok {
		abortWithError(ctx, users.ErrUserNotAuthenticated)
		return
	}

	var request NameUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	user, err := handler.userService.UpdateName(ctx.Request.Context(), current.ID, request.Name)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newUserResponse(user))
}

// UpdatePassword handles the PUT request changing the password of the authenticated user
func (handler *UserHandler) UpdatePassword(ctx *gin.Context) {
	current, ok := CurrentUser(ctx)
	if !ok {
		abortWithError(ctx, users.ErrUserNotAuthenticated)
		return
	}

	var request PasswordUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	if err := handler.userService.UpdatePassword(ctx.Request.Context(), current.ID, request.OldPassword, request.Password); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MsgPasswordUpdated})
}

// UpdateRole handles the PUT request changing the role of the user given by the id path parameter
func (handler *UserHandler) UpdateRole(ctx *gin.Context) {
	var request RoleUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	user, err := handler.userService.UpdateRole(ctx.Request.Context(), ctx.Param("id"), users.Role(request.Role))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newUserResponse(user))
}

func intQuery(ctx *gin.Context, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
