package v1

import (
	"errors"
	"fmt"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// RegisterUserRequest represents the body of a registration
type RegisterUserRequest struct {
	Name            string `json:"name" validate:"required,notblank,min=1,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,maxpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Validate for validating RegisterUserRequest struct
func (r *RegisterUserRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return matchPasswords(r.Password, r.ConfirmPassword)
}

// LoginUserRequest represents the credentials of a login
type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxpassword"`
}

// Validate for validating LoginUserRequest struct
func (r *LoginUserRequest) Validate() error {
	return validateStruct(r)
}

// ForgotPasswordRequest represents the body of a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate for validating ForgotPasswordRequest struct
func (r *ForgotPasswordRequest) Validate() error {
	return validateStruct(r)
}

// ResetPasswordRequest represents the body consuming a reset token
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,maxpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Validate for validating ResetPasswordRequest struct
func (r *ResetPasswordRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return matchPasswords(r.Password, r.ConfirmPassword)
}

// NameUpdateRequest represents the body of a rename
type NameUpdateRequest struct {
	Name string `json:"name" validate:"required,notblank,min=1,max=100"`
}

// Validate for validating NameUpdateRequest struct
func (r *NameUpdateRequest) Validate() error {
	return validateStruct(r)
}

// PasswordUpdateRequest represents the body of a password change
type PasswordUpdateRequest struct {
	OldPassword     string `json:"old_password" validate:"required,maxpassword"`
	Password        string `json:"password" validate:"required,min=8,maxpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Validate for validating PasswordUpdateRequest struct
func (r *PasswordUpdateRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return matchPasswords(r.Password, r.ConfirmPassword)
}

// RoleUpdateRequest represents the body of a role change
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// Validate for validating RoleUpdateRequest struct
func (r *RoleUpdateRequest) Validate() error {
	return validateStruct(r)
}

// ErrorResponse represents an error message returned to clients
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse acknowledges an operation
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LoginResponse carries the access token of a successful login
type LoginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// UserData wraps a single user
type UserData struct {
	User users.FilteredUser `json:"user"`
}

// UserResponse is returned by endpoints acting on a single user
type UserResponse struct {
	Status string   `json:"status"`
	Data   UserData `json:"data"`
}

// UserListResponse is one page of users and the total number of users
type UserListResponse struct {
	Status  string               `json:"status"`
	Users   []users.FilteredUser `json:"users"`
	Results int64                `json:"results"`
}

// HealthResponse reports the liveness of the service
type HealthResponse struct {
	Status string `json:"status"`
}

func newUserResponse(u *users.User) UserResponse {
	return UserResponse{
		Status: StatusSuccess,
		Data:   UserData{User: users.NewFilteredUser(u)},
	}
}

// ValidationError is returned by the Validate methods of the request DTOs
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Messages)
}

func validateStruct(s interface{}) error {
	validate := validator.New()

	if err := validators.Register(validate); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return &ValidationError{Messages: messages}
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

func matchPasswords(password, confirm string) error {
	if password != confirm {
		return users.ErrPasswordMismatch
	}
	return nil
}
