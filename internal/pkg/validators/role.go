package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RoleValidation validates that a string field holds one of the account roles known to the service.
func RoleValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "user":
		return true
	default:
		return false
	}
}

// PasswordLengthValidation validates that a password does not exceed the maximum number of bytes the hasher accepts.
func PasswordLengthValidation(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordLength
}

// NotBlankValidation validates that a string field holds more than white space.
func NotBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// MaxPasswordLength is the upper bound of a plain text password in bytes
const MaxPasswordLength = 128

// Register attaches all custom validations of this package to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("role", RoleValidation); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", NotBlankValidation); err != nil {
		return err
	}
	return v.RegisterValidation("maxpassword", PasswordLengthValidation)
}
