package users

import "fmt"

// Error is a catalogued error of the account service. Its message is returned to API clients verbatim.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrEmptyPassword         Error = "Password is required"
	ErrHashing               Error = "Hashing error"
	ErrInvalidHashFormat     Error = "Invalid hash format"
	ErrInvalidToken          Error = "Invalid token"
	ErrServer                Error = "Server error"
	ErrWrongCredentials      Error = "Wrong credentials provided"
	ErrEmailExists           Error = "Email already exists"
	ErrUserNoLongerExist     Error = "User no longer exist"
	ErrTokenNotProvided      Error = "Token not provided"
	ErrPermissionDenied      Error = "Permission denied"
	ErrUserNotAuthenticated  Error = "User not authenticated"
	ErrInvalidOrExpiredToken Error = "Invalid or expired token"
	ErrPasswordMismatch      Error = "Passwords do not match"
	ErrEmailNotVerified      Error = "Email not verified"
	ErrInvalidName           Error = "Name must have between 1 and 100 characters"
)

// ExceededMaxPasswordLengthError is returned for passwords longer than Max bytes
type ExceededMaxPasswordLengthError struct {
	Max int
}

func (e *ExceededMaxPasswordLengthError) Error() string {
	return fmt.Sprintf("Max password length is %d", e.Max)
}
