// Package cryptography implements the password hashing and the access token handling of the service.
package cryptography
