// Package users defines the account entity, its error catalogue and the contracts of the services and
// infrastructure components that register, authenticate and administrate users.
package users
