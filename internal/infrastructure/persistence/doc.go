// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer to interact with PostgreSQL or SQLite and stores
// the user accounts of the service, including pending verification and reset tokens.
package persistence
