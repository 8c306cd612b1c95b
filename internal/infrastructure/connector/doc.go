// Package connector provides the adapters to external systems. It delivers the account e-mails of the
// service either over SMTP or, for development, to the application log.
package connector
