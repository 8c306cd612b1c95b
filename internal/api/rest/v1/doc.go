// Package v1 implements version 1 of the REST API: the authentication flows, the account endpoints and the
// middleware resolving the caller from the access token.
package v1
