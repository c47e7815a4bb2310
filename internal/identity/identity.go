// Package identity wraps the external service of record for credentials.
// Accounts are created there and bearer id tokens are verified there; this
// backend never stores passwords itself outside the local mode.
package identity

import (
	"context"
	"errors"
)

// ErrEmailTaken indicates the provider already has an account for the email.
var ErrEmailTaken = errors.New("email already registered with identity provider")

// ErrTokenExpired indicates an id token past its expiry.
var ErrTokenExpired = errors.New("id token expired")

// ErrTokenInvalid indicates an id token that failed verification.
var ErrTokenInvalid = errors.New("id token invalid")

// ErrInvalidCredentials indicates a failed email/password check (local mode).
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider is the identity service contract the auth handlers compose.
type Provider interface {
	// CreateUser registers an email/password credential and returns the
	// provider-assigned user identifier.
	CreateUser(ctx context.Context, email, password string) (string, error)

	// VerifyIDToken validates a bearer id token and returns the user
	// identifier it is bound to.
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}
