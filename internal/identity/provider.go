// Package identity talks to the authentication provider: password and
// federated sign-in, token verification and session revocation.
package identity

import (
	"context"
	"errors"
)

// Account is an identity returned by the provider. Token fields are empty
// when the account comes from token verification rather than a sign-in.
type Account struct {
	UID          string
	Email        string
	DisplayName  string
	PhotoURL     string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64 // seconds
	// NewUser is set by federated sign-in when the provider created the account.
	NewUser bool
}

// Provider is the authentication backend. Provider errors are returned
// unmodified so their messages reach the caller as the provider wrote them.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	// SignInWithIDP exchanges a third-party ID token (providerID such as
	// "google.com") for a session.
	SignInWithIDP(ctx context.Context, providerID, idToken string) (*Account, error)
	Verify(ctx context.Context, idToken string) (*Account, error)
	// Revoke invalidates every session of uid.
	Revoke(ctx context.Context, uid string) error
}

// ErrUnsupportedProvider is returned for federated providers the backend
// cannot handle.
var ErrUnsupportedProvider = errors.New("OPERATION_NOT_ALLOWED")
