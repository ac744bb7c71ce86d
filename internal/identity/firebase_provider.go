package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"firebase.google.com/go/v4/auth"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// tokenAuthority is the part of the Firebase Admin auth client the provider
// uses. *auth.Client satisfies it.
type tokenAuthority interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseProvider signs users in through the Identity Toolkit REST API,
// keyed by the project's web API key, and verifies ID tokens with the
// Firebase Admin SDK.
type FirebaseProvider struct {
	relyingParty *identitytoolkit.RelyingpartyService
	auth         tokenAuthority
	// requestURI is the continue URI reported to the IdP endpoint.
	requestURI string
}

// NewFirebaseProvider builds a provider for the project owning apiKey.
func NewFirebaseProvider(ctx context.Context, apiKey string, authClient *auth.Client, requestURI string) (*FirebaseProvider, error) {
	if authClient == nil {
		return nil, errors.New("identity: firebase auth client is nil")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit.NewService: %w", err)
	}
	if requestURI == "" {
		requestURI = "http://localhost"
	}
	return &FirebaseProvider{relyingParty: svc.Relyingparty, auth: authClient, requestURI: requestURI}, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password, displayName string) (*Account, error) {
	resp, err := p.relyingParty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Account{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	resp, err := p.relyingParty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Account{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (p *FirebaseProvider) SignInWithIDP(ctx context.Context, providerID, idToken string) (*Account, error) {
	body := url.Values{}
	body.Set("id_token", idToken)
	body.Set("providerId", providerID)

	resp, err := p.relyingParty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          body.Encode(),
		RequestUri:        p.requestURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Account{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		NewUser:      resp.IsNewUser,
	}, nil
}

// Verify checks the token signature and expiry and rejects tokens issued
// before the account's sessions were last revoked.
func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*Account, error) {
	token, err := p.auth.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		if auth.IsIDTokenRevoked(err) || auth.IsIDTokenInvalid(err) || auth.IsUserDisabled(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}
	acct := &Account{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		acct.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		acct.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		acct.PhotoURL = picture
	}
	return acct, nil
}

func (p *FirebaseProvider) Revoke(ctx context.Context, uid string) error {
	return p.auth.RevokeRefreshTokens(ctx, uid)
}
