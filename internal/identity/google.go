package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProviderID is the provider ID Firebase uses for Google accounts.
const GoogleProviderID = "google.com"

// StateCookieName carries the sealed OAuth state between the redirect to
// Google and the callback.
const StateCookieName = "platefull_oauth_state"

var (
	ErrStateMismatch  = errors.New("oauth state mismatch")
	ErrMissingIDToken = errors.New("google token response has no id_token")
)

// GoogleFederation runs the browser side of Google sign-in: it produces the
// consent URL and turns the callback's authorization code into a Google ID
// token that the Provider can exchange for a session.
type GoogleFederation struct {
	oauth  *oauth2.Config
	cookie *securecookie.SecureCookie
}

// NewGoogleFederation configures the OAuth client. hashKey authenticates the
// state cookie and blockKey, if non-nil, encrypts it.
func NewGoogleFederation(clientID, clientSecret, redirectURL string, hashKey, blockKey []byte) *GoogleFederation {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(600)
	return &GoogleFederation{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		cookie: sc,
	}
}

// Begin returns the Google consent URL and the sealed state to store in
// StateCookieName.
func (g *GoogleFederation) Begin() (authURL, sealedState string, err error) {
	state := uuid.NewString()
	sealedState, err = g.cookie.Encode(StateCookieName, state)
	if err != nil {
		return "", "", fmt.Errorf("seal oauth state: %w", err)
	}
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), sealedState, nil
}

// Complete checks state against the sealed cookie value and exchanges code
// for a Google ID token.
func (g *GoogleFederation) Complete(ctx context.Context, sealedState, state, code string) (string, error) {
	var want string
	if err := g.cookie.Decode(StateCookieName, sealedState, &want); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStateMismatch, err)
	}
	if state == "" || state != want {
		return "", ErrStateMismatch
	}
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrMissingIDToken
	}
	return idToken, nil
}
