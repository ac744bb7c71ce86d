package identity

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/gorilla/securecookie"
)

func TestMemoryProviderSignUpSignInVerify(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()

	acct, err := p.SignUp(ctx, "Ann@Example.com", "secret1", "Ann")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if acct.UID == "" || acct.IDToken == "" {
		t.Fatalf("expected uid and token, got %+v", acct)
	}
	if _, err := p.SignUp(ctx, "ann@example.com", "other", "Dup"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if _, err := p.SignIn(ctx, "ann@example.com", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
	signedIn, err := p.SignIn(ctx, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if signedIn.UID != acct.UID {
		t.Fatalf("sign in returned a different account")
	}

	verified, err := p.Verify(ctx, signedIn.IDToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.UID != acct.UID || verified.DisplayName != "Ann" {
		t.Fatalf("unexpected verified account %+v", verified)
	}

	if err := p.Revoke(ctx, acct.UID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := p.Verify(ctx, signedIn.IDToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
}

func TestMemoryProviderRejectsFederatedSignIn(t *testing.T) {
	_, err := NewMemoryProvider().SignInWithIDP(context.Background(), GoogleProviderID, "tok")
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestGoogleFederationStateRoundTrip(t *testing.T) {
	g := NewGoogleFederation("client", "secret", "http://localhost/cb",
		securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))

	authURL, sealed, err := g.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" || u.Query().Get("client_id") != "client" {
		t.Fatalf("unexpected auth url %s", authURL)
	}

	if _, err := g.Complete(context.Background(), sealed, "forged", "code"); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("expected ErrStateMismatch for wrong state, got %v", err)
	}
	if _, err := g.Complete(context.Background(), "garbage", state, "code"); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("expected ErrStateMismatch for tampered cookie, got %v", err)
	}
}
