package core

import (
	"context"
	"sync"

	"platefull-backend-go/internal/models"
)

// AuthState holds one client's signed-in session and notifies listeners
// whenever it changes. It is the server-side counterpart of a browser SDK's
// auth object, used by long-lived clients such as CLIs and workers.
type AuthState struct {
	auth AuthService

	mu        sync.Mutex
	session   *models.Session
	listeners map[*authListener]struct{}
}

type authListener struct {
	mu      sync.Mutex
	stopped bool
	fn      func(*models.AuthUser)
}

// NewAuthState starts signed out.
func NewAuthState(auth AuthService) *AuthState {
	return &AuthState{auth: auth, listeners: make(map[*authListener]struct{})}
}

func (a *AuthState) SignUp(ctx context.Context, req models.SignUpRequest) (*models.Session, error) {
	return a.track(a.auth.SignUp(ctx, req))
}

func (a *AuthState) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return a.track(a.auth.SignIn(ctx, email, password))
}

func (a *AuthState) SignInWithProvider(ctx context.Context, providerID, idToken string) (*models.Session, error) {
	return a.track(a.auth.SignInWithProvider(ctx, providerID, idToken))
}

// SignOut revokes the provider session and clears local state. Local state
// is cleared even when revocation fails; the error is still returned.
func (a *AuthState) SignOut(ctx context.Context) error {
	a.mu.Lock()
	sess := a.session
	a.mu.Unlock()
	if sess == nil {
		return nil
	}
	err := a.auth.SignOut(ctx, sess.User.UID)
	a.set(nil)
	return err
}

// CurrentUser returns the signed-in identity, or nil when signed out.
func (a *AuthState) CurrentUser() *models.AuthUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	return a.session.User
}

// Session returns the full current session, or nil when signed out.
func (a *AuthState) Session() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// OnAuthStateChanged calls fn with the current user right away and again
// after every sign-in or sign-out. fn receives nil when signed out. After the
// returned function returns, fn is never called again.
func (a *AuthState) OnAuthStateChanged(fn func(*models.AuthUser)) func() {
	l := &authListener{fn: fn}

	a.mu.Lock()
	a.listeners[l] = struct{}{}
	var current *models.AuthUser
	if a.session != nil {
		current = a.session.User
	}
	a.mu.Unlock()
	l.deliver(current)

	return func() {
		a.mu.Lock()
		delete(a.listeners, l)
		a.mu.Unlock()
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
	}
}

func (a *AuthState) track(sess *models.Session, err error) (*models.Session, error) {
	if err != nil {
		return nil, err
	}
	a.set(sess)
	return sess, nil
}

func (a *AuthState) set(sess *models.Session) {
	a.mu.Lock()
	a.session = sess
	listeners := make([]*authListener, 0, len(a.listeners))
	for l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	var user *models.AuthUser
	if sess != nil {
		user = sess.User
	}
	for _, l := range listeners {
		l.deliver(user)
	}
}

func (l *authListener) deliver(user *models.AuthUser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		l.fn(user)
	}
}
