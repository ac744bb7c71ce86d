package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Error messages mirror the codes the hosted provider reports.
var (
	ErrEmailExists     = errors.New("EMAIL_EXISTS")
	ErrEmailNotFound   = errors.New("EMAIL_NOT_FOUND")
	ErrInvalidPassword = errors.New("INVALID_PASSWORD")
	ErrInvalidToken    = errors.New("INVALID_ID_TOKEN")
)

const tokenLifetimeSeconds = 3600

// MemoryProvider is a self-contained password provider for local runs and
// tests. Federated sign-in is not available.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount // by lower-cased email
	tokens   map[string]string         // ID token -> uid
}

type memoryAccount struct {
	uid          string
	email        string
	displayName  string
	passwordHash []byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*memoryAccount),
		tokens:   make(map[string]string),
	}
}

func (p *MemoryProvider) SignUp(ctx context.Context, email, password, displayName string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(email)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[key]; ok {
		return nil, ErrEmailExists
	}
	acct := &memoryAccount{uid: uuid.NewString(), email: email, displayName: displayName, passwordHash: hash}
	p.accounts[key] = acct
	return p.issue(acct), nil
}

func (p *MemoryProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		return nil, ErrEmailNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return p.issue(acct), nil
}

func (p *MemoryProvider) SignInWithIDP(ctx context.Context, providerID, idToken string) (*Account, error) {
	return nil, ErrUnsupportedProvider
}

func (p *MemoryProvider) Verify(ctx context.Context, idToken string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	uid, ok := p.tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	for _, acct := range p.accounts {
		if acct.uid == uid {
			return &Account{UID: acct.uid, Email: acct.email, DisplayName: acct.displayName}, nil
		}
	}
	return nil, ErrInvalidToken
}

func (p *MemoryProvider) Revoke(ctx context.Context, uid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for token, owner := range p.tokens {
		if owner == uid {
			delete(p.tokens, token)
		}
	}
	return nil
}

// issue must be called with p.mu held.
func (p *MemoryProvider) issue(acct *memoryAccount) *Account {
	token := uuid.NewString()
	p.tokens[token] = acct.uid
	return &Account{
		UID:          acct.uid,
		Email:        acct.email,
		DisplayName:  acct.displayName,
		IDToken:      token,
		RefreshToken: uuid.NewString(),
		ExpiresIn:    tokenLifetimeSeconds,
	}
}
