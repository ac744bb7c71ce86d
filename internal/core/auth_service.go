package core

import (
	"context"
	"errors"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/models"
)

type authService struct {
	provider identity.Provider
	userRepo db.UserRepository
}

// NewAuthService creates an AuthService over an identity provider.
func NewAuthService(provider identity.Provider, userRepo db.UserRepository) AuthService {
	return &authService{provider: provider, userRepo: userRepo}
}

// SignUp creates the identity first and the profile second. A failed
// profile write leaves the identity in place.
func (s *authService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.Session, error) {
	acct, err := s.provider.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.Create(ctx, &models.User{
		UID:         acct.UID,
		Email:       acct.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		return nil, err
	}
	return newSession(acct, profile), nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	acct, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.GetByID(ctx, acct.UID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	return newSession(acct, profile), nil
}

func (s *authService) SignInWithProvider(ctx context.Context, providerID, idToken string) (*models.Session, error) {
	acct, err := s.provider.SignInWithIDP(ctx, providerID, idToken)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.GetByID(ctx, acct.UID)
	if errors.Is(err, db.ErrNotFound) {
		profile, err = s.userRepo.Create(ctx, &models.User{
			UID:         acct.UID,
			Email:       acct.Email,
			DisplayName: acct.DisplayName,
			Role:        models.RoleDonor,
			PhotoURL:    acct.PhotoURL,
		})
	}
	if err != nil {
		return nil, err
	}
	return newSession(acct, profile), nil
}

func (s *authService) SignOut(ctx context.Context, uid string) error {
	return s.provider.Revoke(ctx, uid)
}

func (s *authService) CurrentUser(ctx context.Context, idToken string) (*models.AuthUser, error) {
	acct, err := s.provider.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return authUser(acct), nil
}

func newSession(acct *identity.Account, profile *models.User) *models.Session {
	return &models.Session{
		User:         authUser(acct),
		Profile:      profile,
		IDToken:      acct.IDToken,
		RefreshToken: acct.RefreshToken,
		ExpiresIn:    acct.ExpiresIn,
	}
}

func authUser(acct *identity.Account) *models.AuthUser {
	return &models.AuthUser{
		UID:         acct.UID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		PhotoURL:    acct.PhotoURL,
	}
}
