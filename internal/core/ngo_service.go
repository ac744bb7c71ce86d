package core

import (
	"context"
	"errors"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/imaging"
	"platefull-backend-go/internal/models"
)

type ngoService struct {
	ngoRepo  db.NGORepository
	userRepo db.UserRepository
	media    MediaService
}

// NewNGOService creates an NGOService.
func NewNGOService(ngoRepo db.NGORepository, userRepo db.UserRepository, media MediaService) NGOService {
	return &ngoService{ngoRepo: ngoRepo, userRepo: userRepo, media: media}
}

// Register creates or replaces the owner's NGO. New registrations start unverified.
func (s *ngoService) Register(ctx context.Context, owner *models.AuthUser, req models.CreateNGORequest) (*models.NGO, error) {
	return s.ngoRepo.Create(ctx, &models.NGO{
		UID:         owner.UID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
	})
}

func (s *ngoService) Get(ctx context.Context, id string) (*models.NGO, error) {
	return s.ngoRepo.GetByID(ctx, id)
}

func (s *ngoService) List(ctx context.Context, verified *bool) ([]*models.NGO, error) {
	return s.ngoRepo.List(ctx, verified)
}

func (s *ngoService) Update(ctx context.Context, actorID, id string, upd models.NGOUpdate) (*models.NGO, error) {
	if actorID != id {
		return nil, ErrForbidden
	}
	if err := s.ngoRepo.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.ngoRepo.GetByID(ctx, id)
}

func (s *ngoService) SetLogo(ctx context.Context, actorID, id string, file *imaging.File) (*models.NGO, error) {
	if actorID != id {
		return nil, ErrForbidden
	}
	if _, err := s.ngoRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.media.UploadNGOLogo(ctx, file, id)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, actorID, id, models.NGOUpdate{LogoURL: &url})
}

// SetVerified sets the verified flag of an NGO. Only accounts whose profile
// carries the admin role may do this.
func (s *ngoService) SetVerified(ctx context.Context, actorID, id string, verified bool) (*models.NGO, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := s.ngoRepo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.ngoRepo.GetByID(ctx, id)
}
