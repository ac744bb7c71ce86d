package core

import (
	"context"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/imaging"
	"platefull-backend-go/internal/models"
)

type userService struct {
	userRepo db.UserRepository
	media    MediaService
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, media MediaService) UserService {
	return &userService{userRepo: userRepo, media: media}
}

func (s *userService) GetByID(ctx context.Context, uid string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, uid)
}

func (s *userService) List(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	return s.userRepo.List(ctx, role)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, upd models.UserUpdate) (*models.User, error) {
	if err := s.userRepo.Update(ctx, uid, upd); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, uid)
}

// SetPhoto uploads a profile image and records its URL on the profile.
func (s *userService) SetPhoto(ctx context.Context, uid string, file *imaging.File) (*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, uid); err != nil {
		return nil, err
	}
	url, err := s.media.UploadProfileImage(ctx, file, uid)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, uid, models.UserUpdate{PhotoURL: &url})
}
