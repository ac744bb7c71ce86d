package core

import (
	"context"
	"errors"
	"fmt"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/imaging"
	"platefull-backend-go/internal/models"
)

type donationService struct {
	donationRepo db.DonationRepository
	userRepo     db.UserRepository
	media        MediaService
}

// NewDonationService creates a DonationService.
func NewDonationService(donationRepo db.DonationRepository, userRepo db.UserRepository, media MediaService) DonationService {
	return &donationService{donationRepo: donationRepo, userRepo: userRepo, media: media}
}

// Create records a donation on behalf of donor. The donor name comes from
// the profile when there is one, otherwise from the identity.
func (s *donationService) Create(ctx context.Context, donor *models.AuthUser, req models.CreateDonationRequest) (*models.FoodDonation, error) {
	donorName := donor.DisplayName
	profile, err := s.userRepo.GetByID(ctx, donor.UID)
	switch {
	case err == nil:
		donorName = profile.DisplayName
	case !errors.Is(err, db.ErrNotFound):
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.DonationAvailable
	}
	return s.donationRepo.Create(ctx, &models.FoodDonation{
		DonorID:       donor.UID,
		DonorName:     donorName,
		Title:         req.Title,
		Description:   req.Description,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		ExpiryDate:    req.ExpiryDate,
		PickupAddress: req.PickupAddress,
		ContactPhone:  req.ContactPhone,
		Status:        status,
		Category:      req.Category,
	})
}

func (s *donationService) Get(ctx context.Context, id string) (*models.FoodDonation, error) {
	return s.donationRepo.GetByID(ctx, id)
}

func (s *donationService) List(ctx context.Context, status models.DonationStatus) ([]*models.FoodDonation, error) {
	return s.donationRepo.List(ctx, status)
}

func (s *donationService) ListByDonor(ctx context.Context, donorID string) ([]*models.FoodDonation, error) {
	return s.donationRepo.ListByDonor(ctx, donorID)
}

// Update applies a partial edit to a donation owned by actorID.
func (s *donationService) Update(ctx context.Context, actorID, id string, upd models.DonationUpdate) (*models.FoodDonation, error) {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if err := s.donationRepo.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.donationRepo.GetByID(ctx, id)
}

// Delete removes the document first and the images second. If image
// cleanup fails the donation is already gone and the error says so.
func (s *donationService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.donationRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.media.DeleteDonationImages(ctx, id); err != nil {
		return fmt.Errorf("donation %s deleted but its images were not: %w", id, err)
	}
	return nil
}

// AttachImage uploads an image for a donation owned by actorID and stores its URL.
func (s *donationService) AttachImage(ctx context.Context, actorID, id string, file *imaging.File) (*models.FoodDonation, error) {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	url, err := s.media.UploadDonationImage(ctx, file, id)
	if err != nil {
		return nil, err
	}
	if err := s.donationRepo.Update(ctx, id, models.DonationUpdate{ImageURL: &url}); err != nil {
		return nil, err
	}
	return s.donationRepo.GetByID(ctx, id)
}

// owned loads a donation and checks that actorID donated it.
func (s *donationService) owned(ctx context.Context, actorID, id string) (*models.FoodDonation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != actorID {
		return nil, ErrForbidden
	}
	return donation, nil
}

func (s *donationService) Subscribe(ctx context.Context, fn func([]*models.FoodDonation)) *db.Subscription {
	return s.donationRepo.Subscribe(ctx, fn)
}

func (s *donationService) SubscribeByDonor(ctx context.Context, donorID string, fn func([]*models.FoodDonation)) *db.Subscription {
	return s.donationRepo.SubscribeByDonor(ctx, donorID, fn)
}
