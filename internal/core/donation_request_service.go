package core

import (
	"context"
	"errors"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/models"
)

type donationRequestService struct {
	requestRepo  db.DonationRequestRepository
	donationRepo db.DonationRepository
	ngoRepo      db.NGORepository
}

// NewDonationRequestService creates a DonationRequestService.
func NewDonationRequestService(requestRepo db.DonationRequestRepository, donationRepo db.DonationRepository, ngoRepo db.NGORepository) DonationRequestService {
	return &donationRequestService{requestRepo: requestRepo, donationRepo: donationRepo, ngoRepo: ngoRepo}
}

// Create files a pending request from the caller's NGO for a donation. The
// NGO name and donor are copied from the stored records.
func (s *donationRequestService) Create(ctx context.Context, ngoID string, req models.CreateDonationRequestRequest) (*models.DonationRequest, error) {
	ngo, err := s.ngoRepo.GetByID(ctx, ngoID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNGOProfileRequired
		}
		return nil, err
	}
	donation, err := s.donationRepo.GetByID(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.Create(ctx, &models.DonationRequest{
		NGOID:      ngo.ID,
		NGOName:    ngo.Name,
		DonationID: donation.ID,
		DonorID:    donation.DonorID,
		Status:     models.RequestPending,
		Message:    req.Message,
	})
}

func (s *donationRequestService) Get(ctx context.Context, id string) (*models.DonationRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *donationRequestService) List(ctx context.Context, filter models.RequestFilter) ([]*models.DonationRequest, error) {
	return s.requestRepo.List(ctx, filter)
}

// Update applies a partial edit. Only the donor of the requested donation
// and the requesting NGO may change a request.
func (s *donationRequestService) Update(ctx context.Context, actorID, id string, upd models.DonationRequestUpdate) (*models.DonationRequest, error) {
	current, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != current.DonorID && actorID != current.NGOID {
		return nil, ErrForbidden
	}
	if err := s.requestRepo.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, id)
}
