package db

import (
	"context"

	"platefull-backend-go/internal/models"
)

// UserRepository stores profile documents keyed by Firebase Auth UID.
type UserRepository interface {
	// Create writes the profile under user.UID, overwriting any existing one.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, uid string) (*models.User, error)
	Update(ctx context.Context, uid string, upd models.UserUpdate) error
	// List returns profiles newest first, narrowed to role when it is non-empty.
	List(ctx context.Context, role models.UserRole) ([]*models.User, error)
}

// DonationRepository stores food donations under generated IDs.
type DonationRepository interface {
	Create(ctx context.Context, donation *models.FoodDonation) (*models.FoodDonation, error)
	GetByID(ctx context.Context, id string) (*models.FoodDonation, error)
	// List returns donations newest first, narrowed to status when it is non-empty.
	List(ctx context.Context, status models.DonationStatus) ([]*models.FoodDonation, error)
	ListByDonor(ctx context.Context, donorID string) ([]*models.FoodDonation, error)
	Update(ctx context.Context, id string, upd models.DonationUpdate) error
	Delete(ctx context.Context, id string) error
	// Subscribe pushes every donation, newest first, on each change.
	Subscribe(ctx context.Context, fn func([]*models.FoodDonation)) *Subscription
	// SubscribeByDonor pushes one donor's donations, newest first, on each change.
	SubscribeByDonor(ctx context.Context, donorID string, fn func([]*models.FoodDonation)) *Subscription
}

// NGORepository stores NGO profiles keyed by the owner's UID.
type NGORepository interface {
	Create(ctx context.Context, ngo *models.NGO) (*models.NGO, error)
	GetByID(ctx context.Context, id string) (*models.NGO, error)
	// List returns NGOs newest first; a non-nil verified narrows by verification.
	List(ctx context.Context, verified *bool) ([]*models.NGO, error)
	Update(ctx context.Context, id string, upd models.NGOUpdate) error
	// SetVerified writes the verified flag. Callers decide who may verify.
	SetVerified(ctx context.Context, id string, verified bool) error
}

// DonationRequestRepository stores NGO claims on donations under generated IDs.
type DonationRequestRepository interface {
	Create(ctx context.Context, req *models.DonationRequest) (*models.DonationRequest, error)
	GetByID(ctx context.Context, id string) (*models.DonationRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]*models.DonationRequest, error)
	Update(ctx context.Context, id string, upd models.DonationRequestUpdate) error
}
