package core

import (
	"context"

	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/imaging"
	"platefull-backend-go/internal/models"
)

// AuthService signs accounts up and in against the identity provider and
// keeps the matching profile documents in step.
type AuthService interface {
	// SignUp creates the identity and its users/{uid} profile.
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignInWithProvider signs in with a third-party ID token. The first
	// federated sign-in of an account creates a donor profile.
	SignInWithProvider(ctx context.Context, providerID, idToken string) (*models.Session, error)
	// SignOut revokes every session of uid.
	SignOut(ctx context.Context, uid string) error
	// CurrentUser resolves an ID token to the signed-in identity.
	CurrentUser(ctx context.Context, idToken string) (*models.AuthUser, error)
}

// UserService manages profile documents.
type UserService interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	List(ctx context.Context, role models.UserRole) ([]*models.User, error)
	UpdateProfile(ctx context.Context, uid string, upd models.UserUpdate) (*models.User, error)
	SetPhoto(ctx context.Context, uid string, file *imaging.File) (*models.User, error)
}

// DonationService manages food donations and their images.
type DonationService interface {
	Create(ctx context.Context, donor *models.AuthUser, req models.CreateDonationRequest) (*models.FoodDonation, error)
	Get(ctx context.Context, id string) (*models.FoodDonation, error)
	List(ctx context.Context, status models.DonationStatus) ([]*models.FoodDonation, error)
	ListByDonor(ctx context.Context, donorID string) ([]*models.FoodDonation, error)
	// Update, Delete and AttachImage act only on donations owned by actorID.
	Update(ctx context.Context, actorID, id string, upd models.DonationUpdate) (*models.FoodDonation, error)
	// Delete removes the donation together with its images.
	Delete(ctx context.Context, actorID, id string) error
	AttachImage(ctx context.Context, actorID, id string, file *imaging.File) (*models.FoodDonation, error)
	Subscribe(ctx context.Context, fn func([]*models.FoodDonation)) *db.Subscription
	SubscribeByDonor(ctx context.Context, donorID string, fn func([]*models.FoodDonation)) *db.Subscription
}

// NGOService manages NGO registrations.
type NGOService interface {
	Register(ctx context.Context, owner *models.AuthUser, req models.CreateNGORequest) (*models.NGO, error)
	Get(ctx context.Context, id string) (*models.NGO, error)
	List(ctx context.Context, verified *bool) ([]*models.NGO, error)
	Update(ctx context.Context, actorID, id string, upd models.NGOUpdate) (*models.NGO, error)
	SetLogo(ctx context.Context, actorID, id string, file *imaging.File) (*models.NGO, error)
	// SetVerified is restricted to admin accounts.
	SetVerified(ctx context.Context, actorID, id string, verified bool) (*models.NGO, error)
}

// DonationRequestService manages NGO claims on donations.
type DonationRequestService interface {
	Create(ctx context.Context, ngoID string, req models.CreateDonationRequestRequest) (*models.DonationRequest, error)
	Get(ctx context.Context, id string) (*models.DonationRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]*models.DonationRequest, error)
	// Update is restricted to the request's donor and NGO.
	Update(ctx context.Context, actorID, id string, upd models.DonationRequestUpdate) (*models.DonationRequest, error)
}

// MediaService validates, recompresses and stores uploaded images.
type MediaService interface {
	Upload(ctx context.Context, file *imaging.File, path string) (string, error)
	UploadDonationImage(ctx context.Context, file *imaging.File, donationID string) (string, error)
	UploadProfileImage(ctx context.Context, file *imaging.File, userID string) (string, error)
	UploadNGOLogo(ctx context.Context, file *imaging.File, ngoID string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	// DeleteDonationImages removes every image stored for a donation.
	DeleteDonationImages(ctx context.Context, donationID string) error
}
