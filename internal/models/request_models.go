package models

import "time"

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=6"`
	DisplayName string   `json:"displayName" binding:"required"`
	Role        UserRole `json:"userType" binding:"required,oneof=donor ngo admin"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateDonationRequest is the body of POST /donations. The donor fields are
// taken from the authenticated caller, not the body.
type CreateDonationRequest struct {
	Title         string         `json:"title" binding:"required"`
	Description   string         `json:"description"`
	Quantity      float64        `json:"quantity" binding:"required,gt=0"`
	Unit          string         `json:"unit" binding:"required"`
	ExpiryDate    time.Time      `json:"expiryDate" binding:"required"`
	PickupAddress string         `json:"pickupAddress" binding:"required"`
	ContactPhone  string         `json:"contactPhone" binding:"required"`
	Category      string         `json:"category" binding:"required"`
	Status        DonationStatus `json:"status,omitempty" binding:"omitempty,oneof=available reserved picked_up expired"`
}

// CreateNGORequest is the body of POST /ngos. The NGO is keyed by the caller's UID.
type CreateNGORequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Website     string `json:"website,omitempty"`
}

// CreateDonationRequestRequest is the body of POST /requests.
type CreateDonationRequestRequest struct {
	DonationID string `json:"donationId" binding:"required"`
	Message    string `json:"message,omitempty"`
}
