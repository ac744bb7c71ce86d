package models

import "time"

// DonationStatus is the lifecycle marker of a food donation.
// Any status may be written over any other.
type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationReserved  DonationStatus = "reserved"
	DonationPickedUp  DonationStatus = "picked_up"
	DonationExpired   DonationStatus = "expired"
)

// FoodDonation is an offer of surplus food, stored in foodDonations/{auto-id}.
type FoodDonation struct {
	ID            string         `json:"id" firestore:"-"`
	DonorID       string         `json:"donorId" firestore:"donorId"`
	DonorName     string         `json:"donorName" firestore:"donorName"`
	Title         string         `json:"title" firestore:"title"`
	Description   string         `json:"description" firestore:"description"`
	Quantity      float64        `json:"quantity" firestore:"quantity"`
	Unit          string         `json:"unit" firestore:"unit"`
	ExpiryDate    time.Time      `json:"expiryDate" firestore:"expiryDate"`
	PickupAddress string         `json:"pickupAddress" firestore:"pickupAddress"`
	ContactPhone  string         `json:"contactPhone" firestore:"contactPhone"`
	Status        DonationStatus `json:"status" firestore:"status"`
	Category      string         `json:"category" firestore:"category"`
	ImageURL      string         `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time      `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// DonationUpdate is a partial donation edit. Nil fields are left untouched.
type DonationUpdate struct {
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Quantity      *float64        `json:"quantity,omitempty" binding:"omitempty,gt=0"`
	Unit          *string         `json:"unit,omitempty"`
	ExpiryDate    *time.Time      `json:"expiryDate,omitempty"`
	PickupAddress *string         `json:"pickupAddress,omitempty"`
	ContactPhone  *string         `json:"contactPhone,omitempty"`
	Status        *DonationStatus `json:"status,omitempty" binding:"omitempty,oneof=available reserved picked_up expired"`
	Category      *string         `json:"category,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
}
