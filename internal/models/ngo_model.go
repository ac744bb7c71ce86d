package models

import "time"

// NGO is an organization profile stored at ngos/{uid}, keyed by the
// owning account's UID.
type NGO struct {
	ID          string    `json:"id" firestore:"-"`
	UID         string    `json:"uid" firestore:"uid"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Address     string    `json:"address" firestore:"address"`
	Phone       string    `json:"phone" firestore:"phone"`
	Email       string    `json:"email" firestore:"email"`
	Website     string    `json:"website,omitempty" firestore:"website,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty" firestore:"logoUrl,omitempty"`
	Verified    bool      `json:"verified" firestore:"verified"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// NGOUpdate is a partial NGO edit by its owner. Nil fields are left
// untouched. Verification is not owner-editable; see NGORepository.SetVerified.
type NGOUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
}

// NGOVerificationRequest sets or clears an NGO's verified flag.
type NGOVerificationRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}
