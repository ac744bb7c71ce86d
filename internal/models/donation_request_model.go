package models

import "time"

// RequestStatus tracks an NGO's claim on a donation.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// DonationRequest links an NGO to a donation it wants to collect.
// Stored in donationRequests/{auto-id}.
type DonationRequest struct {
	ID         string        `json:"id" firestore:"-"`
	NGOID      string        `json:"ngoId" firestore:"ngoId"`
	NGOName    string        `json:"ngoName" firestore:"ngoName"`
	DonationID string        `json:"donationId" firestore:"donationId"`
	DonorID    string        `json:"donorId" firestore:"donorId"`
	Status     RequestStatus `json:"status" firestore:"status"`
	Message    string        `json:"message,omitempty" firestore:"message,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time     `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// DonationRequestUpdate is a partial request edit. Nil fields are left untouched.
type DonationRequestUpdate struct {
	Status  *RequestStatus `json:"status,omitempty" binding:"omitempty,oneof=pending approved rejected completed"`
	Message *string        `json:"message,omitempty"`
}

// RequestFilter narrows a donation request listing. Empty fields match everything.
type RequestFilter struct {
	DonorID string
	NGOID   string
}
