package db

import (
	"context"
	"log"

	"platefull-backend-go/internal/models"
)

const donationRequestsCollection = "donationRequests"

type donationRequestRepository struct {
	store DocumentStore
}

// NewDonationRequestRepository creates a DonationRequestRepository over store.
func NewDonationRequestRepository(store DocumentStore) DonationRequestRepository {
	if store == nil {
		log.Fatal("DocumentStore is not initialized for DonationRequestRepository.")
	}
	return &donationRequestRepository{store: store}
}

func setRequestID(r *models.DonationRequest, id string) { r.ID = id }

func (r *donationRequestRepository) Create(ctx context.Context, req *models.DonationRequest) (*models.DonationRequest, error) {
	rec := *req
	rec.ID = ""
	rec.CreatedAt, rec.UpdatedAt = zeroTime, zeroTime
	id, ts, err := r.store.Add(ctx, donationRequestsCollection, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	rec.CreatedAt, rec.UpdatedAt = ts, ts
	return &rec, nil
}

func (r *donationRequestRepository) GetByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	doc, err := r.store.Get(ctx, donationRequestsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(doc, setRequestID)
}

// List applies the donor and NGO predicates together when both are set.
func (r *donationRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.DonationRequest, error) {
	var filters []Filter
	if filter.DonorID != "" {
		filters = append(filters, Filter{Field: "donorId", Value: filter.DonorID})
	}
	if filter.NGOID != "" {
		filters = append(filters, Filter{Field: "ngoId", Value: filter.NGOID})
	}
	docs, err := r.store.Query(ctx, donationRequestsCollection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, setRequestID)
}

func (r *donationRequestRepository) Update(ctx context.Context, id string, upd models.DonationRequestUpdate) error {
	fields := map[string]any{}
	setField(fields, "status", upd.Status)
	setField(fields, "message", upd.Message)
	_, err := r.store.Update(ctx, donationRequestsCollection, id, fields)
	return err
}
