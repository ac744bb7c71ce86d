package db

import (
	"context"
	"errors"
	"log"

	"platefull-backend-go/internal/models"
)

const ngosCollection = "ngos"

type ngoRepository struct {
	store DocumentStore
}

// NewNGORepository creates an NGORepository over store.
func NewNGORepository(store DocumentStore) NGORepository {
	if store == nil {
		log.Fatal("DocumentStore is not initialized for NGORepository.")
	}
	return &ngoRepository{store: store}
}

func setNGOID(n *models.NGO, id string) { n.ID = id }

// Create writes the NGO keyed by its owner's UID, overwriting any previous
// registration for that account.
func (r *ngoRepository) Create(ctx context.Context, ngo *models.NGO) (*models.NGO, error) {
	if ngo == nil || ngo.UID == "" {
		return nil, errors.New("NGO UID cannot be empty for Create operation")
	}
	rec := *ngo
	rec.ID = ""
	rec.CreatedAt, rec.UpdatedAt = zeroTime, zeroTime
	ts, err := r.store.Set(ctx, ngosCollection, rec.UID, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = rec.UID
	rec.CreatedAt, rec.UpdatedAt = ts, ts
	return &rec, nil
}

func (r *ngoRepository) GetByID(ctx context.Context, id string) (*models.NGO, error) {
	doc, err := r.store.Get(ctx, ngosCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(doc, setNGOID)
}

func (r *ngoRepository) List(ctx context.Context, verified *bool) ([]*models.NGO, error) {
	var filters []Filter
	if verified != nil {
		filters = append(filters, Filter{Field: "verified", Value: *verified})
	}
	docs, err := r.store.Query(ctx, ngosCollection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, setNGOID)
}

func (r *ngoRepository) Update(ctx context.Context, id string, upd models.NGOUpdate) error {
	fields := map[string]any{}
	setField(fields, "name", upd.Name)
	setField(fields, "description", upd.Description)
	setField(fields, "address", upd.Address)
	setField(fields, "phone", upd.Phone)
	setField(fields, "email", upd.Email)
	setField(fields, "website", upd.Website)
	setField(fields, "logoUrl", upd.LogoURL)
	_, err := r.store.Update(ctx, ngosCollection, id, fields)
	return err
}

func (r *ngoRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.store.Update(ctx, ngosCollection, id, map[string]any{"verified": verified})
	return err
}
