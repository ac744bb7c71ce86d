package db

import (
	"context"
	"log"

	"platefull-backend-go/internal/models"
)

const donationsCollection = "foodDonations"

type donationRepository struct {
	store DocumentStore
}

// NewDonationRepository creates a DonationRepository over store.
func NewDonationRepository(store DocumentStore) DonationRepository {
	if store == nil {
		log.Fatal("DocumentStore is not initialized for DonationRepository.")
	}
	return &donationRepository{store: store}
}

func setDonationID(d *models.FoodDonation, id string) { d.ID = id }

// Create stores the donation under a generated ID. Any ID or timestamps on
// the argument are ignored; the returned copy carries the stored values.
func (r *donationRepository) Create(ctx context.Context, donation *models.FoodDonation) (*models.FoodDonation, error) {
	rec := *donation
	rec.ID = ""
	rec.CreatedAt, rec.UpdatedAt = zeroTime, zeroTime
	id, ts, err := r.store.Add(ctx, donationsCollection, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	rec.CreatedAt, rec.UpdatedAt = ts, ts
	return &rec, nil
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*models.FoodDonation, error) {
	doc, err := r.store.Get(ctx, donationsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeOne(doc, setDonationID)
}

func (r *donationRepository) List(ctx context.Context, status models.DonationStatus) ([]*models.FoodDonation, error) {
	return r.query(ctx, statusFilters(status))
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID string) ([]*models.FoodDonation, error) {
	return r.query(ctx, []Filter{{Field: "donorId", Value: donorID}})
}

func (r *donationRepository) Update(ctx context.Context, id string, upd models.DonationUpdate) error {
	fields := map[string]any{}
	setField(fields, "title", upd.Title)
	setField(fields, "description", upd.Description)
	setField(fields, "quantity", upd.Quantity)
	setField(fields, "unit", upd.Unit)
	setField(fields, "expiryDate", upd.ExpiryDate)
	setField(fields, "pickupAddress", upd.PickupAddress)
	setField(fields, "contactPhone", upd.ContactPhone)
	setField(fields, "status", upd.Status)
	setField(fields, "category", upd.Category)
	setField(fields, "imageUrl", upd.ImageURL)
	_, err := r.store.Update(ctx, donationsCollection, id, fields)
	return err
}

func (r *donationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, donationsCollection, id)
}

func (r *donationRepository) Subscribe(ctx context.Context, fn func([]*models.FoodDonation)) *Subscription {
	return r.watch(ctx, nil, fn)
}

func (r *donationRepository) SubscribeByDonor(ctx context.Context, donorID string, fn func([]*models.FoodDonation)) *Subscription {
	return r.watch(ctx, []Filter{{Field: "donorId", Value: donorID}}, fn)
}

func (r *donationRepository) query(ctx context.Context, filters []Filter) ([]*models.FoodDonation, error) {
	docs, err := r.store.Query(ctx, donationsCollection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, setDonationID)
}

// watch runs a live query whose snapshots are decoded before delivery.
// A snapshot that fails to decode ends the subscription with that error.
func (r *donationRepository) watch(ctx context.Context, filters []Filter, fn func([]*models.FoodDonation)) *Subscription {
	return startSubscription(ctx, func(ctx context.Context, emit func(func())) error {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()

		var decodeErr error
		err := r.store.Watch(watchCtx, donationsCollection, filters, func(docs []*Document) {
			donations, err := decodeAll(docs, setDonationID)
			if err != nil {
				decodeErr = err
				stop()
				return
			}
			emit(func() { fn(donations) })
		})
		if decodeErr != nil {
			return decodeErr
		}
		return err
	})
}

func statusFilters(status models.DonationStatus) []Filter {
	if status == "" {
		return nil
	}
	return []Filter{{Field: "status", Value: status}}
}
