package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"platefull-backend-go/internal/models"
)

func newDonation(donor string, status models.DonationStatus) *models.FoodDonation {
	return &models.FoodDonation{
		DonorID:       donor,
		DonorName:     "Donor " + donor,
		Title:         "Bread",
		Quantity:      12,
		Unit:          "loaves",
		ExpiryDate:    time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		PickupAddress: "1 Main St",
		ContactPhone:  "555-0100",
		Status:        status,
		Category:      "bakery",
	}
}

func TestDonationCreateOverridesCallerIdentityAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())

	in := newDonation("d1", models.DonationAvailable)
	in.ID = "caller-chosen"
	in.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	in.UpdatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.ID == "caller-chosen" {
		t.Fatalf("expected generated ID, got %q", created.ID)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) || created.CreatedAt.Year() == 2000 {
		t.Fatalf("expected matching server stamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ID != created.ID || !stored.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("stored record differs: %+v vs %+v", stored, created)
	}
	if stored.Quantity != 12 || !stored.ExpiryDate.Equal(in.ExpiryDate) {
		t.Fatalf("payload not round-tripped: %+v", stored)
	}
}

func TestDonationUpdateRefreshesUpdatedAtOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())
	created, _ := repo.Create(ctx, newDonation("d1", models.DonationAvailable))

	status := models.DonationReserved
	if err := repo.Update(ctx, created.ID, models.DonationUpdate{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.GetByID(ctx, created.ID)
	if got.Status != models.DonationReserved {
		t.Fatalf("status not applied: %q", got.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", created.CreatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updatedAt not advanced: %v -> %v", created.UpdatedAt, got.UpdatedAt)
	}
	if got.Title != "Bread" {
		t.Fatalf("untouched field changed: %q", got.Title)
	}

	// Any status may overwrite any other.
	back := models.DonationAvailable
	if err := repo.Update(ctx, created.ID, models.DonationUpdate{Status: &back}); err != nil {
		t.Fatalf("reverse transition rejected: %v", err)
	}
}

func TestDonationMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	title := "x"
	if err := repo.Update(ctx, "missing", models.DonationUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestDonationListFiltersByStatusAndDonor(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())

	a, _ := repo.Create(ctx, newDonation("d1", models.DonationAvailable))
	r, _ := repo.Create(ctx, newDonation("d2", models.DonationReserved))
	b, _ := repo.Create(ctx, newDonation("d1", models.DonationAvailable))

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != b.ID || all[1].ID != r.ID || all[2].ID != a.ID {
		t.Fatalf("expected newest first, got %v", donationIDs(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("list not ordered by createdAt desc")
		}
	}

	available, _ := repo.List(ctx, models.DonationAvailable)
	if len(available) != 2 || available[0].ID != b.ID || available[1].ID != a.ID {
		t.Fatalf("unexpected status filter result %v", donationIDs(available))
	}

	mine, _ := repo.ListByDonor(ctx, "d2")
	if len(mine) != 1 || mine[0].ID != r.ID {
		t.Fatalf("unexpected donor filter result %v", donationIDs(mine))
	}
}

func TestDonationDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())
	d, _ := repo.Create(ctx, newDonation("d1", models.DonationAvailable))

	if err := repo.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted donation to be gone, got %v", err)
	}
}

func TestSubscribeByDonorPushesSnapshotsUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(NewMemoryStore())

	var mu sync.Mutex
	var calls int
	sizes := make(chan int, 16)
	sub := repo.SubscribeByDonor(ctx, "d1", func(ds []*models.FoodDonation) {
		mu.Lock()
		calls++
		mu.Unlock()
		for _, d := range ds {
			if d.DonorID != "d1" {
				t.Errorf("snapshot leaked donation of %q", d.DonorID)
			}
		}
		sizes <- len(ds)
	})

	waitFor(t, sizes, 0)
	repo.Create(ctx, newDonation("d1", models.DonationAvailable))
	repo.Create(ctx, newDonation("d2", models.DonationAvailable))
	repo.Create(ctx, newDonation("d1", models.DonationAvailable))
	waitFor(t, sizes, 2)

	sub.Unsubscribe()
	mu.Lock()
	before := calls
	mu.Unlock()

	repo.Create(ctx, newDonation("d1", models.DonationAvailable))
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription goroutine did not exit")
	}
	mu.Lock()
	after := calls
	mu.Unlock()
	if after != before {
		t.Fatalf("callback invoked %d times after unsubscribe", after-before)
	}
	if err := sub.Err(); err != nil {
		t.Fatalf("unexpected subscription error: %v", err)
	}
}

func TestSubscriptionEndsWithParentContext(t *testing.T) {
	repo := NewDonationRepository(NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	sub := repo.Subscribe(ctx, func([]*models.FoodDonation) {})
	cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription outlived its context")
	}
}

func donationIDs(ds []*models.FoodDonation) []string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	return ids
}
