package db

import (
	"context"
	"errors"
	"log"

	"platefull-backend-go/internal/models"
)

const usersCollection = "users"

type userRepository struct {
	store DocumentStore
}

// NewUserRepository creates a UserRepository over store.
func NewUserRepository(store DocumentStore) UserRepository {
	if store == nil {
		log.Fatal("DocumentStore is not initialized for UserRepository.")
	}
	return &userRepository{store: store}
}

func setUserID(u *models.User, id string) { u.UID = id }

// Create writes the profile keyed by UID. Caller-supplied timestamps are
// discarded in favour of the commit time.
func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.UID == "" {
		return nil, errors.New("user UID cannot be empty for Create operation")
	}
	rec := *user
	rec.CreatedAt, rec.UpdatedAt = zeroTime, zeroTime
	ts, err := r.store.Set(ctx, usersCollection, rec.UID, &rec)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, rec.UpdatedAt = ts, ts
	return &rec, nil
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*models.User, error) {
	doc, err := r.store.Get(ctx, usersCollection, uid)
	if err != nil {
		return nil, err
	}
	return decodeOne(doc, setUserID)
}

func (r *userRepository) Update(ctx context.Context, uid string, upd models.UserUpdate) error {
	fields := map[string]any{}
	setField(fields, "displayName", upd.DisplayName)
	setField(fields, "userType", upd.Role)
	setField(fields, "phone", upd.Phone)
	setField(fields, "address", upd.Address)
	setField(fields, "photoURL", upd.PhotoURL)
	_, err := r.store.Update(ctx, usersCollection, uid, fields)
	return err
}

func (r *userRepository) List(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var filters []Filter
	if role != "" {
		filters = append(filters, Filter{Field: "userType", Value: role})
	}
	docs, err := r.store.Query(ctx, usersCollection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, setUserID)
}
