package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the Cloud Firestore implementation of DocumentStore.
// createdAt and updatedAt are written as server timestamps, so records must
// tag them with `firestore:",serverTimestamp"` and leave them zero.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FirestoreStore.")
	}
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data any) (time.Time, error) {
	wr, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	if err != nil {
		return time.Time{}, err
	}
	return wr.UpdateTime, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data any) (string, time.Time, error) {
	ref, wr, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", time.Time{}, err
	}
	return ref.ID, wr.UpdateTime, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, err
	}
	return snapshotDocument(snap), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) (time.Time, error) {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		if path == FieldCreatedAt || path == FieldUpdatedAt {
			continue
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: FieldUpdatedAt, Value: firestore.ServerTimestamp})

	wr, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return time.Time{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return time.Time{}, err
	}
	return wr.UpdateTime, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	iter := s.query(collection, filters).Documents(ctx)
	defer iter.Stop()

	var docs []*Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Watch(ctx context.Context, collection string, filters []Filter, fn func([]*Document)) error {
	snaps := s.query(collection, filters).Snapshots(ctx)
	defer snaps.Stop()

	for {
		qs, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return err
		}
		all, err := qs.Documents.GetAll()
		if err != nil {
			return err
		}
		docs := make([]*Document, 0, len(all))
		for _, snap := range all {
			docs = append(docs, snapshotDocument(snap))
		}
		fn(docs)
	}
}

func (s *FirestoreStore) query(collection string, filters []Filter) firestore.Query {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	return q.OrderBy(FieldCreatedAt, firestore.Desc)
}

func snapshotDocument(snap *firestore.DocumentSnapshot) *Document {
	return &Document{ID: snap.Ref.ID, dataTo: snap.DataTo}
}
