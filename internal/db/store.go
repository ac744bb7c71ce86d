package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned (wrapped) when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Timestamp fields every stored record carries. Stores own these: they are
// stamped with the commit time on create, and updatedAt is refreshed on
// every update.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Filter is an equality predicate on a top-level document field.
type Filter struct {
	Field string
	Value any
}

// Document is a single stored record.
type Document struct {
	ID     string
	dataTo func(v any) error
}

// DataTo decodes the document's fields into v, which must be a pointer to a
// struct tagged for both json and firestore with identical field names.
func (d *Document) DataTo(v any) error {
	return d.dataTo(v)
}

// DocumentStore is the backend-neutral document database the repositories
// are built on. Implementations pass backend errors through unchanged,
// except that missing documents are reported as ErrNotFound.
type DocumentStore interface {
	// Set writes data under an explicit ID, replacing any existing document,
	// and returns the commit time stamped into createdAt and updatedAt.
	Set(ctx context.Context, collection, id string, data any) (time.Time, error)
	// Add writes data under a store-generated ID.
	Add(ctx context.Context, collection string, data any) (string, time.Time, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Update merges fields into an existing document and refreshes updatedAt.
	// createdAt and updatedAt in fields are ignored.
	Update(ctx context.Context, collection, id string, fields map[string]any) (time.Time, error)
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Query returns the documents matching every filter, newest createdAt first.
	Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)
	// Watch calls fn with the full matching result set, once immediately and
	// again after every change, until ctx is done or the backend fails.
	// It returns nil when ctx ends.
	Watch(ctx context.Context, collection string, filters []Filter, fn func([]*Document)) error
}
