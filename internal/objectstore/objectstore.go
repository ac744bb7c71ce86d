// Package objectstore puts, lists and deletes binary objects addressed by
// slash-separated paths.
package objectstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Store is a flat object namespace.
type Store interface {
	// Put writes data at path and returns a public download URL.
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	// List returns the paths of the objects directly under prefix, not
	// descending into deeper levels.
	List(ctx context.Context, prefix string) ([]string, error)
}
