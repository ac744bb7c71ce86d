package core

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the caller does not own the record it
	// tries to change.
	ErrForbidden = errors.New("forbidden: caller does not own this resource")
	// ErrNGOProfileRequired is returned when an account without an NGO
	// registration tries to request a donation.
	ErrNGOProfileRequired = errors.New("an NGO profile is required for this action")
)

// BatchDeleteError reports a prefix deletion that stopped at its first
// failure. Objects deleted before the failure stay deleted.
type BatchDeleteError struct {
	Prefix  string
	Deleted int
	Total   int
	Failed  string
	Err     error
}

func (e *BatchDeleteError) Error() string {
	return fmt.Sprintf("delete %s: removed %d of %d objects, failed at %s: %v",
		e.Prefix, e.Deleted, e.Total, e.Failed, e.Err)
}

func (e *BatchDeleteError) Unwrap() error { return e.Err }
