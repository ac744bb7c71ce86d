package db

import "time"

var zeroTime time.Time

// setField records a partial-update field when the caller supplied it.
func setField[T any](fields map[string]any, path string, v *T) {
	if v != nil {
		fields[path] = *v
	}
}
