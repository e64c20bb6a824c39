package links

import (
	"fmt"
	"slices"
)

// ValidationError identifies the batch row and field that made the batch fail.
// Row is 1-based.
type ValidationError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError wraps a failure returned by the Store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AppendedClicks returns the clicks added between before and after, or
// ErrImmutableField if anything other than a clicks append happened.
func AppendedClicks(before, after LinkRecord) ([]ClickEvent, error) {
	if before.Shortcode != after.Shortcode ||
		before.LongURL != after.LongURL ||
		before.ValidityMinutes != after.ValidityMinutes ||
		!before.CreatedAt.Equal(after.CreatedAt) ||
		!before.ExpiresAt.Equal(after.ExpiresAt) {
		return nil, ErrImmutableField
	}
	if len(after.Clicks) < len(before.Clicks) {
		return nil, ErrImmutableField
	}
	if !slices.EqualFunc(before.Clicks, after.Clicks[:len(before.Clicks)], sameClick) {
		return nil, ErrImmutableField
	}
	return after.Clicks[len(before.Clicks):], nil
}

func sameClick(a, b ClickEvent) bool {
	return a.Timestamp.Equal(b.Timestamp) && a.Source == b.Source && a.Location == b.Location
}
