package links

import (
	"context"
	"errors"
)

var (
	ErrInvalidURL             = errors.New("invalid url")
	ErrInvalidValidity        = errors.New("invalid validity")
	ErrInvalidShortcodeFormat = errors.New("invalid shortcode format")
	ErrShortcodeCollision     = errors.New("shortcode already exists")
	ErrCodeSpaceExhausted     = errors.New("could not generate a free shortcode")
	ErrBatchTooLarge          = errors.New("batch too large")
	ErrEmptyBatch             = errors.New("batch is empty")

	ErrNotFound         = errors.New("link not found")
	ErrImmutableField   = errors.New("only clicks may be appended to a link")
	ErrConcurrentUpdate = errors.New("link changed concurrently")
)

// Mutator edits a copy of the stored record. Returning an error aborts the
// update and nothing is written.
type Mutator func(rec *LinkRecord) error

// Store persists LinkRecords. Implementations must apply Update atomically per
// shortcode and AppendAll as a single all-or-nothing write.
type Store interface {
	ListAll(ctx context.Context) ([]LinkRecord, error)
	AppendAll(ctx context.Context, records []LinkRecord) error
	Update(ctx context.Context, shortcode string, mutate Mutator) error
}

type CodeSource interface {
	Generate(length int) (string, error)
}

// EventPublisher receives committed changes. Failures are logged by the
// service and never fail the operation.
type EventPublisher interface {
	LinkCreated(ctx context.Context, rec LinkRecord) error
	ClickRecorded(ctx context.Context, shortcode string, click ClickEvent) error
}
