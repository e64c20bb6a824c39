package links

import "time"

const (
	DefaultValidityMinutes = 30
	MaxBatchSize           = 5

	// MaxValidityMinutes keeps CreatedAt + validity inside time.Duration range.
	MaxValidityMinutes = 100 * 365 * 24 * 60

	SourceDirect    = "direct"
	LocationUnknown = "unknown"
)

// LinkRecord binds a shortcode to a long URL. Only Clicks changes after creation.
type LinkRecord struct {
	Shortcode       string
	LongURL         string
	ValidityMinutes int
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Clicks          []ClickEvent
}

// NewLinkRecord derives ExpiresAt from createdAt and the validity.
func NewLinkRecord(shortcode, longURL string, validityMinutes int, createdAt time.Time) LinkRecord {
	createdAt = createdAt.UTC()
	return LinkRecord{
		Shortcode:       shortcode,
		LongURL:         longURL,
		ValidityMinutes: validityMinutes,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt.Add(time.Duration(validityMinutes) * time.Minute),
		Clicks:          []ClickEvent{},
	}
}

// ExpiredAt reports whether the record is past its expiry at t.
func (r LinkRecord) ExpiredAt(t time.Time) bool {
	return t.UTC().After(r.ExpiresAt.UTC())
}

// Clone returns a copy that does not share the Clicks backing array.
func (r LinkRecord) Clone() LinkRecord {
	out := r
	out.Clicks = make([]ClickEvent, len(r.Clicks))
	copy(out.Clicks, r.Clicks)
	return out
}

type ClickEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
}

// CreateRequest is one row of a batch. A nil ValidityMinutes means the default.
type CreateRequest struct {
	LongURL         string
	ValidityMinutes *int
	Shortcode       string
}

// NormalizedRequest is a CreateRequest that passed validation, with the
// default validity applied.
type NormalizedRequest struct {
	LongURL         string
	ValidityMinutes int
	Shortcode       string
}

// ClickContext is supplied by the caller of Resolve; empty fields get defaults.
type ClickContext struct {
	Source   string
	Location string
}

type RedirectStatus int

const (
	RedirectNotFound RedirectStatus = iota
	RedirectFound
	RedirectExpired
)

func (s RedirectStatus) String() string {
	switch s {
	case RedirectFound:
		return "found"
	case RedirectExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// RedirectOutcome carries LongURL only when Status is RedirectFound.
type RedirectOutcome struct {
	Status  RedirectStatus
	LongURL string
}

type StatsRow struct {
	Shortcode  string       `json:"shortcode"`
	LongURL    string       `json:"longUrl"`
	ShortURL   string       `json:"shortUrl"`
	CreatedAt  time.Time    `json:"createdAt"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	ClickCount int          `json:"clickCount"`
	Clicks     []ClickEvent `json:"clicks"`
}
