package events

const (
	TypeLinkCreated   = "link.created"
	TypeClickRecorded = "click.recorded"
)

// TypeHeader is the Kafka header carrying one of the Type* values.
const TypeHeader = "event-type"

// LinkCreated is emitted once per record after a batch is committed.
type LinkCreated struct {
	EventID         string `json:"eventId"`
	Shortcode       string `json:"shortcode"`
	LongURL         string `json:"longUrl"`
	ValidityMinutes int    `json:"validityMinutes"`
	CreatedAt       string `json:"createdAt"`
	ExpiresAt       string `json:"expiresAt"`
}

// ClickRecorded is emitted when a redirect click is accepted by the API.
type ClickRecorded struct {
	EventID    string `json:"eventId"`
	Shortcode  string `json:"shortcode"`
	OccurredAt string `json:"occurredAt"`
	Source     string `json:"source"`
	Location   string `json:"location"`
}
