package constants

// Error messages used in API responses.
// These are the human-readable messages returned in the "message" field.
const (
	// Common messages
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "An internal error occurred"

	// Shortener-specific messages
	MsgInvalidURL         = "Invalid URL (must be http or https with a domain)"
	MsgInvalidValidity    = "Validity must be a positive number of minutes"
	MsgInvalidShortcode   = "Shortcode must be 3-10 letters, digits, '_' or '-'"
	MsgShortcodeTaken     = "Shortcode already in use"
	MsgCodeSpaceExhausted = "Could not generate a free shortcode, try again"
	MsgBatchTooLarge      = "At most 5 links per request"
	MsgEmptyBatch         = "At least one link is required"
	MsgLinkExpired        = "Link has expired"
	MsgLinkNotFound       = "Link not found"
	MsgStorageUnavailable = "Link storage is unavailable"
)
