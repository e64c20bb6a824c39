package constants

// Error codes used in API responses.
// These are the machine-readable codes returned in the "error" field.
const (
	// Common error codes
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeNotFound       = "NOT_FOUND"

	// Shortener-specific codes
	CodeInvalidURL         = "INVALID_URL"
	CodeInvalidValidity    = "INVALID_VALIDITY"
	CodeInvalidShortcode   = "INVALID_SHORTCODE"
	CodeShortcodeTaken     = "SHORTCODE_TAKEN"
	CodeCodeSpaceExhausted = "CODE_SPACE_EXHAUSTED"
	CodeBatchTooLarge      = "BATCH_TOO_LARGE"
	CodeEmptyBatch         = "EMPTY_BATCH"
	CodeLinkExpired        = "LINK_EXPIRED"
	CodeLinkNotFound       = "LINK_NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"

	// Success codes
	CodeLinksCreated = "LINKS_CREATED"
	CodeStatsFound   = "STATS_FOUND"
)
