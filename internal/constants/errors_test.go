package constants

import (
	"errors"
	"net/http"
	"testing"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
)

func TestFromLinksError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"invalid url", &links.ValidationError{Row: 1, Field: "longUrl", Err: links.ErrInvalidURL}, CodeInvalidURL, http.StatusBadRequest},
		{"invalid validity", links.ErrInvalidValidity, CodeInvalidValidity, http.StatusBadRequest},
		{"bad shortcode", links.ErrInvalidShortcodeFormat, CodeInvalidShortcode, http.StatusBadRequest},
		{"collision", &links.ValidationError{Row: 2, Field: "shortcode", Err: links.ErrShortcodeCollision}, CodeShortcodeTaken, http.StatusConflict},
		{"exhausted", links.ErrCodeSpaceExhausted, CodeCodeSpaceExhausted, http.StatusServiceUnavailable},
		{"too large", links.ErrBatchTooLarge, CodeBatchTooLarge, http.StatusBadRequest},
		{"empty", links.ErrEmptyBatch, CodeEmptyBatch, http.StatusBadRequest},
		{"not found", links.ErrNotFound, CodeLinkNotFound, http.StatusNotFound},
		{"storage", &links.StorageError{Op: "list", Err: errors.New("down")}, CodeStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("mystery"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromLinksError(tt.err)
			if got.Code != tt.code || got.Status != tt.status {
				t.Errorf("got %s/%d, want %s/%d", got.Code, got.Status, tt.code, tt.status)
			}
		})
	}
}

func TestAPIError_WithMessage(t *testing.T) {
	custom := ErrInvalidRequestBody.WithMessage("links must be an array")
	if custom.Message != "links must be an array" || custom.Code != CodeInvalidRequest {
		t.Errorf("got %+v", custom)
	}
	if ErrInvalidRequestBody.Message != MsgInvalidRequestBody {
		t.Error("WithMessage mutated the original")
	}
}
