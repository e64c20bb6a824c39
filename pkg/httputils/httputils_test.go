package httputils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IgorGrieder/encurtador-links/internal/constants"
)

func TestWriteAPIErrorDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/links", nil)
	req.Header.Set(CorrelationIDHeader, "corr-123")
	rec := httptest.NewRecorder()

	WriteAPIErrorDetails(rec, req, constants.ErrShortcodeTaken, ErrorDetails{Row: 2, Field: "shortcode", Value: "promo"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d", rec.Code)
	}
	if got := rec.Header().Get(CorrelationIDHeader); got != "corr-123" {
		t.Errorf("got correlation header %q", got)
	}

	var body struct {
		CorrelationID string       `json:"correlationId"`
		Error         string       `json:"error"`
		Details       ErrorDetails `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.CorrelationID != "corr-123" || body.Error != constants.CodeShortcodeTaken {
		t.Errorf("got %+v", body)
	}
	if body.Details != (ErrorDetails{Row: 2, Field: "shortcode", Value: "promo"}) {
		t.Errorf("got details %+v", body.Details)
	}
}

func TestWriteAPISuccess_GeneratesCorrelationID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/links/stats", nil)
	rec := httptest.NewRecorder()

	WriteAPISuccess(rec, req, constants.SuccessStatsFound, []string{})

	if rec.Code != constants.SuccessStatsFound.Status {
		t.Fatalf("got status %d", rec.Code)
	}
	if rec.Header().Get(CorrelationIDHeader) == "" {
		t.Error("expected a generated correlation ID")
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["error"]; ok {
		t.Errorf("success body carries an error field: %v", body)
	}
	if body["code"] != constants.SuccessStatsFound.Code {
		t.Errorf("got code %v", body["code"])
	}
}
