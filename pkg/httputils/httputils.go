package httputils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/constants"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CorrelationIDHeader = "X-Correlation-Id"

// APIResponse wraps all API responses with metadata
type APIResponse struct {
	ResponseTime  time.Time `json:"responseTime" example:"2024-01-15T10:30:00Z"`
	CorrelationId string    `json:"correlationId" example:"550e8400-e29b-41d4-a716-446655440000"`
	Code          string    `json:"code,omitempty" example:"ITEM_CREATED"`
	Data          any       `json:"data,omitempty"`
	Error         string    `json:"error,omitempty" example:"INVALID_REQUEST"`
	Message       string    `json:"message,omitempty" example:"Request processed successfully"`
	Details       any       `json:"details,omitempty"`
}

// ErrorDetails points at the batch row and field that failed.
type ErrorDetails struct {
	Row   int    `json:"row" example:"2"`
	Field string `json:"field" example:"shortcode"`
	Value string `json:"value,omitempty" example:"promo"`
}

type SuccessResponse struct {
	Data any `json:"data"`
}

// GetCorrelationID extracts the correlation ID from the request header
// If not present, generates a new UUID v4
func GetCorrelationID(r *http.Request) string {
	correlationID := r.Header.Get(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	return correlationID
}

// WriteAPIError writes an error response with metadata using a predefined APIError
func WriteAPIError(w http.ResponseWriter, r *http.Request, apiErr constants.APIError) {
	WriteAPIErrorDetails(w, r, apiErr, nil)
}

// WriteAPIErrorDetails is WriteAPIError with a details object in the body.
func WriteAPIErrorDetails(w http.ResponseWriter, r *http.Request, apiErr constants.APIError, details any) {
	writeEnvelope(w, r, apiErr.Status, APIResponse{
		Error:   apiErr.Code,
		Message: apiErr.Message,
		Details: details,
	})
}

// WriteAPISuccess writes a success response with metadata using a predefined APISuccess
func WriteAPISuccess(w http.ResponseWriter, r *http.Request, apiSuccess constants.APISuccess, data any) {
	writeEnvelope(w, r, apiSuccess.Status, APIResponse{
		Code: apiSuccess.Code,
		Data: data,
	})
}

// writeEnvelope stamps the response time and correlation ID, echoing the ID
// back in the response header.
func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, response APIResponse) {
	correlationID := GetCorrelationID(r)

	w.Header().Set(CorrelationIDHeader, correlationID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response.ResponseTime = time.Now().UTC()
	response.CorrelationId = correlationID
	encode(w, response)
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encode(w, SuccessResponse{Data: data})
}

func encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode json response", zap.Error(err))
	}
}
