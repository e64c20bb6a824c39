package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/internal/constants"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	appvalidation "github.com/IgorGrieder/encurtador-links/internal/infrastructure/validation"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/IgorGrieder/encurtador-links/pkg/httputils"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type LinksHandler struct {
	cfg *config.Config
	svc *links.Service
}

func NewLinksHandler(cfg *config.Config, svc *links.Service) *LinksHandler {
	return &LinksHandler{cfg: cfg, svc: svc}
}

// Rows are checked by Service.CreateBatch in order, so the first failing row
// is the one reported. The validator only checks the batch shape.
type createLinksRequest struct {
	Links []createLinkItem `json:"links" validate:"max=5"`
}

type createLinkItem struct {
	URL       string `json:"url"`
	Validity  *int   `json:"validity,omitempty"`
	Shortcode string `json:"shortcode,omitempty"`
}

type createdLink struct {
	Shortcode string    `json:"shortcode"`
	URL       string    `json:"url"`
	ShortURL  string    `json:"shortUrl"`
	Validity  int       `json:"validity"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// requestFields maps links.ValidationError fields to request JSON names.
var requestFields = map[string]string{
	"longUrl":         "url",
	"validityMinutes": "validity",
	"shortcode":       "shortcode",
}

func (h *LinksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}

	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, fromValidatorError(err))
		return
	}

	reqs := make([]links.CreateRequest, 0, len(req.Links))
	for _, item := range req.Links {
		reqs = append(reqs, links.CreateRequest{
			LongURL:         item.URL,
			ValidityMinutes: item.Validity,
			Shortcode:       item.Shortcode,
		})
	}

	records, err := h.svc.CreateBatch(r.Context(), reqs)
	if err != nil {
		h.writeLinksError(w, r, err)
		return
	}

	out := make([]createdLink, 0, len(records))
	for _, rec := range records {
		out = append(out, createdLink{
			Shortcode: rec.Shortcode,
			URL:       rec.LongURL,
			ShortURL:  h.svc.ShortURL(rec.Shortcode),
			Validity:  rec.ValidityMinutes,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
		})
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessLinksCreated, out)
}

func (h *LinksHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortcode := r.PathValue("shortcode")

	outcome, err := h.svc.Resolve(r.Context(), shortcode, links.ClickContext{
		Source:   r.Referer(),
		Location: r.Header.Get(h.cfg.Shortener.LocationHeader),
	})
	if err != nil {
		h.writeLinksError(w, r, err)
		return
	}

	switch outcome.Status {
	case links.RedirectFound:
		http.Redirect(w, r, outcome.LongURL, h.cfg.Shortener.RedirectStatus)
	case links.RedirectExpired:
		httputils.WriteAPIError(w, r, constants.ErrLinkExpired)
	default:
		httputils.WriteAPIError(w, r, constants.ErrLinkNotFound)
	}
}

func (h *LinksHandler) Report(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Report(r.Context())
	if err != nil {
		h.writeLinksError(w, r, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessStatsFound, rows)
}

func (h *LinksHandler) Stats(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.StatsFor(r.Context(), r.PathValue("shortcode"))
	if err != nil {
		h.writeLinksError(w, r, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessStatsFound, row)
}

func (h *LinksHandler) writeLinksError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := constants.FromLinksError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("links request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}

	var verr *links.ValidationError
	if errors.As(err, &verr) {
		httputils.WriteAPIErrorDetails(w, r, apiErr, httputils.ErrorDetails{
			Row:   verr.Row,
			Field: requestField(verr.Field),
			Value: verr.Value,
		})
		return
	}
	httputils.WriteAPIError(w, r, apiErr)
}

func fromValidatorError(err error) constants.APIError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return constants.ErrInvalidRequestBody
	}
	if first := validationErrs[0]; first.Field() == "links" && first.Tag() == "max" {
		return constants.ErrBatchTooLarge
	}
	return constants.ErrInvalidRequestBody
}

func requestField(field string) string {
	if name, ok := requestFields[field]; ok {
		return name
	}
	return field
}
