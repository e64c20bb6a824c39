package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/events"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	defaultMaxWait = 500 * time.Millisecond
	defaultBackoff = 500 * time.Millisecond
)

// auditHandler logs every link event and keeps a per-shortcode click tally
// for the lifetime of the process.
type auditHandler struct {
	mu     sync.Mutex
	clicks map[string]int
}

func newAuditHandler() *auditHandler {
	return &auditHandler{clicks: make(map[string]int)}
}

func (h *auditHandler) HandleLinkCreated(_ context.Context, event events.LinkCreated) error {
	if strings.TrimSpace(event.Shortcode) == "" {
		logger.Warn("link created event missing shortcode, skipping", zap.String("event_id", event.EventID))
		return nil
	}

	logger.Info("link created",
		zap.String("event_id", event.EventID),
		zap.String("shortcode", event.Shortcode),
		zap.String("long_url", event.LongURL),
		zap.Int("validity_minutes", event.ValidityMinutes),
		zap.String("expires_at", event.ExpiresAt),
	)
	return nil
}

func (h *auditHandler) HandleClickRecorded(_ context.Context, event events.ClickRecorded) error {
	if strings.TrimSpace(event.Shortcode) == "" {
		logger.Warn("click event missing shortcode, skipping", zap.String("event_id", event.EventID))
		return nil
	}

	h.mu.Lock()
	h.clicks[event.Shortcode]++
	total := h.clicks[event.Shortcode]
	h.mu.Unlock()

	logger.Info("click recorded",
		zap.String("event_id", event.EventID),
		zap.String("shortcode", event.Shortcode),
		zap.String("occurred_at", event.OccurredAt),
		zap.String("source", event.Source),
		zap.String("location", event.Location),
		zap.Int("clicks_seen", total),
	)
	return nil
}

func (h *auditHandler) clicksSeen(shortcode string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clicks[shortcode]
}
