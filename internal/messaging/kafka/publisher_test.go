package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/events"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(w *fakeWriter) *Publisher {
	p := newPublisher(w, "links.events", time.Second)
	p.newID = func() string { return "evt-1" }
	return p
}

func TestPublisher_LinkCreated(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	created := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	rec := links.NewLinkRecord("promo", "https://example.com", 30, created)

	if err := p.LinkCreated(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "promo" {
		t.Errorf("got key %q", msg.Key)
	}
	if got := headerValue(msg.Headers, events.TypeHeader); got != events.TypeLinkCreated {
		t.Errorf("got event type %q", got)
	}

	var event events.LinkCreated
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatal(err)
	}
	if event.EventID != "evt-1" || event.Shortcode != "promo" || event.ValidityMinutes != 30 {
		t.Errorf("got %+v", event)
	}
	if event.ExpiresAt != "2025-04-02T10:30:00Z" {
		t.Errorf("got expiresAt %q", event.ExpiresAt)
	}
}

func TestPublisher_ClickRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	click := links.ClickEvent{
		Timestamp: time.Date(2025, 4, 2, 10, 5, 0, 0, time.UTC),
		Source:    "https://ref.io",
		Location:  "US",
	}
	if err := p.ClickRecorded(context.Background(), "promo", click); err != nil {
		t.Fatal(err)
	}

	var event events.ClickRecorded
	if err := json.Unmarshal(w.msgs[0].Value, &event); err != nil {
		t.Fatal(err)
	}
	if event.Shortcode != "promo" || event.Source != "https://ref.io" || event.Location != "US" {
		t.Errorf("got %+v", event)
	}
	if !w.msgs[0].Time.Equal(click.Timestamp) {
		t.Errorf("got message time %v", w.msgs[0].Time)
	}
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newTestPublisher(&fakeWriter{err: boom})

	err := p.LinkCreated(context.Background(), links.NewLinkRecord("a", "https://a.io", 1, time.Now()))
	if !errors.Is(err, boom) {
		t.Errorf("expected write error, got: %v", err)
	}
}

func TestPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	if err := newTestPublisher(w).Close(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}
