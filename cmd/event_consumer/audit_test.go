package main

import (
	"context"
	"testing"

	"github.com/IgorGrieder/encurtador-links/internal/events"
)

func TestAuditHandler_CountsClicks(t *testing.T) {
	h := newAuditHandler()
	ctx := context.Background()

	for range 3 {
		if err := h.HandleClickRecorded(ctx, events.ClickRecorded{Shortcode: "abc"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.HandleClickRecorded(ctx, events.ClickRecorded{Shortcode: "  "}); err != nil {
		t.Fatal(err)
	}

	if got := h.clicksSeen("abc"); got != 3 {
		t.Errorf("got %d clicks, want 3", got)
	}
	if got := h.clicksSeen("  "); got != 0 {
		t.Errorf("blank shortcode was counted: %d", got)
	}
}

func TestAuditHandler_LinkCreated(t *testing.T) {
	h := newAuditHandler()
	if err := h.HandleLinkCreated(context.Background(), events.LinkCreated{Shortcode: "abc"}); err != nil {
		t.Fatal(err)
	}
	if err := h.HandleLinkCreated(context.Background(), events.LinkCreated{}); err != nil {
		t.Fatal(err)
	}
}
