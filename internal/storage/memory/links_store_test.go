package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
)

var created = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func record(code string) links.LinkRecord {
	return links.NewLinkRecord(code, "https://example.com/"+code, 30, created)
}

func appendClick(source string) links.Mutator {
	return func(rec *links.LinkRecord) error {
		rec.Clicks = append(rec.Clicks, links.ClickEvent{
			Timestamp: created.Add(time.Minute),
			Source:    source,
			Location:  links.LocationUnknown,
		})
		return nil
	}
}

func TestLinksStore_AppendAndList(t *testing.T) {
	store := NewLinksStore()
	ctx := context.Background()

	if err := store.AppendAll(ctx, []links.LinkRecord{record("aaa"), record("bbb")}); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendAll(ctx, []links.LinkRecord{record("ccc")}); err != nil {
		t.Fatal(err)
	}

	got, err := store.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"aaa", "bbb", "ccc"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Shortcode != want[i] {
			t.Errorf("record %d: got %q, want %q", i, got[i].Shortcode, want[i])
		}
	}
}

func TestLinksStore_AppendAllIsAllOrNothing(t *testing.T) {
	store := NewLinksStore()
	ctx := context.Background()

	if err := store.AppendAll(ctx, []links.LinkRecord{record("aaa")}); err != nil {
		t.Fatal(err)
	}

	err := store.AppendAll(ctx, []links.LinkRecord{record("new"), record("aaa")})
	if !errors.Is(err, links.ErrShortcodeCollision) {
		t.Fatalf("expected ErrShortcodeCollision, got: %v", err)
	}

	err = store.AppendAll(ctx, []links.LinkRecord{record("dup"), record("dup")})
	if !errors.Is(err, links.ErrShortcodeCollision) {
		t.Fatalf("expected ErrShortcodeCollision for in-batch duplicate, got: %v", err)
	}

	got, _ := store.ListAll(ctx)
	if len(got) != 1 {
		t.Errorf("expected 1 record after rejected writes, got %d", len(got))
	}
}

func TestLinksStore_Update(t *testing.T) {
	store := NewLinksStore()
	ctx := context.Background()
	if err := store.AppendAll(ctx, []links.LinkRecord{record("aaa")}); err != nil {
		t.Fatal(err)
	}

	if err := store.Update(ctx, "aaa", appendClick("direct")); err != nil {
		t.Fatal(err)
	}
	if err := store.Update(ctx, "missing", appendClick("direct")); !errors.Is(err, links.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}

	abort := errors.New("abort")
	err := store.Update(ctx, "aaa", func(rec *links.LinkRecord) error {
		rec.Clicks = append(rec.Clicks, links.ClickEvent{Source: "dropped"})
		return abort
	})
	if !errors.Is(err, abort) {
		t.Errorf("expected mutator error, got: %v", err)
	}

	err = store.Update(ctx, "aaa", func(rec *links.LinkRecord) error {
		rec.LongURL = "https://evil.io"
		return nil
	})
	if !errors.Is(err, links.ErrImmutableField) {
		t.Errorf("expected ErrImmutableField, got: %v", err)
	}

	got, _ := store.ListAll(ctx)
	if len(got[0].Clicks) != 1 || got[0].LongURL != "https://example.com/aaa" {
		t.Errorf("unexpected record state: %+v", got[0])
	}
}

func TestLinksStore_ListAllReturnsCopies(t *testing.T) {
	store := NewLinksStore()
	ctx := context.Background()
	_ = store.AppendAll(ctx, []links.LinkRecord{record("aaa")})
	_ = store.Update(ctx, "aaa", appendClick("direct"))

	first, _ := store.ListAll(ctx)
	first[0].Clicks[0].Source = "tampered"
	first[0].LongURL = "tampered"

	second, _ := store.ListAll(ctx)
	if second[0].Clicks[0].Source != "direct" || second[0].LongURL == "tampered" {
		t.Errorf("store state leaked through ListAll: %+v", second[0])
	}
}

func TestLinksStore_ConcurrentUpdatesKeepEveryClick(t *testing.T) {
	store := NewLinksStore()
	ctx := context.Background()
	_ = store.AppendAll(ctx, []links.LinkRecord{record("hot")})

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Update(ctx, "hot", appendClick("direct")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := store.ListAll(ctx)
	if n := len(got[0].Clicks); n != workers {
		t.Errorf("got %d clicks, want %d", n, workers)
	}
}

func TestLinksStore_CanceledContext(t *testing.T) {
	store := NewLinksStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ListAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
