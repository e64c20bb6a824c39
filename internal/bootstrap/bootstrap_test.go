package bootstrap

import (
	"context"
	"testing"

	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/IgorGrieder/encurtador-links/internal/storage/memory"
	sqliteStorage "github.com/IgorGrieder/encurtador-links/internal/storage/sqlite"
)

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory}})
		if err != nil {
			t.Fatal(err)
		}
		defer closeFn()
		if _, ok := store.(*memory.LinksStore); !ok {
			t.Errorf("got %T", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{
			Backend:    config.StoreSQLite,
			SQLitePath: "file:bootstrap_test?mode=memory&cache=shared",
		}}
		store, closeFn, err := OpenStore(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		defer closeFn()
		if _, ok := store.(*sqliteStorage.LinksStore); !ok {
			t.Errorf("got %T", store)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, _, err := OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "etcd"}}); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}

func TestNewService(t *testing.T) {
	cfg := &config.Config{
		Store:     config.StoreConfig{Backend: config.StoreMemory},
		Shortener: config.ShortenerConfig{BaseURL: "https://sho.rt", MaxGenerateAttempts: 3},
	}

	svc, closeFn, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	records, err := svc.CreateBatch(context.Background(), []links.CreateRequest{{LongURL: "https://example.com"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.ShortURL(records[0].Shortcode); got != "https://sho.rt/"+records[0].Shortcode {
		t.Errorf("got %q", got)
	}
}
