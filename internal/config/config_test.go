package config

import (
	"strings"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != StoreSQLite {
		t.Errorf("got backend %q, want %q", cfg.Store.Backend, StoreSQLite)
	}
	if cfg.Shortener.RedirectStatus != 302 {
		t.Errorf("got redirect status %d, want 302", cfg.Shortener.RedirectStatus)
	}
	if cfg.Shortener.LocationHeader != "CF-IPCountry" {
		t.Errorf("got location header %q", cfg.Shortener.LocationHeader)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka should be disabled by default")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("got cors origins %v", cfg.Server.CORSOrigins)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("REDIRECT_STATUS", "307")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("got backend %q", cfg.Store.Backend)
	}
	if cfg.Shortener.RedirectStatus != 307 {
		t.Errorf("got redirect status %d", cfg.Shortener.RedirectStatus)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("got brokers %v", cfg.Kafka.Brokers)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown backend", "STORE_BACKEND", "redis", "STORE_BACKEND"},
		{"redirect status", "REDIRECT_STATUS", "200", "REDIRECT_STATUS"},
		{"permanent redirect", "REDIRECT_STATUS", "301", "REDIRECT_STATUS"},
		{"attempts", "SHORTCODE_MAX_ATTEMPTS", "-1", "SHORTCODE_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got: %v", tt.wantErr, err)
			}
		})
	}
}
