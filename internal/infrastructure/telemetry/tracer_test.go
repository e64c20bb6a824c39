package telemetry

import "testing"

func TestExporterEndpoint(t *testing.T) {
	tests := []struct {
		in         string
		wantHost   string
		wantSecure bool
	}{
		{"http://localhost:4318", "localhost:4318", false},
		{"http://collector:4318/v1/traces", "collector:4318", false},
		{"https://otel.example.com/", "otel.example.com", true},
		{"  collector:4318  ", "collector:4318", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, secure := exporterEndpoint(tt.in)
			if host != tt.wantHost || secure != tt.wantSecure {
				t.Errorf("got (%q, %v), want (%q, %v)", host, secure, tt.wantHost, tt.wantSecure)
			}
		})
	}
}
