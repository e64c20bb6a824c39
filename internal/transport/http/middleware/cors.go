package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORSMiddleware lets browser frontends create links and read stats. A "*"
// entry allows any origin; credentials are only allowed for an explicit list.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
			http.MethodHead,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Accept",
			"Origin",
			"X-Correlation-Id",
			"traceparent",
			"tracestate",
			"baggage",
		},
		ExposedHeaders: []string{
			"Location",
			"X-Correlation-Id",
		},
		AllowCredentials: !wildcard,
	}
	if wildcard {
		opts.AllowedOrigins = []string{"*"}
	}

	c := cors.New(opts)
	return c.Handler
}
