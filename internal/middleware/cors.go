package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS admits cross-origin calls from the configured origins only. With no
// origins configured the UI is same-origin and the handler is returned as is.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: true,
	})
	return c.Handler
}
