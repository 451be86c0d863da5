package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"ProductsAPI/pkg/kit"
)

// HeaderAPIKey carries the shared secret. Lookups are case-insensitive, so
// clients may send it as x-api-key.
const HeaderAPIKey = "X-Api-Key"

const (
	msgKeyNotConfigured = "Server configuration error: API_KEY not set."
	msgUnauthorized     = "Unauthorized: Invalid or missing API Key."
)

// APIKey admits a request only when its X-Api-Key header equals secret.
// An empty secret is a server misconfiguration and rejects everything with
// 500, not 401.
func APIKey(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				kit.WriteError(w, r, log, kit.NewError(http.StatusInternalServerError, msgKeyNotConfigured))
				return
			}

			got := r.Header.Get(HeaderAPIKey)
			if got == "" || !kit.SecretEqual(got, secret) {
				log.Debug("api key rejected",
					zap.Bool("present", got != ""),
					zap.String("path", r.URL.Path),
				)
				kit.WriteError(w, r, log, kit.NewError(http.StatusUnauthorized, msgUnauthorized))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
