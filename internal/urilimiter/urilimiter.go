package urilimiter

import (
	"net/http"

	"gitlab.com/gitlab-org/coi-serve/internal/httperrors"
	"gitlab.com/gitlab-org/coi-serve/internal/logging"
)

// NewMiddleware answers 414 when the raw request URI, query included, is
// longer than maxLength bytes. A maxLength of zero or less disables the check.
func NewMiddleware(handler http.Handler, maxLength int) http.Handler {
	if maxLength <= 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if length := len(r.RequestURI); length > maxLength {
			logging.LogRequest(r).
				WithField("uri_length", length).
				WithField("max_uri_length", maxLength).
				Debug("request URI too long")

			httperrors.Serve414(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
