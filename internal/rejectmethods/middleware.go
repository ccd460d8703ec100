package rejectmethods

import (
	"net/http"
	"strings"

	"gitlab.com/gitlab-org/coi-serve/internal/httperrors"
)

var acceptedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
}

var allowHeader = strings.Join(acceptedMethods, ", ")

// NewMiddleware returns middleware which rejects every method a read-only
// file server cannot handle with 405 Method Not Allowed
func NewMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, method := range acceptedMethods {
			if r.Method == method {
				handler.ServeHTTP(w, r)
				return
			}
		}

		httperrors.Serve405(w, allowHeader)
	})
}
