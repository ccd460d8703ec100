package handlers

import (
	"net/http"

	"github.com/rs/cors"
)

const allowedMethods = "GET, HEAD, OPTIONS"

var (
	corsHandler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
)

// Cors answers CORS preflight requests and annotates cross-origin GET/HEAD
// responses. A plain OPTIONS request gets an empty 204 listing the allowed
// methods.
func Cors(handler http.Handler) http.Handler {
	return corsHandler.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Allow", allowedMethods)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		handler.ServeHTTP(w, r)
	}))
}
