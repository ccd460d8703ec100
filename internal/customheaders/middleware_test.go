package customheaders_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/coi-serve/internal/customheaders"
	"gitlab.com/gitlab-org/coi-serve/internal/testhelpers"
)

func TestNewMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK\n")
	})

	headers := http.Header{"X-Test": []string{"a"}}
	middleware := customheaders.NewMiddleware(handler, headers)

	ww := httptest.NewRecorder()
	middleware.ServeHTTP(ww, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "a", ww.Header().Get("X-Test"))
	require.Equal(t, "OK\n", ww.Body.String())
}

func TestNewIsolationMiddleware(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"writes body": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "hello")
		},
		"writes status only": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"writes nothing": func(w http.ResponseWriter, r *http.Request) {},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"overrides inner values": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(customheaders.AllowOrigin, "https://example.com")
			w.Header().Add(customheaders.OpenerPolicy, "unsafe-none")
			w.Header().Set(customheaders.EmbedderPolicy, "credentialless")
			w.WriteHeader(http.StatusInternalServerError)
		},
		"flushes": func(w http.ResponseWriter, r *http.Request) {
			w.(http.Flusher).Flush()
			io.WriteString(w, "chunk")
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			ww := httptest.NewRecorder()
			customheaders.NewIsolationMiddleware(handler).ServeHTTP(ww, httptest.NewRequest(http.MethodGet, "/", nil))

			testhelpers.AssertIsolationHeaders(t, ww.Result().Header)
		})
	}
}

func TestNewIsolationMiddlewareKeepsOtherHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "hello")
	})

	ww := httptest.NewRecorder()
	customheaders.NewIsolationMiddleware(handler).ServeHTTP(ww, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "text/plain", ww.Header().Get("Content-Type"))
	require.Equal(t, "hello", ww.Body.String())
}
