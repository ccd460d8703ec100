package testhelpers

import (
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/coi-serve/internal/customheaders"
)

// AssertIsolationHeaders asserts that header carries exactly the
// cross-origin isolation values, each one set once
func AssertIsolationHeaders(t *testing.T, header http.Header) {
	t.Helper()

	for k, v := range customheaders.IsolationHeaders() {
		require.Equal(t, v, header.Values(k), "header %s", k)
	}
}

// AssertHTTP404 asserts handler returns 404 with provided str body
func AssertHTTP404(t *testing.T, handler http.HandlerFunc, method, url string, str interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	handler(w, req)

	require.Equal(t, http.StatusNotFound, w.Code, "HTTP status")

	if str != nil {
		contentType, _, _ := mime.ParseMediaType(w.Header().Get("Content-Type"))
		require.Equal(t, "text/html", contentType, "Content-Type")
		require.Contains(t, w.Body.String(), str)
	}
}

// AssertLogContains checks that wantLogEntry is contained in at least one of the log entries
func AssertLogContains(t *testing.T, wantLogEntry string, entries []*logrus.Entry) {
	t.Helper()

	if wantLogEntry != "" {
		messages := make([]string, len(entries))
		for k, entry := range entries {
			messages[k] = entry.Message
		}

		require.Contains(t, messages, wantLogEntry)
	}
}

// Close closes c and fails the test on error
func Close(t *testing.T, c io.Closer) {
	t.Helper()

	require.NoError(t, c.Close())
}
