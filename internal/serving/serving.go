package serving

import (
	"net/http"
	"strconv"

	"gitlab.com/gitlab-org/coi-serve/internal/logging"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

// Handler serves the files and directories below a vfs.Root
type Handler struct {
	root vfs.Root
}

// New returns a Handler serving root
func New(root vfs.Root) *Handler {
	return &Handler{root: root}
}

// ServeHTTP serves the file, index file or directory listing the request
// path resolves to
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := &responseWriter{ResponseWriter: w}

	h.serve(rw, r)

	if rw.err != nil {
		metrics.TransferErrors.Inc()
		logging.LogRequest(r).WithError(rw.err).Debug("response aborted while writing the body")
	}

	metrics.FilesServed.WithLabelValues(strconv.Itoa(rw.statusCode())).Inc()
}

// responseWriter records the status code and the first write error
type responseWriter struct {
	http.ResponseWriter
	status int
	err    error
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}

	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	if err != nil && w.err == nil {
		w.err = err
	}

	return n, err
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}

	return w.status
}
