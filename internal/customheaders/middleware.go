package customheaders

import (
	"net/http"
)

// NewMiddleware returns middleware which inject custom headers into the response
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, headers)

		handler.ServeHTTP(w, r)
	})
}

// NewIsolationMiddleware returns middleware which sets the cross-origin
// isolation headers on every response. The headers are applied when the
// response is committed, after every inner handler had its chance to touch
// the header map, so they win over any value set further down the chain.
func NewIsolationMiddleware(handler http.Handler) http.Handler {
	headers := IsolationHeaders()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		iw := &isolationResponseWriter{ResponseWriter: w, headers: headers}
		handler.ServeHTTP(iw, r)

		// the handler may return without writing anything
		iw.commit()
	})
}

type isolationResponseWriter struct {
	http.ResponseWriter
	headers   http.Header
	committed bool
}

func (w *isolationResponseWriter) commit() {
	if w.committed {
		return
	}

	SetHeaders(w.ResponseWriter, w.headers)
	w.committed = true
}

func (w *isolationResponseWriter) WriteHeader(statusCode int) {
	w.commit()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *isolationResponseWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *isolationResponseWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap is used by http.ResponseController
func (w *isolationResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
