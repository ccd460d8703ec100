package customheaders

import (
	"bufio"
	"errors"
	"net/http"
	"net/textproto"
	"strings"
)

// Headers required by browsers to enable cross-origin isolation
const (
	OpenerPolicy   = "Cross-Origin-Opener-Policy"
	EmbedderPolicy = "Cross-Origin-Embedder-Policy"
	AllowOrigin    = "Access-Control-Allow-Origin"
)

var (
	errInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

	isolationHeaders = http.Header{
		OpenerPolicy:   []string{"same-origin"},
		EmbedderPolicy: []string{"require-corp"},
		AllowOrigin:    []string{"*"},
	}
)

// IsolationHeaders returns a copy of the fixed cross-origin isolation headers
func IsolationHeaders() http.Header {
	return isolationHeaders.Clone()
}

// IsIsolationHeader reports whether key names one of the fixed isolation headers
func IsIsolationHeader(key string) bool {
	_, ok := isolationHeaders[textproto.CanonicalMIMEHeaderKey(key)]
	return ok
}

// AddCustomHeaders adds a map of Headers to a Response
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		for _, value := range v {
			w.Header().Add(k, value)
		}
	}
}

// SetHeaders replaces the values of every key in headers, dropping whatever
// was set before
func SetHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		w.Header()[k] = append([]string(nil), v...)
	}
}

// ParseHeaderString parses a string of key values into a map
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}
	for _, keyValueString := range customHeaders {
		keyValueString = strings.TrimSpace(keyValueString) + "\n\n"
		tp := textproto.NewReader(bufio.NewReader(strings.NewReader(keyValueString)))
		keyValue, err := tp.ReadMIMEHeader()
		if err != nil {
			return nil, errInvalidHeaderParameter
		}

		for k, v := range keyValue {
			k = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
			headers[k] = append(headers[k], v...)
		}
	}
	return headers, nil
}
