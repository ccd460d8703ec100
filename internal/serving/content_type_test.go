package serving

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	require.NoError(t, LoadMimeTypes())

	tests := map[string]string{
		"index.html":       "text/html",
		"INDEX.HTML":       "text/html",
		"app.js":           "application/javascript",
		"worker.mjs":       "application/javascript",
		"module.wasm":      "application/wasm",
		"data.json":        "application/json",
		"archive.unknown1": "application/octet-stream",
		"Makefile":         "application/octet-stream",
		"dir.d/file":       "application/octet-stream",
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, want, detectContentType(name))
		})
	}
}

func TestDetectContentTypeUsesMimeTable(t *testing.T) {
	require.NoError(t, LoadMimeTypes())

	require.Contains(t, detectContentType("style.css"), "text/css")
	require.Contains(t, detectContentType("image.png"), "image/png")
}
