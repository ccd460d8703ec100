package serving

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/coi-serve/internal/testhelpers"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs/local"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

// setupHandler serves a "public" directory next to a secret file that must
// never be reachable
func setupHandler(t *testing.T) (*Handler, string) {
	t.Helper()

	_, dir := testhelpers.TmpDir(t)
	publicDir := filepath.Join(dir, "public")

	testhelpers.WriteFiles(t, dir, map[string]string{
		"secret.txt":                "top secret",
		"public/index.html":         "<h1>hi</h1>",
		"public/app.js":             "console.log('hi')",
		"public/module.wasm":        "\x00asm",
		"public/data.json":          `{"a":1}`,
		"public/style.css":          "body{}",
		"public/notes.unknownext42": "?",
		"public/README":             "plain",
		"public/htm/index.htm":      "old school",
		"public/list/b.txt":         "b",
		"public/list/A.txt":         "a",
		"public/list/<b>.txt":       "tag",
		"public/list/sub/c.txt":     "c",
	})

	require.NoError(t, os.Symlink(filepath.Join(dir, "secret.txt"), filepath.Join(publicDir, "escape.txt")))
	require.NoError(t, os.Symlink("app.js", filepath.Join(publicDir, "alias.js")))

	root, err := vfs.Instrumented(&local.VFS{}).Root(context.Background(), publicDir)
	require.NoError(t, err)

	return New(root), publicDir
}

func serve(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}

	ww := httptest.NewRecorder()
	h.ServeHTTP(ww, req)

	return ww
}

func TestServeFiles(t *testing.T) {
	h, _ := setupHandler(t)

	tests := map[string]struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		"html": {
			path:        "/index.html",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        "<h1>hi</h1>",
		},
		"javascript": {
			path:        "/app.js",
			status:      http.StatusOK,
			contentType: "application/javascript",
			body:        "console.log('hi')",
		},
		"wasm": {
			path:        "/module.wasm",
			status:      http.StatusOK,
			contentType: "application/wasm",
			body:        "\x00asm",
		},
		"json": {
			path:        "/data.json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"a":1}`,
		},
		"unknown_extension": {
			path:        "/notes.unknownext42",
			status:      http.StatusOK,
			contentType: "application/octet-stream",
			body:        "?",
		},
		"no_extension": {
			path:        "/README",
			status:      http.StatusOK,
			contentType: "application/octet-stream",
			body:        "plain",
		},
		"symlink_inside_root": {
			path:        "/alias.js",
			status:      http.StatusOK,
			contentType: "application/javascript",
			body:        "console.log('hi')",
		},
		"root_index": {
			path:        "/",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        "<h1>hi</h1>",
		},
		"htm_index": {
			path:        "/htm/",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        "old school",
		},
		"dot_segments": {
			path:        "/list/../app.js",
			status:      http.StatusOK,
			contentType: "application/javascript",
			body:        "console.log('hi')",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ww := serve(t, h, http.MethodGet, tt.path, nil)

			require.Equal(t, tt.status, ww.Code)
			require.Equal(t, tt.contentType, ww.Header().Get("Content-Type"))
			require.Equal(t, tt.body, ww.Body.String())
		})
	}
}

func TestServeNotFound(t *testing.T) {
	h, _ := setupHandler(t)

	tests := map[string]string{
		"missing_file":          "/missing.html",
		"missing_directory":     "/missing/",
		"file_as_directory":     "/index.html/",
		"below_a_file":          "/index.html/x",
		"parent_traversal":      "/../secret.txt",
		"deep_parent_traversal": "/list/../../secret.txt",
		"encoded_traversal":     "/%2e%2e/secret.txt",
		"symlink_escape":        "/escape.txt",
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			ww := serve(t, h, http.MethodGet, target, nil)

			require.Equal(t, http.StatusNotFound, ww.Code)
			require.Contains(t, ww.Header().Get("Content-Type"), "text/html")
			require.NotContains(t, ww.Body.String(), "top secret")
		})
	}
}

func TestServeDirectoryRedirect(t *testing.T) {
	h, _ := setupHandler(t)

	ww := serve(t, h, http.MethodGet, "/list", nil)
	require.Equal(t, http.StatusMovedPermanently, ww.Code)
	require.Equal(t, "/list/", ww.Header().Get("Location"))

	ww = serve(t, h, http.MethodGet, "/list/sub?x=1", nil)
	require.Equal(t, http.StatusMovedPermanently, ww.Code)
	require.Equal(t, "/list/sub/?x=1", ww.Header().Get("Location"))
}

func TestServeDirectoryListing(t *testing.T) {
	h, _ := setupHandler(t)

	before := testutil.ToFloat64(metrics.DirectoryListings)

	ww := serve(t, h, http.MethodGet, "/list/", nil)

	require.Equal(t, http.StatusOK, ww.Code)
	require.Equal(t, "text/html; charset=utf-8", ww.Header().Get("Content-Type"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.DirectoryListings))

	body := ww.Body.String()
	require.Contains(t, body, "Directory listing for /list/")
	require.Contains(t, body, `<a href="A.txt">A.txt</a>`)
	require.Contains(t, body, `<a href="b.txt">b.txt</a>`)
	require.Contains(t, body, `<a href="sub/">sub/</a>`)
	require.Contains(t, body, "&lt;b&gt;.txt")
	require.NotContains(t, body, "<b>.txt")
}

func TestServeHead(t *testing.T) {
	h, _ := setupHandler(t)

	for _, target := range []string{"/index.html", "/list/"} {
		t.Run(target, func(t *testing.T) {
			get := serve(t, h, http.MethodGet, target, nil)
			head := serve(t, h, http.MethodHead, target, nil)

			require.Equal(t, http.StatusOK, head.Code)
			require.Empty(t, head.Body.String())
			require.Equal(t, get.Header().Get("Content-Type"), head.Header().Get("Content-Type"))
			require.Equal(t, get.Header().Get("Content-Length"), head.Header().Get("Content-Length"))
		})
	}
}

func TestServeRange(t *testing.T) {
	h, _ := setupHandler(t)

	ww := serve(t, h, http.MethodGet, "/index.html", http.Header{"Range": []string{"bytes=0-3"}})

	require.Equal(t, http.StatusPartialContent, ww.Code)
	require.Equal(t, "<h1>", ww.Body.String())
	require.Equal(t, "text/html", ww.Header().Get("Content-Type"))
}

func TestServeReadsFreshContent(t *testing.T) {
	h, dir := setupHandler(t)

	require.Equal(t, "<h1>hi</h1>", serve(t, h, http.MethodGet, "/index.html", nil).Body.String())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>bye</h1>"), 0644))

	require.Equal(t, "<h1>bye</h1>", serve(t, h, http.MethodGet, "/index.html", nil).Body.String())
}

func TestServeCountsStatusCodes(t *testing.T) {
	h, _ := setupHandler(t)

	notFound := metrics.FilesServed.WithLabelValues("404")
	before := testutil.ToFloat64(notFound)

	serve(t, h, http.MethodGet, "/missing", nil)

	require.Equal(t, before+1, testutil.ToFloat64(notFound))
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestServeTransferError(t *testing.T) {
	h, _ := setupHandler(t)

	before := testutil.ToFloat64(metrics.TransferErrors)

	ww := &brokenWriter{httptest.NewRecorder()}
	require.NotPanics(t, func() {
		h.ServeHTTP(ww, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	})

	require.Equal(t, before+1, testutil.ToFloat64(metrics.TransferErrors))
}
