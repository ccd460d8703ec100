package serving

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"syscall"

	"gitlab.com/gitlab-org/coi-serve/internal/httperrors"
	"gitlab.com/gitlab-org/coi-serve/internal/logging"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
	"gitlab.com/gitlab-org/coi-serve/metrics"
)

var indexFiles = []string{"index.html", "index.htm"}

// cleanPath returns the request path with every "." and ".." segment
// resolved. The result always starts with "/" so ".." can never climb
// above the root.
func cleanPath(urlPath string) string {
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	return path.Clean(urlPath)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	cleaned := cleanPath(urlPath)
	name := strings.TrimPrefix(cleaned, "/")

	fi, err := h.root.Stat(r.Context(), name)
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	if fi.IsDir() {
		if !strings.HasSuffix(urlPath, "/") {
			redirectToDirectory(w, r, cleaned)
			return
		}

		h.serveDirectory(w, r, name, cleaned)
		return
	}

	// a trailing slash only makes sense for directories
	if strings.HasSuffix(urlPath, "/") {
		httperrors.Serve404(w)
		return
	}

	h.serveFile(w, r, name)
}

func redirectToDirectory(w http.ResponseWriter, r *http.Request, cleaned string) {
	location := &url.URL{
		Path:     strings.TrimSuffix(cleaned, "/") + "/",
		RawQuery: r.URL.RawQuery,
	}

	http.Redirect(w, r, location.String(), http.StatusMovedPermanently)
}

func (h *Handler) serveDirectory(w http.ResponseWriter, r *http.Request, name, cleaned string) {
	for _, index := range indexFiles {
		indexName := path.Join(name, index)

		fi, err := h.root.Stat(r.Context(), indexName)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		h.serveFile(w, r, indexName)
		return
	}

	h.serveListing(w, r, name, cleaned)
}

func (h *Handler) serveListing(w http.ResponseWriter, r *http.Request, name, cleaned string) {
	entries, err := h.root.ReadDir(r.Context(), name)
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	listingPath := cleaned
	if listingPath != "/" {
		listingPath += "/"
	}

	body, err := newListing(listingPath, entries).render()
	if err != nil {
		httperrors.Serve500WithRequest(w, r, "could not render directory listing", err)
		return
	}

	metrics.DirectoryListings.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	file, err := h.root.Open(r.Context(), name)
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		httperrors.Serve500WithRequest(w, r, "could not stat file", err)
		return
	}

	metrics.ServedFileSize.Observe(float64(fi.Size()))

	// ServeContent does not sniff when the type is already set
	w.Header().Set("Content-Type", detectContentType(name))
	http.ServeContent(w, r, name, fi.ModTime(), file)
}

func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	if isNotFound(err) {
		logging.LogRequest(r).WithError(err).Debug("file not found")
		httperrors.Serve404(w)
		return
	}

	httperrors.Serve500WithRequest(w, r, "could not serve file", err)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, vfs.ErrInvalidPath) ||
		errors.Is(err, vfs.ErrNotFile) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ELOOP)
}
