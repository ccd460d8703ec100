package serving

import (
	"mime"
	"path"
	"strings"

	"gitlab.com/gitlab-org/go-mimedb"
)

const defaultContentType = "application/octet-stream"

// Types browsers are strict about. They win over both the system MIME table
// and go-mimedb.
var contentTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".wasm": "application/wasm",
	".json": "application/json",
}

// LoadMimeTypes enriches the process wide MIME table with go-mimedb
func LoadMimeTypes() error {
	if err := mimedb.LoadTypes(); err != nil {
		return err
	}

	for ext, contentType := range contentTypes {
		if err := mime.AddExtensionType(ext, contentType); err != nil {
			return err
		}
	}

	return nil
}

// detectContentType maps name to a content type by its extension only,
// the file content is never sniffed
func detectContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return defaultContentType
	}

	if contentType, ok := contentTypes[ext]; ok {
		return contentType
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	return defaultContentType
}
