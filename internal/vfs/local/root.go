package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
)

type invalidPathError struct {
	rootPath    string
	requestPath string
}

func (e *invalidPathError) Error() string {
	return fmt.Sprintf("%q should be in %q", e.requestPath, e.rootPath)
}

func (e *invalidPathError) Is(target error) bool {
	return target == vfs.ErrInvalidPath
}

// Root is a directory on the local disk
type Root struct {
	path string
}

func (r *Root) contains(fullPath string) (string, bool) {
	rel, err := filepath.Rel(r.path, fullPath)
	if err != nil {
		return "", false
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	if rel == "." {
		rel = ""
	}

	return rel, true
}

// validatePath returns the full path on disk and the path relative to the
// root. Absolute names are treated as relative to the root.
func (r *Root) validatePath(path string) (string, string, error) {
	fullPath := filepath.Join(r.path, filepath.FromSlash(path))

	vfsPath, ok := r.contains(fullPath)
	if !ok {
		return "", "", &invalidPathError{rootPath: r.path, requestPath: path}
	}

	return fullPath, vfsPath, nil
}

// resolve follows symlinks and ensures the final location still lives
// inside the root
func (r *Root) resolve(path string) (string, error) {
	fullPath, _, err := r.validatePath(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", err
	}

	if _, ok := r.contains(resolved); !ok {
		return "", &invalidPathError{rootPath: r.path, requestPath: path}
	}

	return resolved, nil
}

func (r *Root) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	fullPath, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	return os.Lstat(fullPath)
}

func (r *Root) Open(ctx context.Context, name string) (vfs.File, error) {
	fullPath, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(fullPath, os.O_RDONLY|unix.O_NOFOLLOW, 0)
	if err != nil {
		return nil, err
	}

	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if !fi.Mode().IsRegular() {
		file.Close()
		return nil, fmt.Errorf("%q: %w", name, vfs.ErrNotFile)
	}

	return file, nil
}

func (r *Root) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	fullPath, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	return os.ReadDir(fullPath)
}
