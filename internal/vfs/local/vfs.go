package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
)

var errNotDirectory = errors.New("path needs to be a directory")

// VFS serves files from the local disk
type VFS struct{}

// Root returns a vfs.Root jailed to path. The path is made absolute and
// its symlinks are evaluated once, so later lookups compare against the
// real location on disk.
func (localFs VFS) Root(ctx context.Context, path string) (vfs.Root, error) {
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rootPath, err = filepath.EvalSymlinks(rootPath)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate symlinks: %w", err)
	}

	fi, err := os.Lstat(rootPath)
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsDir() {
		return nil, errNotDirectory
	}

	return &Root{path: rootPath}, nil
}

func (localFs VFS) Name() string {
	return "local"
}
