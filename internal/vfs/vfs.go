package vfs

import (
	"context"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/coi-serve/metrics"
)

// VFS abstracts the things coi-serve needs to serve files from a directory.
type VFS interface {
	Root(ctx context.Context, path string) (Root, error)
	Name() string
}

// File represents an open file, which will typically be the response body of a request.
type File interface {
	io.Reader
	io.Seeker
	io.Closer
	Stat() (os.FileInfo, error)
}

// Instrumented wraps fs so every operation is counted and traced
func Instrumented(fs VFS) VFS {
	return &instrumentedVFS{fs: fs}
}

type instrumentedVFS struct {
	fs VFS
}

func (i *instrumentedVFS) increment(operation string, err error) {
	metrics.VFSOperations.WithLabelValues(i.fs.Name(), operation, strconv.FormatBool(err == nil)).Inc()
}

func (i *instrumentedVFS) Root(ctx context.Context, path string) (Root, error) {
	root, err := i.fs.Root(ctx, path)
	i.increment("Root", err)

	log.WithField("vfs", i.fs.Name()).
		WithField("path", path).
		WithError(err).
		Traceln("Root call")

	if err != nil {
		return nil, err
	}

	return &instrumentedRoot{root: root, name: i.fs.Name(), path: path}, nil
}

func (i *instrumentedVFS) Name() string {
	return i.fs.Name()
}
