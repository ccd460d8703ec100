package vfs

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/coi-serve/metrics"
)

// Root abstracts read-only access to the served root directory. Names are
// slash separated and relative to the root; symlinks are followed only while
// they stay inside the root.
type Root interface {
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	Open(ctx context.Context, name string) (File, error)
	ReadDir(ctx context.Context, name string) ([]os.DirEntry, error)
}

type instrumentedRoot struct {
	root Root
	name string
	path string
}

func (i *instrumentedRoot) increment(operation string, err error) {
	metrics.VFSOperations.WithLabelValues(i.name, operation, strconv.FormatBool(err == nil)).Inc()
}

func (i *instrumentedRoot) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	fi, err := i.root.Stat(ctx, name)
	i.increment("Stat", err)

	log.WithField("vfs", i.name).
		WithField("path", i.path).
		WithField("name", name).
		WithError(err).
		Traceln("Stat call")

	return fi, err
}

func (i *instrumentedRoot) Open(ctx context.Context, name string) (File, error) {
	f, err := i.root.Open(ctx, name)
	i.increment("Open", err)

	log.WithField("vfs", i.name).
		WithField("path", i.path).
		WithField("name", name).
		WithError(err).
		Traceln("Open call")

	return f, err
}

func (i *instrumentedRoot) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	entries, err := i.root.ReadDir(ctx, name)
	i.increment("ReadDir", err)

	log.WithField("vfs", i.name).
		WithField("path", i.path).
		WithField("name", name).
		WithField("ret-entries", len(entries)).
		WithError(err).
		Traceln("ReadDir call")

	return entries, err
}
