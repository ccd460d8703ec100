package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/coi-serve/internal/vfs"
	"gitlab.com/gitlab-org/coi-serve/internal/vfs/local"
)

var fs = vfs.Instrumented(&local.VFS{})

// TmpDir creates a temporary directory and returns it together with a
// vfs.Root serving it
func TmpDir(tb testing.TB) (vfs.Root, string) {
	tb.Helper()

	var err error
	tmpDir := tb.TempDir()

	// On some systems `/tmp` can be a symlink
	tmpDir, err = filepath.EvalSymlinks(tmpDir)
	require.NoError(tb, err)

	root, err := fs.Root(context.Background(), tmpDir)
	require.NoError(tb, err)

	return root, tmpDir
}

// WriteFiles creates every file of files below dir, creating parent
// directories as needed
func WriteFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()

	for name, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(name))

		require.NoError(tb, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(tb, os.WriteFile(fullPath, []byte(content), 0644))
	}
}
