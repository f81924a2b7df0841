package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteTree creates a temporary directory holding files (slash-separated relative
// path to content) and returns its absolute path. It fails the test immediately on error.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// SetupTestRepo writes files and initializes a read-only Loam repository over them.
func SetupTestRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir := WriteTree(t, files)
	opts = append([]loam.Option{loam.WithReadOnly(true)}, opts...)
	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")
	return dir, repo
}
