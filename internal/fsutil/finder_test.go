package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.hcl"))
	writeFile(t, filepath.Join(root, "a.yaml"))
	writeFile(t, filepath.Join(root, "nested", "c.yml"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".hidden.hcl"))
	writeFile(t, filepath.Join(root, ".git", "d.hcl"))

	t.Run("multiple extensions, hidden skipped, sorted", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".hcl", ".yaml", ".yml")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.yaml"),
			filepath.Join(root, "b.hcl"),
			filepath.Join(root, "nested", "c.yml"),
		}, files)
	})

	t.Run("single file path", func(t *testing.T) {
		files, err := FindFilesByExtension(filepath.Join(root, "b.hcl"), ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "b.hcl")}, files)

		files, err = FindFilesByExtension(filepath.Join(root, "notes.txt"), ".hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
	})
}
