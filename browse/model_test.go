package browse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, opts Options) (*Model, string) {
	t.Helper()
	root := t.TempDir()
	m := NewModel(root, opts, nil)
	t.Cleanup(m.Close)
	return m, root
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestContents(t *testing.T) {
	m, root := newTestModel(t, Options{})

	require.NoError(t, os.Mkdir(filepath.Join(root, "zfolder"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "Afolder"), 0755))
	writeFile(t, filepath.Join(root, "beta.txt"), 10)
	writeFile(t, filepath.Join(root, "Alpha.mp4"), 20)
	writeFile(t, filepath.Join(root, ".hidden"), 5)

	items, err := m.Contents("")
	require.NoError(t, err)
	require.Len(t, items, 4)

	// Folders first, then case-insensitive by name.
	assert.Equal(t, "Afolder", items[0].Name)
	assert.Equal(t, "zfolder", items[1].Name)
	assert.Equal(t, "Alpha.mp4", items[2].Name)
	assert.Equal(t, "beta.txt", items[3].Name)

	folder := items[0]
	assert.Equal(t, TypeFolder, folder.Type)
	assert.Equal(t, "...", folder.Size)
	assert.Equal(t, int64(-1), folder.SizeBytes)
	assert.True(t, folder.LoadingSize)

	file := items[2]
	assert.Equal(t, TypeVideo, file.Type)
	assert.Equal(t, int64(20), file.SizeBytes)
	assert.Equal(t, "Alpha.mp4", file.Path)
}

func TestContentsErrors(t *testing.T) {
	m, root := newTestModel(t, Options{})
	writeFile(t, filepath.Join(root, "plain.txt"), 1)

	t.Run("missing path", func(t *testing.T) {
		_, err := m.Contents("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("file instead of folder", func(t *testing.T) {
		_, err := m.Contents("plain.txt")
		assert.ErrorIs(t, err, ErrNotADirectory)
	})
}

func TestContentsCaching(t *testing.T) {
	m, root := newTestModel(t, Options{CacheTTL: time.Hour})

	writeFile(t, filepath.Join(root, "one.txt"), 1)
	items, err := m.Contents("")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// A fresh cache entry hides filesystem changes.
	writeFile(t, filepath.Join(root, "two.txt"), 1)
	items, err = m.Contents("")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// Invalidation forces a re-read.
	m.Invalidate("")
	items, err = m.Contents("")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestContentsCacheExpiry(t *testing.T) {
	m, root := newTestModel(t, Options{CacheTTL: 30 * time.Millisecond})

	writeFile(t, filepath.Join(root, "one.txt"), 1)
	_, err := m.Contents("")
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "two.txt"), 1)
	assert.Eventually(t, func() bool {
		items, err := m.Contents("")
		return err == nil && len(items) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestFullPath(t *testing.T) {
	m, root := newTestModel(t, Options{})
	assert.Equal(t, root, m.FullPath(""))
	assert.Equal(t, filepath.Join(root, "docs", "a.txt"), m.FullPath("docs/a.txt"))
}
