package browse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeLazy(t *testing.T) {
	m, root := newTestModel(t, Options{})

	sub := filepath.Join(root, "media")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "a.bin"), 1000)
	writeFile(t, filepath.Join(sub, "b.bin"), 500)

	nested := filepath.Join(sub, "inner")
	require.NoError(t, os.Mkdir(nested, 0755))
	writeFile(t, filepath.Join(nested, "c.bin"), 250)

	first := m.SizeLazy("media")
	assert.Equal(t, "Calculating...", first.Size)
	assert.Equal(t, "...", first.FileCount)

	require.Eventually(t, func() bool {
		return m.SizeLazy("media").Size != "Calculating..."
	}, 2*time.Second, 10*time.Millisecond)

	info := m.SizeLazy("media")
	assert.Equal(t, FormatSize(1750), info.Size)
	assert.Equal(t, 2, info.FileCount)
}

func TestSizeLazyDisabled(t *testing.T) {
	m, _ := newTestModel(t, Options{DisableFolderSize: true})

	info := m.SizeLazy("anything")
	assert.Equal(t, "0 B", info.Size)
	assert.Equal(t, 0, info.FileCount)
}

func TestSizeShallow(t *testing.T) {
	m, root := newTestModel(t, Options{})

	sub := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "a.txt"), 100)
	writeFile(t, filepath.Join(sub, "b.txt"), 200)

	// Direct files only, nested content is not included.
	nested := filepath.Join(sub, "inner")
	require.NoError(t, os.Mkdir(nested, 0755))
	writeFile(t, filepath.Join(nested, "c.txt"), 999)

	assert.Equal(t, int64(300), m.Size("docs"))
}

func TestCountFilesResolvesSymlinks(t *testing.T) {
	m, root := newTestModel(t, Options{})

	sub := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "a.txt"), 1)

	other := filepath.Join(root, "other")
	require.NoError(t, os.Mkdir(other, 0755))
	require.NoError(t, os.Symlink(other, filepath.Join(sub, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(sub, "a.txt"), filepath.Join(sub, "filelink")))

	// a.txt and the file symlink count; the directory symlink does not.
	assert.Equal(t, 2, m.countFiles("docs"))
}

func TestDeepSizeDepthCap(t *testing.T) {
	m, root := newTestModel(t, Options{})

	// Build root/deep/l1/l2/l3/l4/l5; files below the depth cap are not
	// counted in the aggregate.
	dir := filepath.Join(root, "deep")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFile(t, filepath.Join(dir, "top.bin"), 10)

	for _, name := range []string{"l1", "l2", "l3", "l4", "l5"} {
		dir = filepath.Join(dir, name)
		require.NoError(t, os.Mkdir(dir, 0755))
		writeFile(t, filepath.Join(dir, "f.bin"), 100)
	}

	// top.bin plus the files in l1 through l4 are counted; l5 sits past
	// the depth cap and is pruned.
	assert.Equal(t, int64(410), m.deepSize("deep"))
}
