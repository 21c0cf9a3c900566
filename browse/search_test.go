package browse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []Entry) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	m, root := newTestModel(t, Options{})

	require.NoError(t, os.Mkdir(filepath.Join(root, "abba"), 0755))
	writeFile(t, filepath.Join(root, "xab.txt"), 10)
	writeFile(t, filepath.Join(root, "ABBA.doc"), 20)
	writeFile(t, filepath.Join(root, "other.md"), 5)
	writeFile(t, filepath.Join(root, ".hidden_ab"), 5)

	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "deep_ab.log"), 3)

	t.Run("substring is case-insensitive and recursive", func(t *testing.T) {
		results := m.Search("ab", 0)
		// Folders first, then case-insensitive by name.
		assert.Equal(t, []string{"abba", "ABBA.doc", "deep_ab.log", "xab.txt"}, names(results))
		assert.Equal(t, "nested/deep_ab.log", results[2].Path)
	})

	t.Run("short query without wildcard is rejected", func(t *testing.T) {
		assert.Empty(t, m.Search("a", 0))
		assert.Empty(t, m.Search("", 0))
		assert.Empty(t, m.Search("   ", 0))
	})

	t.Run("wildcard query", func(t *testing.T) {
		results := m.Search("*.txt", 0)
		assert.Equal(t, []string{"xab.txt"}, names(results))
	})

	t.Run("single char with wildcard allowed", func(t *testing.T) {
		results := m.Search("x*", 0)
		assert.Equal(t, []string{"xab.txt"}, names(results))
	})

	t.Run("hidden entries excluded", func(t *testing.T) {
		for _, r := range m.Search("hidden", 0) {
			assert.NotEqual(t, ".hidden_ab", r.Name)
		}
	})

	t.Run("result cap", func(t *testing.T) {
		m.searches.delete("ab")
		results := m.Search("ab", 2)
		assert.Len(t, results, 2)
	})

	t.Run("matched folders carry a size", func(t *testing.T) {
		writeFile(t, filepath.Join(root, "abba", "song.mp3"), 1024)
		m.Invalidate("abba")
		m.searches.delete("ab")

		results := m.Search("ab", 0)
		require.NotEmpty(t, results)
		folder := results[0]
		require.Equal(t, TypeFolder, folder.Type)
		assert.Equal(t, int64(1024), folder.SizeBytes)
		assert.Equal(t, 1, folder.FileCount)
	})
}

func TestSearchCaching(t *testing.T) {
	m, root := newTestModel(t, Options{})
	writeFile(t, filepath.Join(root, "cached.txt"), 1)

	first := m.Search("cached", 0)
	require.Len(t, first, 1)

	// The cached result hides new matches until the entry expires.
	writeFile(t, filepath.Join(root, "cached_too.txt"), 1)
	assert.Len(t, m.Search("cached", 0), 1)
	assert.Len(t, m.Search("CACHED  ", 0), 1)
}

func TestSearchCacheExpiry(t *testing.T) {
	// Search results go stale at the base TTL, not the 5x prune horizon.
	m, root := newTestModel(t, Options{CacheTTL: 30 * time.Millisecond})
	writeFile(t, filepath.Join(root, "report_a.txt"), 1)

	require.Len(t, m.Search("report", 0), 1)

	writeFile(t, filepath.Join(root, "report_b.txt"), 1)
	assert.Eventually(t, func() bool {
		return len(m.Search("report", 0)) == 2
	}, time.Second, 10*time.Millisecond)
}
