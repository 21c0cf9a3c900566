package browse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"report.pdf", "report.pdf"},
		{"a<b>c.txt", "a_b_c.txt"},
		{`dir/file.txt`, "dir_file.txt"},
		{`dir\file.txt`, "dir_file.txt"},
		{"con:aux?.doc", "con_aux_.doc"},
		{"trailing.dots...", "trailing.dots"},
		{"  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeFilename(tt.input), "SanitizeFilename(%q)", tt.input)
	}

	t.Run("empty gets a fallback", func(t *testing.T) {
		assert.NotEmpty(t, SanitizeFilename(""))
		assert.NotEmpty(t, SanitizeFilename("..."))
	})
}

func TestUniqueFilename(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "report.pdf", UniqueFilename(dir, "report.pdf"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))
	assert.Equal(t, "report_1.pdf", UniqueFilename(dir, "report.pdf"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report_1.pdf"), []byte("x"), 0644))
	assert.Equal(t, "report_2.pdf", UniqueFilename(dir, "report.pdf"))
}
