package stream

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenFullFile(t *testing.T) {
	data := []byte("0123456789")
	path := writeTestFile(t, "clip.mp4", data)

	resp, err := Open(path, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "video/mp4", resp.ContentType)
	assert.Equal(t, int64(10), resp.Length)
	assert.Equal(t, "10", resp.Headers["Content-Length"])
	assert.Equal(t, "bytes", resp.Headers["Accept-Ranges"])
	assert.NotContains(t, resp.Headers, "Content-Range")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, data, body)
}

func TestOpenRange(t *testing.T) {
	path := writeTestFile(t, "clip.mp4", []byte("0123456789"))

	resp, err := Open(path, "bytes=2-5")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusPartialContent, resp.Status)
	assert.Equal(t, int64(4), resp.Length)
	assert.Equal(t, "bytes 2-5/10", resp.Headers["Content-Range"])
	assert.Equal(t, "4", resp.Headers["Content-Length"])

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("2345"), body)
}

func TestOpenOpenEndedRange(t *testing.T) {
	path := writeTestFile(t, "clip.mp4", []byte("0123456789"))

	resp, err := Open(path, "bytes=7-")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusPartialContent, resp.Status)
	assert.Equal(t, "bytes 7-9/10", resp.Headers["Content-Range"])

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("789"), body)
}

func TestOpenMalformedRange(t *testing.T) {
	// A header with no parsable interval falls back to the full file.
	path := writeTestFile(t, "clip.mp4", []byte("0123456789"))

	resp, err := Open(path, "bytes=junk")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int64(10), resp.Length)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.mp4"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChunkReaderLargeFile(t *testing.T) {
	data := make([]byte, 3*chunkSize+100)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := writeTestFile(t, "big.bin", data)

	resp, err := Open(path, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Each Read returns at most one chunk.
	buf := make([]byte, 4*chunkSize)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, chunkSize, n)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, data[chunkSize:], body)
}

func TestResolveMIME(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"video.mkv", "video/x-matroska"},
		{"video.mp4", "video/mp4"},
		{"song.mp3", "audio/mpeg"},
		{"page.html", "text/html"},
		{"data.json", "application/json"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ResolveMIME(tt.filename), "ResolveMIME(%q)", tt.filename)
	}
}
