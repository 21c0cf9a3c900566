// Package stream serves files as full or partial HTTP responses with
// the headers media players need for seeking.
package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
)

// ErrNotFound is returned before any body bytes when the file is
// missing or is a directory.
var ErrNotFound = errors.New("file not found")

// chunkSize is the fixed read size per body chunk.
const chunkSize = 8192

var rangePattern = regexp.MustCompile(`(\d+)-(\d*)`)

// Response describes a full (200) or partial (206) file response. Body
// reads the requested window lazily in fixed-size chunks; callers must
// Close it.
type Response struct {
	Status      int
	ContentType string
	Headers     map[string]string
	Length      int64
	Body        io.ReadCloser
}

// rangeSpec is a closed byte interval within a file.
type rangeSpec struct {
	start int64
	end   int64
}

func (r rangeSpec) length() int64 {
	return r.end - r.start + 1
}

// parseRange extracts start/end from a "bytes=start-end" header. A
// missing end defaults to the last byte. Headers that do not match at
// all fall back to a full-file response.
func parseRange(header string, fileSize int64) (rangeSpec, bool) {
	match := rangePattern.FindStringSubmatch(header)
	if match == nil {
		return rangeSpec{}, false
	}

	spec := rangeSpec{start: 0, end: fileSize - 1}
	spec.start, _ = strconv.ParseInt(match[1], 10, 64)
	if match[2] != "" {
		spec.end, _ = strconv.ParseInt(match[2], 10, 64)
	}
	return spec, true
}

// Open prepares a streaming response for the file at path. A valid
// Range header yields a 206 window; no header, or a malformed one,
// yields the entire file with status 200.
func Open(path, rangeHeader string) (*Response, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, ErrNotFound
	}
	fileSize := info.Size()

	headers := map[string]string{
		"Accept-Ranges":                "bytes",
		"Content-Disposition":          "inline",
		"X-Content-Type-Options":       "nosniff",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
		"Access-Control-Allow-Headers": "Range",
		"Cache-Control":                "no-cache",
	}

	spec := rangeSpec{start: 0, end: fileSize - 1}
	status := http.StatusOK
	if rangeHeader != "" {
		if parsed, ok := parseRange(rangeHeader, fileSize); ok {
			spec = parsed
			status = http.StatusPartialContent
		}
	}

	length := spec.length()
	if status == http.StatusPartialContent {
		headers["Content-Range"] = fmt.Sprintf("bytes %d-%d/%d", spec.start, spec.end, fileSize)
		headers["Content-Length"] = strconv.FormatInt(length, 10)
	} else {
		headers["Content-Length"] = strconv.FormatInt(fileSize, 10)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNotFound
	}
	if spec.start > 0 {
		if _, err := f.Seek(spec.start, io.SeekStart); err != nil {
			f.Close()
			return nil, ErrNotFound
		}
	}

	return &Response{
		Status:      status,
		ContentType: ResolveMIME(path),
		Headers:     headers,
		Length:      length,
		Body:        &chunkReader{file: f, remaining: length},
	}, nil
}

// chunkReader reads up to chunkSize bytes per call until the window is
// exhausted. Single pass; a fresh Open re-seeks the file instead.
type chunkReader struct {
	file      *os.File
	remaining int64
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}

	limit := int64(len(p))
	if limit > chunkSize {
		limit = chunkSize
	}
	if limit > r.remaining {
		limit = r.remaining
	}

	n, err := r.file.Read(p[:limit])
	r.remaining -= int64(n)
	return n, err
}

func (r *chunkReader) Close() error {
	return r.file.Close()
}
