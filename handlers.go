package main

import (
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"file-server/browse"
	"file-server/stream"
)

// pathParam decodes and sanitizes the "path" query parameter.
func pathParam(c *fiber.Ctx) string {
	raw := c.Query("path")
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return browse.CleanPath(decoded)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, browse.ErrPermission):
		return fiber.StatusForbidden
	case errors.Is(err, browse.ErrNotADirectory):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusNotFound
	}
}

// handleBrowse returns a folder listing with navigation metadata. When
// the path turns out to be a file rather than a folder, the file is
// served instead so media links can be opened directly.
func (s *server) handleBrowse(c *fiber.Ctx) error {
	safePath := pathParam(c)

	items, err := s.model.Contents(safePath)
	if err != nil {
		full := s.model.FullPath(safePath)
		if info, statErr := os.Stat(full); statErr == nil && !info.IsDir() {
			return s.sendInline(c, safePath)
		}
		return c.Status(errStatus(err)).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"path":          safePath,
		"items":         items,
		"breadcrumbs":   browse.Breadcrumbs(safePath),
		"parent_path":   browse.ParentPath(safePath),
		"counts":        browse.CountTypes(items),
		"files_by_type": browse.GroupByType(items),
	})
}

// handleFolderSize is the lazy-size polling endpoint. The first call
// for a folder returns the calculating sentinel; clients poll until a
// concrete size appears.
func (s *server) handleFolderSize(c *fiber.Ctx) error {
	return c.JSON(s.model.SizeLazy(pathParam(c)))
}

func (s *server) handleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "Query parameter q is required",
		})
	}

	results := s.model.Search(query, browse.DefaultMaxResults)

	folders := 0
	for _, r := range results {
		if r.IsDir() {
			folders++
		}
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"count":   len(results),
		"folders": folders,
		"files":   len(results) - folders,
		"results": results,
	})
}

// handlePreview returns file metadata plus prev/next files of the same
// type in the directory, for modal navigation.
func (s *server) handlePreview(c *fiber.Ctx) error {
	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}

	filename := info.Name()
	fileType, _ := browse.Classify(filename)

	var prev, next *browse.Entry
	sameType := []browse.Entry{}
	currentIndex := -1

	if items, err := s.model.Contents(browse.ParentPath(safePath)); err == nil {
		sameType = browse.GroupByType(items)[fileType]
		for i, item := range sameType {
			if item.Path == safePath {
				currentIndex = i
				break
			}
		}
		if currentIndex > 0 {
			prev = &sameType[currentIndex-1]
		}
		if currentIndex >= 0 && currentIndex < len(sameType)-1 {
			next = &sameType[currentIndex+1]
		}
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"filename":      filename,
		"file_path":     safePath,
		"file_type":     fileType,
		"file_size":     browse.FormatSize(info.Size()),
		"mime_type":     stream.ResolveMIME(full),
		"prev_file":     prev,
		"next_file":     next,
		"total_files":   len(sameType),
		"current_index": currentIndex + 1,
	})
}

// handleFileContent returns the raw content of a text file for inline
// preview, capped by the configured preview size.
func (s *server) handleFileContent(c *fiber.Ctx) error {
	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}
	if info.Size() > s.cfg.Perf.MaxPreviewBytes {
		return c.JSON(fiber.Map{"error": "File too large for preview", "size": info.Size()})
	}
	if !browse.IsText(full) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is not a text file"})
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "content": string(content)})
}

// handleDirectoryFiles lists only the files of a directory with their
// serve/stream URLs, for playlist navigation.
func (s *server) handleDirectoryFiles(c *fiber.Ctx) error {
	safePath := pathParam(c)

	items, err := s.model.Contents(safePath)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	files := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		entry := fiber.Map{
			"name": item.Name,
			"type": item.Type,
			"icon": item.Icon,
			"size": item.Size,
			"path": item.Path,
			"url":  "/file?path=" + url.QueryEscape(item.Path),
		}
		if item.Type == browse.TypeVideo || item.Type == browse.TypeAudio {
			entry["stream_url"] = "/stream?path=" + url.QueryEscape(item.Path)
		} else {
			entry["stream_url"] = nil
		}
		files = append(files, entry)
	}

	return c.JSON(fiber.Map{"files": files})
}

func (s *server) handleModifications(c *fiber.Ctx) error {
	n := c.QueryInt("n", 50)
	records, err := s.mods.Recent(n)
	if err != nil {
		s.log.Error("failed to read modification log", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read log"})
	}
	return c.JSON(fiber.Map{"modifications": records})
}
