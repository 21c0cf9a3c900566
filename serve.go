package main

import (
	"archive/zip"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"file-server/browse"
	"file-server/stream"
)

// handleFile serves a file for viewing in the browser. Media files are
// redirected to the range-aware streaming endpoint so players can seek.
func (s *server) handleFile(c *fiber.Ctx) error {
	return s.sendInline(c, pathParam(c))
}

func (s *server) sendInline(c *fiber.Ctx, safePath string) error {
	full := s.model.FullPath(safePath)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	if browse.IsMedia(full) {
		return c.Redirect("/stream?path=" + url.QueryEscape(safePath))
	}

	if err := c.SendFile(full); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}
	if browse.IsText(full) {
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	} else {
		c.Set(fiber.HeaderContentType, stream.ResolveMIME(full))
	}
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+info.Name()+`"`)
	return nil
}

// handleStream delivers file bytes with range support, forwarding the
// incoming Range header to the streamer.
func (s *server) handleStream(c *fiber.Ctx) error {
	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	resp, err := stream.Open(full, c.Get(fiber.HeaderRange))
	if err != nil {
		if errors.Is(err, stream.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("File not found")
		}
		return err
	}

	for key, value := range resp.Headers {
		c.Set(key, value)
	}
	c.Set(fiber.HeaderContentType, resp.ContentType)
	c.Status(resp.Status)
	return c.SendStream(resp.Body, int(resp.Length))
}

// handleDownload forces a download of the file.
func (s *server) handleDownload(c *fiber.Ctx) error {
	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	if err := c.SendFile(full); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+info.Name()+`"`)
	if strings.EqualFold(filepath.Ext(full), ".mkv") {
		c.Set(fiber.HeaderContentType, "video/x-matroska")
	}
	return nil
}

// handleZipDownload streams a folder as a zip archive, writing entries
// straight into the response body instead of buffering the archive.
func (s *server) handleZipDownload(c *fiber.Ctx) error {
	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	info, err := os.Stat(full)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Path not found")
	}
	if !info.IsDir() {
		return c.Status(fiber.StatusBadRequest).SendString("Path must be a directory")
	}

	zipName := filepath.Base(full)
	if safePath == "" {
		zipName = "root"
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+zipName+`.zip"`)

	zipWriter := zip.NewWriter(c.Response().BodyWriter())
	defer zipWriter.Close()

	err = filepath.Walk(full, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are left out of the archive.
			return nil
		}

		if strings.HasPrefix(filepath.Base(path), ".") {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(full, path)
		if err != nil || relPath == "." {
			return nil
		}

		header, err := zip.FileInfoHeader(fi)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		if fi.IsDir() {
			header.Name += "/"
		} else {
			header.Method = zip.Deflate
		}

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		s.log.Error("zip archive failed", zap.String("path", safePath), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create zip archive")
	}

	return nil
}
