package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/otiai10/copy"
	"go.uber.org/zap"

	"file-server/browse"
)

// move copies a file or directory to the destination and removes the
// source after a successful copy.
func move(src, dst string) error {
	if err := copy.Copy(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// requireWrite is route middleware that rejects mutations unless write
// mode is enabled.
func (s *server) requireWrite(c *fiber.Ctx) error {
	if s.cfg.Files.WriteMode {
		return c.Next()
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"status": "error",
		"error":  "File operations are disabled. Use --write flag to enable write mode",
	})
}

// logMutation appends the operation to the audit log and reports
// failures without failing the request.
func (s *server) logMutation(action string, sources []string, dest string, errs []string) {
	if err := s.mods.Append(action, sources, dest, errs); err != nil {
		s.log.Error("failed to log modification", zap.String("action", action), zap.Error(err))
	}
}

func (s *server) handleDelete(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	safePath := pathParam(c)
	full := s.model.FullPath(safePath)

	if _, err := os.Stat(full); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error",
			"error":  "File not found",
		})
	}

	if err := os.RemoveAll(full); err != nil {
		s.log.Error("delete failed", zap.String("path", safePath), zap.Error(err))
		s.logMutation("delete", []string{safePath}, "", []string{err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	parent := browse.ParentPath(safePath)
	s.model.Invalidate(parent)
	s.model.Invalidate(safePath)
	s.logMutation("delete", []string{safePath}, "", nil)
	s.log.Info("deleted", zap.String("path", safePath))

	return c.JSON(fiber.Map{"success": true, "message": "Deleted successfully"})
}

type transferRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Overwrite   bool   `json:"overwrite"`
}

// prepareTransfer validates a copy/move request and resolves the target
// path (destination folder + source base name). On failure the error
// response is already written and ok is false.
func (s *server) prepareTransfer(c *fiber.Ctx, req *transferRequest) (src, target string, ok bool) {
	if err := c.BodyParser(req); err != nil || req.Source == "" || req.Destination == "" {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "Source and destination are required",
		})
		return "", "", false
	}

	req.Source = browse.CleanPath(req.Source)
	req.Destination = browse.CleanPath(req.Destination)

	src = s.model.FullPath(req.Source)
	if _, err := os.Stat(src); err != nil {
		c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error",
			"error":  "Source does not exist",
		})
		return "", "", false
	}

	target = filepath.Join(s.model.FullPath(req.Destination), filepath.Base(src))
	if _, err := os.Stat(target); err == nil && !req.Overwrite {
		c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status": "error",
			"error":  "Destination already exists",
		})
		return "", "", false
	}

	return src, target, true
}

func (s *server) handleCopy(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	var req transferRequest
	src, target, ok := s.prepareTransfer(c, &req)
	if !ok {
		return nil
	}

	if _, statErr := os.Stat(target); statErr == nil {
		if rmErr := os.RemoveAll(target); rmErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error",
				"error":  rmErr.Error(),
			})
		}
	}

	if err := copy.Copy(src, target); err != nil {
		s.logMutation("copy", []string{req.Source}, req.Destination, []string{err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	s.model.Invalidate(req.Destination)
	s.logMutation("copy", []string{req.Source}, req.Destination, nil)

	newPath := browse.CleanPath(req.Destination + "/" + filepath.Base(src))
	s.log.Info("copied", zap.String("source", req.Source), zap.String("dest", newPath))
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("Copied %s successfully", filepath.Base(src)),
		"new_path": newPath,
	})
}

func (s *server) handleMove(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	var req transferRequest
	src, target, ok := s.prepareTransfer(c, &req)
	if !ok {
		return nil
	}

	if _, statErr := os.Stat(target); statErr == nil {
		if rmErr := os.RemoveAll(target); rmErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error",
				"error":  rmErr.Error(),
			})
		}
	}

	if err := move(src, target); err != nil {
		s.logMutation("move", []string{req.Source}, req.Destination, []string{err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	s.model.Invalidate(browse.ParentPath(req.Source))
	s.model.Invalidate(req.Source)
	s.model.Invalidate(req.Destination)
	s.logMutation("move", []string{req.Source}, req.Destination, nil)

	newPath := browse.CleanPath(req.Destination + "/" + filepath.Base(src))
	s.log.Info("moved", zap.String("source", req.Source), zap.String("dest", newPath))
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("Moved %s successfully", filepath.Base(src)),
		"new_path": newPath,
	})
}

func (s *server) handleRename(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	var req struct {
		Path    string `json:"path"`
		NewName string `json:"newName"`
	}
	if err := c.BodyParser(&req); err != nil || req.Path == "" || req.NewName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "Path and newName are required",
		})
	}
	if strings.ContainsAny(req.NewName, `/\`) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "New name cannot contain path separators",
		})
	}

	safePath := browse.CleanPath(req.Path)
	oldFull := s.model.FullPath(safePath)
	newFull := filepath.Join(filepath.Dir(oldFull), req.NewName)

	if _, err := os.Stat(oldFull); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error",
			"error":  "File or folder not found",
		})
	}
	if _, err := os.Stat(newFull); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "A file or folder with that name already exists",
		})
	}

	if err := os.Rename(oldFull, newFull); err != nil {
		s.log.Error("rename failed", zap.String("path", safePath), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  fmt.Sprintf("Failed to rename: %v", err),
		})
	}

	parent := browse.ParentPath(safePath)
	s.model.Invalidate(parent)
	s.model.Invalidate(safePath)
	s.logMutation("rename", []string{safePath}, req.NewName, nil)

	newRelativePath := browse.CleanPath(parent + "/" + req.NewName)
	s.log.Info("renamed", zap.String("from", safePath), zap.String("to", newRelativePath))
	return c.JSON(fiber.Map{
		"status":  "success",
		"newPath": newRelativePath,
		"newName": req.NewName,
	})
}
