package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/tus/tusd/pkg/filestore"
	"github.com/tus/tusd/pkg/handler"
	"go.uber.org/zap"

	"file-server/browse"
)

func (s *server) handleUpload(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "No files provided",
		})
	}
	files := form.File["files[]"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "No files provided",
		})
	}

	target := pathParam(c)
	targetDir := s.model.FullPath(target)
	if info, statErr := os.Stat(targetDir); statErr != nil || !info.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error",
			"error":  "Target folder not found",
		})
	}

	var saved, errs []string
	for _, file := range files {
		name := browse.SanitizeFilename(file.Filename)
		if file.Size > s.cfg.Files.MaxUploadSize {
			errs = append(errs, fmt.Sprintf("%s: file too large", name))
			continue
		}
		name = browse.UniqueFilename(targetDir, name)
		if err := c.SaveFile(file, filepath.Join(targetDir, name)); err != nil {
			s.log.Error("upload failed", zap.String("file", name), zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		saved = append(saved, name)
	}

	s.model.Invalidate(target)
	s.logMutation("upload", saved, target, errs)
	s.log.Info("upload finished",
		zap.String("target", target),
		zap.Int("saved", len(saved)),
		zap.Int("errors", len(errs)))

	return c.JSON(fiber.Map{
		"success":       len(errs) == 0,
		"uploaded":      saved,
		"errors":        errs,
		"total":         len(files),
		"success_count": len(saved),
		"error_count":   len(errs),
	})
}

func (s *server) handleCreateFolder(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	var req struct {
		FolderName string `json:"folder_name"`
	}
	if err := c.BodyParser(&req); err != nil || req.FolderName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "Folder name is required",
		})
	}

	name := browse.SanitizeFilename(req.FolderName)
	target := pathParam(c)
	full := filepath.Join(s.model.FullPath(target), name)

	if _, err := os.Stat(full); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "A folder with that name already exists",
		})
	}
	if err := os.Mkdir(full, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	s.model.Invalidate(target)
	s.logMutation("create_folder", []string{name}, target, nil)
	return c.JSON(fiber.Map{"success": true, "name": name})
}

func (s *server) handleCreateFile(c *fiber.Ctx) error {
	s.fileOps.Add(1)
	defer s.fileOps.Done()

	var req struct {
		Filename string `json:"filename"`
	}
	if err := c.BodyParser(&req); err != nil || req.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "Filename is required",
		})
	}

	name := browse.SanitizeFilename(req.Filename)
	target := pathParam(c)
	full := filepath.Join(s.model.FullPath(target), name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "A file with that name already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}
	f.Close()

	s.model.Invalidate(target)
	s.logMutation("create_file", []string{name}, target, nil)
	return c.JSON(fiber.Map{"success": true, "name": name})
}

// setupTusUpload mounts a resumable upload endpoint. Completed uploads
// are moved from the staging directory into the browse root using the
// relativePath and filename upload metadata.
func (s *server) setupTusUpload(app *fiber.App) {
	if !s.cfg.Files.WriteMode {
		return
	}

	uploadsDir := s.cfg.Files.UploadsDir
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		s.log.Error("failed to create uploads directory", zap.String("dir", uploadsDir), zap.Error(err))
		return
	}

	store := filestore.New(uploadsDir)
	composer := handler.NewStoreComposer()
	store.UseIn(composer)

	tusHandler, err := handler.NewHandler(handler.Config{
		StoreComposer:         composer,
		NotifyCompleteUploads: true,
		BasePath:              "/upload/tus/",
	})
	if err != nil {
		s.log.Error("unable to create resumable upload handler", zap.Error(err))
		return
	}

	go func() {
		for event := range tusHandler.CompleteUploads {
			info := event.Upload
			targetPath := browse.CleanPath(info.MetaData["relativePath"])
			filename := browse.SanitizeFilename(info.MetaData["filename"])

			tempFile := filepath.Join(uploadsDir, info.ID)
			finalPath := filepath.Join(s.model.FullPath(targetPath), filename)

			if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
				s.log.Error("failed to prepare upload target", zap.String("path", finalPath), zap.Error(err))
				continue
			}
			if err := move(tempFile, finalPath); err != nil {
				s.log.Error("failed to move completed upload", zap.String("id", info.ID), zap.Error(err))
				continue
			}
			os.Remove(tempFile + ".info")

			s.model.Invalidate(targetPath)
			s.logMutation("upload", []string{filename}, targetPath, nil)
			s.log.Info("resumable upload completed",
				zap.String("id", info.ID),
				zap.String("file", filename),
				zap.String("target", targetPath))
		}
	}()

	group := app.Group("/upload/tus/", adaptor.HTTPMiddleware(tusHandler.Middleware))
	group.Post("", adaptor.HTTPHandlerFunc(tusHandler.PostFile))
	group.Head(":id", adaptor.HTTPHandlerFunc(tusHandler.HeadFile))
	group.Patch(":id", adaptor.HTTPHandlerFunc(tusHandler.PatchFile))
	group.Get(":id", adaptor.HTTPHandlerFunc(tusHandler.GetFile))
	group.Delete(":id", adaptor.HTTPHandlerFunc(tusHandler.DelFile))
}
