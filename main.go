package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"file-server/browse"
	"file-server/config"
	"file-server/modlog"
)

// Version information - these will be set at build time
var (
	version   = "0.3.0"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// server bundles the shared dependencies of all request handlers.
type server struct {
	cfg   *config.Config
	log   *zap.Logger
	model *browse.Model
	mods  *modlog.Log

	// Tracks in-flight mutations for graceful shutdown.
	fileOps sync.WaitGroup
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the environment.
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit")
	flag.StringVar(&cfg.Files.RootDrive, "path", cfg.Files.RootDrive, "Root path to serve files from")
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Port to listen on")
	flag.BoolVar(&cfg.Files.WriteMode, "write", cfg.Files.WriteMode, "Enable write mode (allows file operations)")
	flag.Parse()

	if showVersion {
		fmt.Printf("file-server version %s\n", version)
		fmt.Printf("Build date: %s\n", buildDate)
		fmt.Printf("Git commit: %s\n", gitCommit)
		return
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	absRoot, err := filepath.Abs(cfg.Files.RootDrive)
	if err != nil {
		logger.Fatal("invalid root path", zap.Error(err))
	}
	cfg.Files.RootDrive = absRoot

	model := browse.NewModel(absRoot, browse.Options{
		CacheTTL:          time.Duration(cfg.Perf.CacheTimeoutSec) * time.Second,
		DisableFolderSize: cfg.Perf.DisableFolderSize,
	}, logger)
	defer model.Close()

	mods, err := modlog.Open(cfg.Files.ModLogPath)
	if err != nil {
		logger.Fatal("failed to open modification log", zap.Error(err))
	}
	defer mods.Close()

	s := &server{cfg: cfg, log: logger, model: model, mods: mods}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Files.MaxUploadSize),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error",
				"error":  "Internal Server Error",
			})
		},
	})
	app.Use(cors.New())

	// Browsing and search
	app.Get("/api/browse", s.handleBrowse)
	app.Get("/api/folder_size", s.handleFolderSize)
	app.Get("/api/search", s.handleSearch)
	app.Get("/api/preview", s.handlePreview)
	app.Get("/api/file_content", s.handleFileContent)
	app.Get("/api/directory_files", s.handleDirectoryFiles)
	app.Get("/api/modifications", s.handleModifications)

	// File delivery
	app.Get("/file", s.handleFile)
	app.Get("/stream", s.handleStream)
	app.Get("/download", s.handleDownload)
	app.Get("/zip", s.handleZipDownload)

	// Mutations (write mode only)
	app.Post("/api/upload", s.requireWrite, s.handleUpload)
	app.Post("/api/create_folder", s.requireWrite, s.handleCreateFolder)
	app.Post("/api/create_file", s.requireWrite, s.handleCreateFile)
	app.Delete("/api/delete", s.requireWrite, s.handleDelete)
	app.Post("/api/copy", s.requireWrite, s.handleCopy)
	app.Post("/api/move", s.requireWrite, s.handleMove)
	app.Post("/api/rename", s.requireWrite, s.handleRename)
	s.setupTusUpload(app)

	// WebSocket upgrade middleware
	app.Use("/ws/files", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/files", websocket.New(s.handleWebSocket))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("root", absRoot),
			zap.Bool("write_mode", cfg.Files.WriteMode))
		if err := app.Listen(addr); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("received interrupt, waiting for in-progress operations")
	s.fileOps.Wait()

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	logger.Info("shut down")
}
