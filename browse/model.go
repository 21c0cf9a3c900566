package browse

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Error kinds surfaced by the model. Mid-scan failures on individual
// entries are skipped instead; partial results beat total failure.
var (
	ErrNotFound      = errors.New("path not found")
	ErrNotADirectory = errors.New("path is not a directory")
	ErrPermission    = errors.New("permission denied")
)

// DefaultCacheTTL is the base TTL for directory listings. The folder
// size and search caches live 5x longer.
const DefaultCacheTTL = 10 * time.Second

const sizeCacheFactor = 5

// Options tunes a Model.
type Options struct {
	CacheTTL          time.Duration
	DisableFolderSize bool
}

// Model serves cached directory listings, folder sizes and searches for
// a single root. All caches are safe for concurrent request handlers.
type Model struct {
	root              string
	ttl               time.Duration
	disableFolderSize bool
	log               *zap.Logger

	contents *ttlCache[[]Entry]
	sizes    *ttlCache[int64]
	searches *ttlCache[[]Entry]

	sizeGroup singleflight.Group
	sizeQueue chan string
	pending   *pendingSet
	done      chan struct{}
}

// NewModel creates a Model rooted at root and starts the background
// size worker. Close releases it.
func NewModel(root string, opts Options, log *zap.Logger) *Model {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &Model{
		root:              root,
		ttl:               opts.CacheTTL,
		disableFolderSize: opts.DisableFolderSize,
		log:               log,
		contents:          newTTLCache[[]Entry](opts.CacheTTL),
		sizes:             newTTLCache[int64](opts.CacheTTL * sizeCacheFactor),
		searches:          newTTLCache[[]Entry](opts.CacheTTL),
		sizeQueue:         make(chan string, 128),
		pending:           newPendingSet(),
		done:              make(chan struct{}),
	}
	go m.sizeWorker()
	return m
}

// Close stops the background size worker.
func (m *Model) Close() {
	close(m.done)
}

// Root returns the absolute root directory the model serves.
func (m *Model) Root() string {
	return m.root
}

// FullPath resolves a cleaned logical path against the root.
func (m *Model) FullPath(logical string) string {
	return filepath.Join(m.root, filepath.FromSlash(logical))
}

// Contents returns the immediate children of the folder at the logical
// path, folders first, then case-insensitive by name. Results are
// cached for the configured TTL; a hit returns the cached listing even
// if the filesystem changed in between. Folder sizes are a loading
// placeholder, never computed here.
func (m *Model) Contents(logical string) ([]Entry, error) {
	if items, ok := m.contents.get(logical); ok {
		return items, nil
	}

	full := m.FullPath(logical)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermission
		}
		return nil, ErrNotFound
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	dirEntries, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermission
		}
		return nil, ErrNotFound
	}

	items := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if isHidden(name) {
			continue
		}

		if de.IsDir() {
			items = append(items, m.folderPlaceholder(name, logical))
			continue
		}

		fi, err := de.Info()
		if err != nil {
			m.log.Debug("skipping unreadable entry", zap.String("name", name), zap.Error(err))
			continue
		}
		items = append(items, m.fileEntry(name, logical, fi.Size(), fi.ModTime().Unix()))
	}

	sortEntries(items)
	m.contents.put(logical, items)
	return items, nil
}

// Invalidate drops the cached listing and folder size for a logical
// path. Callers must invoke it for the affected parent folder after any
// mutation; the model does not watch the filesystem.
func (m *Model) Invalidate(logical string) {
	m.contents.delete(logical)
	m.sizes.delete(logical)
}

// folderPlaceholder builds a folder entry with the size still unknown.
func (m *Model) folderPlaceholder(name, parent string) Entry {
	logical := joinLogical(parent, name)
	return Entry{
		Name:        name,
		Type:        TypeFolder,
		Icon:        Icon(TypeFolder),
		Size:        "...",
		Path:        logical,
		SizeBytes:   -1,
		Modified:    m.modifiedAt(logical),
		LoadingSize: true,
	}
}

// folderEntry builds a folder entry with a computed aggregate size.
func (m *Model) folderEntry(name, parent string, size int64) Entry {
	logical := joinLogical(parent, name)
	return Entry{
		Name:      name,
		Type:      TypeFolder,
		Icon:      Icon(TypeFolder),
		Size:      FormatSize(size),
		Path:      logical,
		SizeBytes: size,
		FileCount: m.countFiles(logical),
		Modified:  m.modifiedAt(logical),
	}
}

func (m *Model) fileEntry(name, parent string, size, modified int64) Entry {
	typ, icon := Classify(name)
	return Entry{
		Name:      name,
		Type:      typ,
		Icon:      icon,
		Size:      FormatSize(size),
		Path:      joinLogical(parent, name),
		SizeBytes: size,
		Modified:  modified,
	}
}

// modifiedAt returns the mtime for a logical path, 0 if unreadable.
func (m *Model) modifiedAt(logical string) int64 {
	info, err := os.Stat(m.FullPath(logical))
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
