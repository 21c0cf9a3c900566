package browse

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// sizeWalkDepth bounds the background aggregate walk: directories whose
// relative path carries more than this many separators are pruned, so
// files past that point are not counted.
const sizeWalkDepth = 3

// SizeInfo is the lazy folder size answer. FileCount is an int once the
// size is known and the "..." placeholder while it is being computed.
type SizeInfo struct {
	Size      string `json:"size"`
	FileCount any    `json:"file_count"`
}

// pendingSet tracks paths queued for background size computation so
// repeated polls do not enqueue duplicate work.
type pendingSet struct {
	mu    sync.Mutex
	paths map[string]bool
}

func newPendingSet() *pendingSet {
	return &pendingSet{paths: make(map[string]bool)}
}

// add marks a path pending; false means it was already queued.
func (p *pendingSet) add(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paths[path] {
		return false
	}
	p.paths[path] = true
	return true
}

func (p *pendingSet) remove(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.paths, path)
}

// SizeLazy returns the cached aggregate size of a folder together with
// its direct-children file count. On a cold path it schedules the
// computation on the background worker and returns the calculating
// sentinel; callers poll again later.
func (m *Model) SizeLazy(logical string) SizeInfo {
	if m.disableFolderSize {
		return SizeInfo{Size: "0 B", FileCount: 0}
	}

	size, ok := m.sizes.get(logical)
	if !ok {
		m.scheduleSize(logical)
		return SizeInfo{Size: "Calculating...", FileCount: "..."}
	}

	return SizeInfo{Size: FormatSize(size), FileCount: m.countFiles(logical)}
}

// Size synchronously computes the total size of the folder's direct
// child files only (no recursion), cached with the size-cache TTL.
// Concurrent calls for the same path share one computation.
func (m *Model) Size(logical string) int64 {
	if m.disableFolderSize {
		return 0
	}
	if size, ok := m.sizes.get(logical); ok {
		return size
	}

	v, _, _ := m.sizeGroup.Do(logical, func() (any, error) {
		size := m.shallowSize(logical)
		m.sizes.put(logical, size)
		return size, nil
	})
	return v.(int64)
}

// scheduleSize queues a path for the single background worker. A full
// queue drops the request; the next poll re-schedules it.
func (m *Model) scheduleSize(logical string) {
	if !m.pending.add(logical) {
		return
	}
	select {
	case m.sizeQueue <- logical:
	default:
		m.pending.remove(logical)
	}
}

// sizeWorker is the single goroutine that runs aggregate size walks.
// Serializing them avoids redundant concurrent scans of the same tree.
func (m *Model) sizeWorker() {
	for {
		select {
		case logical := <-m.sizeQueue:
			size := m.deepSize(logical)
			m.sizes.put(logical, size)
			m.pending.remove(logical)
			m.log.Debug("folder size computed",
				zap.String("path", logical), zap.Int64("size", size))
		case <-m.done:
			return
		}
	}
}

// deepSize walks the subtree under the folder summing file sizes,
// capped at sizeWalkDepth levels. Unreadable entries are skipped; a
// failed walk yields 0 so the result still lands in the cache.
func (m *Model) deepSize(logical string) int64 {
	full := m.FullPath(logical)

	var total atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, full, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(full, p)
		if relErr != nil {
			return nil
		}
		depth := strings.Count(rel, string(os.PathSeparator))
		if d.IsDir() {
			// A directory at the cap is still visited so its files
			// count; only deeper ones are pruned.
			if depth > sizeWalkDepth {
				return fs.SkipDir
			}
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		total.Add(info.Size())
		return nil
	})
	if err != nil {
		return 0
	}
	return total.Load()
}

// shallowSize sums the sizes of the folder's direct child files.
func (m *Model) shallowSize(logical string) int64 {
	entries, err := os.ReadDir(m.FullPath(logical))
	if err != nil {
		return 0
	}

	var total int64
	for _, de := range entries {
		if de.IsDir() || de.Type()&fs.ModeSymlink != 0 {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// countFiles counts the folder's direct child files (not recursive).
// Symlinks are resolved so a link to a directory does not count.
func (m *Model) countFiles(logical string) int {
	full := m.FullPath(logical)
	entries, err := os.ReadDir(full)
	if err != nil {
		return 0
	}

	count := 0
	for _, de := range entries {
		if de.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(full, de.Name()))
			if err == nil && !info.IsDir() {
				count++
			}
			continue
		}
		if !de.IsDir() {
			count++
		}
	}
	return count
}
