package browse

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultMaxResults bounds a search when the caller passes no limit.
const DefaultMaxResults = 1000

// searchSkipNames are never listed or matched.
var searchSkipNames = map[string]bool{
	"$RECYCLE.BIN":              true,
	"System Volume Information": true,
	"Thumbs.db":                 true,
}

// noRecurseNames are OS-reserved trees the walk never descends into.
// Matching is case-insensitive; this is a traversal bound, their own
// names can still match a query at the level they appear.
var noRecurseNames = map[string]bool{
	"windows":             true,
	"program files":       true,
	"program files (x86)": true,
	"system32":            true,
}

// Search walks the whole tree depth-first matching entry names against
// the query: glob-style when the query carries * or ? wildcards,
// case-insensitive substring otherwise. Results are capped at
// maxResults, cached per normalized query and ordered folders first,
// then case-insensitive by name. Queries shorter than two characters
// are rejected unless they contain a wildcard.
func (m *Model) Search(query string, maxResults int) []Entry {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	// Cached results expire at the base TTL; entries older than 5x the
	// base TTL are additionally dropped from the map on every call.
	m.searches.prune(m.ttl * sizeCacheFactor)

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Entry{}
	}
	hasWildcard := strings.ContainsAny(query, "*?")
	if !hasWildcard && len(query) < 2 {
		return []Entry{}
	}

	if cached, ok := m.searches.get(query); ok {
		return cached
	}

	results := make([]Entry, 0)

	// Explicit stack keeps deep trees off the call stack. Symlinked
	// directories report IsDir() false and are never pushed, which also
	// guards against symlink cycles.
	stack := []string{""}
	for len(stack) > 0 && len(results) < maxResults {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dirEntries, err := os.ReadDir(m.FullPath(dir))
		if err != nil {
			m.log.Debug("search skipping directory", zap.String("path", dir), zap.Error(err))
			continue
		}

		for _, de := range dirEntries {
			if len(results) >= maxResults {
				break
			}
			name := de.Name()
			if isHidden(name) || searchSkipNames[name] {
				continue
			}

			lower := strings.ToLower(name)
			matched := false
			if hasWildcard {
				matched, _ = doublestar.Match(query, lower)
			} else {
				matched = strings.Contains(lower, query)
			}

			if matched {
				if de.IsDir() {
					logical := joinLogical(dir, name)
					results = append(results, m.folderEntry(name, dir, m.Size(logical)))
				} else if info, err := de.Info(); err == nil {
					results = append(results, m.fileEntry(name, dir, info.Size(), info.ModTime().Unix()))
				}
			}

			if de.IsDir() && !noRecurseNames[lower] {
				stack = append(stack, joinLogical(dir, name))
			}
		}
	}

	sortEntries(results)
	m.searches.put(query, results)
	return results
}
