// Package browse implements the file tree model: directory listings with
// a TTL cache, lazily computed folder sizes, and recursive name search.
package browse

import (
	"sort"
	"strings"
)

// EntryType is the semantic category of a directory entry, derived from
// its extension. Folders always report TypeFolder.
type EntryType string

const (
	TypeFolder     EntryType = "folder"
	TypeVideo      EntryType = "video"
	TypeAudio      EntryType = "audio"
	TypeImage      EntryType = "image"
	TypeDocument   EntryType = "document"
	TypeText       EntryType = "text"
	TypeArchive    EntryType = "archive"
	TypeCode       EntryType = "code"
	TypeExecutable EntryType = "executable"
	TypeOther      EntryType = "other"
)

// Entry is one directory child. Path is the logical forward-slash path
// relative to the root. SizeBytes is -1 for folders whose size has not
// been computed yet; Size then carries the loading placeholder.
type Entry struct {
	Name        string    `json:"name"`
	Type        EntryType `json:"type"`
	Icon        string    `json:"icon"`
	Size        string    `json:"size"`
	Path        string    `json:"path"`
	SizeBytes   int64     `json:"raw_size"`
	FileCount   int       `json:"file_count,omitempty"`
	Modified    int64     `json:"modified"`
	LoadingSize bool      `json:"loading_size,omitempty"`
}

// IsDir reports whether the entry is a folder.
func (e Entry) IsDir() bool {
	return e.Type == TypeFolder
}

// sortEntries orders folders before files, then case-insensitive
// ascending by name within each group.
func sortEntries(items []Entry) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].IsDir(), items[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// TypeCounts aggregates listing statistics per entry type.
type TypeCounts struct {
	Folders   int `json:"folders"`
	Videos    int `json:"videos"`
	Audios    int `json:"audios"`
	Images    int `json:"images"`
	Documents int `json:"documents"`
	Text      int `json:"text"`
	Others    int `json:"others"`
}

// CountTypes tallies entries per type. Archives, code and executables
// fold into Others.
func CountTypes(items []Entry) TypeCounts {
	var c TypeCounts
	for _, item := range items {
		switch item.Type {
		case TypeFolder:
			c.Folders++
		case TypeVideo:
			c.Videos++
		case TypeAudio:
			c.Audios++
		case TypeImage:
			c.Images++
		case TypeDocument:
			c.Documents++
		case TypeText:
			c.Text++
		default:
			c.Others++
		}
	}
	return c
}

// GroupByType groups non-folder entries by type, each group sorted
// case-insensitively by name. Used for preview navigation.
func GroupByType(items []Entry) map[EntryType][]Entry {
	groups := make(map[EntryType][]Entry)
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		groups[item.Type] = append(groups[item.Type], item)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return strings.ToLower(group[i].Name) < strings.ToLower(group[j].Name)
		})
	}
	return groups
}
