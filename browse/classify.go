package browse

import (
	"path/filepath"
	"strings"
)

// category ordering matters: extensions appearing in several categories
// resolve to the first one listed (e.g. ".txt" is a document, not text).
type category struct {
	typ  EntryType
	exts map[string]bool
}

var categories = []category{
	{TypeVideo, extSet(".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg")},
	{TypeAudio, extSet(".mp3", ".wav", ".ogg", ".flac", ".aac", ".wma", ".m4a")},
	{TypeImage, extSet(".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg", ".tiff", ".ico")},
	{TypeDocument, extSet(
		".pdf", ".doc", ".docx", ".dot", ".dotx", ".docm", ".dotm",
		".xls", ".xlsx", ".xlsm", ".xlt", ".xltx", ".xltm", ".xlsb", ".xlam",
		".ppt", ".pptx", ".pptm", ".pot", ".potx", ".potm", ".pps", ".ppsx", ".ppsm",
		".odt", ".ods", ".odp", ".odg", ".odf",
		".rtf", ".txt", ".csv", ".tsv", ".xml", ".json", ".yaml", ".yml")},
	{TypeText, extSet(".txt", ".py", ".js", ".html", ".css", ".json", ".xml", ".csv", ".md", ".log", ".ini", ".cfg", ".conf", ".yaml", ".yml")},
	{TypeArchive, extSet(".zip", ".rar", ".7z", ".tar", ".gz", ".bz2")},
	{TypeCode, extSet(".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".php", ".rb", ".go", ".rs", ".ts", ".swift", ".kt", ".scala")},
	{TypeExecutable, extSet(".exe", ".msi", ".bat", ".sh", ".bin", ".app")},
}

var icons = map[EntryType]string{
	TypeFolder:     "📁",
	TypeVideo:      "🎬",
	TypeAudio:      "🎵",
	TypeImage:      "🖼️",
	TypeDocument:   "📄",
	TypeText:       "📝",
	TypeArchive:    "📦",
	TypeCode:       "💻",
	TypeExecutable: "⚙️",
	TypeOther:      "📄",
}

func extSet(exts ...string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[ext] = true
	}
	return set
}

// Classify determines the entry type and icon for a filename based on
// its extension. Case-insensitive; unknown or missing extensions
// classify as TypeOther.
func Classify(filename string) (EntryType, string) {
	if filename == "" {
		return TypeOther, icons[TypeOther]
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return TypeOther, icons[TypeOther]
	}
	for _, cat := range categories {
		if cat.exts[ext] {
			return cat.typ, icons[cat.typ]
		}
	}
	return TypeOther, icons[TypeOther]
}

// Icon returns the display icon for an entry type.
func Icon(typ EntryType) string {
	if icon, ok := icons[typ]; ok {
		return icon
	}
	return icons[TypeOther]
}

// IsMedia reports whether the filename is a streamable video or audio
// file.
func IsMedia(filename string) bool {
	typ, _ := Classify(filename)
	return typ == TypeVideo || typ == TypeAudio
}

// textExtensions are served and previewed as plain text.
var textExtensions = extSet(".txt", ".py", ".js", ".html", ".css", ".json", ".xml", ".csv", ".md", ".log", ".ini", ".cfg", ".conf")

// IsText reports whether the filename can be previewed as text.
func IsText(filename string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(filename))]
}
