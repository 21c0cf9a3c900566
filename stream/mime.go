package stream

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// defaultMIME is the catch-all content type.
const defaultMIME = "application/octet-stream"

// mimeTypes maps extensions to content types for serving. Browsers need
// these to pick the right player/viewer.
var mimeTypes = map[string]string{
	// Video
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",

	// Audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".wma":  "audio/x-ms-wma",
	".m4a":  "audio/mp4",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".ico":  "image/x-icon",

	// Documents
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".odp":  "application/vnd.oasis.opendocument.presentation",
	".rtf":  "application/rtf",

	// Text and code
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".py":   "text/x-python",
	".go":   "text/x-go",
	".rs":   "text/rust",
	".ts":   "application/typescript",

	// Archives
	".zip": "application/zip",
	".rar": "application/x-rar-compressed",
	".7z":  "application/x-7z-compressed",
	".tar": "application/x-tar",
	".gz":  "application/gzip",

	// Executables
	".exe": "application/x-msdownload",
	".msi": "application/x-msi",
	".sh":  "application/x-shellscript",
	".bin": defaultMIME,
}

// ResolveMIME picks the content type for a file. MKV always reports
// video/x-matroska regardless of the generic table; unknown extensions
// fall back to content sniffing, then to application/octet-stream.
func ResolveMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".mkv" {
		return "video/x-matroska"
	}
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	if detected, err := mimetype.DetectFile(path); err == nil {
		return detected.String()
	}
	return defaultMIME
}
