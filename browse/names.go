package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dangerousChars = `<>:"/\|?*=`

// SanitizeFilename strips path separators and other dangerous
// characters from an upload filename. An empty result gets a generated
// fallback name so uploads never fail on naming alone.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return fmt.Sprintf("file_%d", time.Now().Unix())
	}

	filename = strings.ReplaceAll(filename, "\x00", "")
	for _, ch := range dangerousChars {
		filename = strings.ReplaceAll(filename, string(ch), "_")
	}
	filename = strings.Trim(filename, ". ")

	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		filename = name[:250-len(ext)] + ext
	}

	if filename == "" {
		filename = fmt.Sprintf("file_%s_%d", uuid.NewString()[:8], time.Now().Unix())
	}
	return filename
}

// UniqueFilename returns filename, or name_N.ext with the first free N
// when the name is already taken in dir.
func UniqueFilename(dir, filename string) string {
	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		return filename
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", name, counter, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); err != nil {
			return candidate
		}
	}
}
