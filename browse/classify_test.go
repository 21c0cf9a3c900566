package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		expected EntryType
	}{
		{"movie.mp4", TypeVideo},
		{"MOVIE.MKV", TypeVideo},
		{"song.mp3", TypeAudio},
		{"photo.jpeg", TypeImage},
		{"report.pdf", TypeDocument},
		{"sheet.xlsx", TypeDocument},
		// .txt sits in both the document and text sets; the document
		// category is checked first and wins.
		{"notes.txt", TypeDocument},
		{"data.json", TypeDocument},
		// .py is text before it is code.
		{"script.py", TypeText},
		{"readme.md", TypeText},
		{"main.go", TypeCode},
		{"backup.tar", TypeArchive},
		{"setup.exe", TypeExecutable},
		{"mystery.xyz", TypeOther},
		{"no_extension", TypeOther},
		{"", TypeOther},
	}

	for _, tt := range tests {
		typ, icon := Classify(tt.filename)
		assert.Equal(t, tt.expected, typ, "Classify(%q)", tt.filename)
		assert.NotEmpty(t, icon, "Classify(%q) icon", tt.filename)
	}
}

func TestIsMedia(t *testing.T) {
	assert.True(t, IsMedia("clip.mp4"))
	assert.True(t, IsMedia("track.flac"))
	assert.False(t, IsMedia("photo.png"))
	assert.False(t, IsMedia("notes.txt"))
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText("notes.txt"))
	assert.True(t, IsText("config.INI"))
	assert.False(t, IsText("movie.mp4"))
	assert.False(t, IsText("archive.zip"))
}
