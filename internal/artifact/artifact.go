package artifact

import (
	"path/filepath"
	"strings"
	"time"
)

// Artifact describes one generated file.
type Artifact struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Command   string    `json:"command"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// KindOf classifies a file by extension.
func KindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image"
	case ".html", ".htm":
		return "chart"
	case ".csv", ".xlsx":
		return "data"
	case ".txt":
		return "report"
	default:
		return "file"
	}
}
