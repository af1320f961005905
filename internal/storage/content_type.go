package storage

import (
	"path/filepath"
	"strings"
)

// ContentTypeFor derives the served content type from the key extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
