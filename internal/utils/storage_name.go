package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewStorageName returns a collision resistant file name that keeps only the
// lower-cased extension of the client supplied name.
func NewStorageName(clientFilename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(clientFilename))
}

// BaseFilename strips any directory components a client may have sent,
// including Windows style separators.
func BaseFilename(clientFilename string) string {
	name := strings.ReplaceAll(clientFilename, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
