package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// BlobStore persists attachment bytes under slash separated keys.
type BlobStore interface {
	// Put writes the reader under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Open returns a reader for key. Callers must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)

	// DeletePrefix removes every object whose key lies under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CleanKey normalizes key and rejects anything that would escape the store root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, '\\') || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return cleaned, nil
}
