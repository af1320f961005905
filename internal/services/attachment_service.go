package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/storage"
	"github.com/yukikurage/bug-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported screenshot extension")
	ErrAttachmentTooLarge   = errors.New("screenshot exceeds the size limit")
	ErrScreenshotNotFound   = errors.New("screenshot not found")
)

// allowedExtensions is compared against the lower-cased client extension.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsSkip reports whether err rejects a single attachment without failing the request.
func IsSkip(err error) bool {
	return errors.Is(err, ErrUnsupportedExtension) || errors.Is(err, ErrAttachmentTooLarge)
}

// AttachmentService validates screenshot uploads and moves their bytes in and out of the blob store
type AttachmentService struct {
	store    storage.BlobStore
	bugRepo  repository.BugRepository
	maxBytes int64
}

// NewAttachmentService creates a new AttachmentService. A non-positive
// maxBytes uses models.MaxScreenshotSize.
func NewAttachmentService(store storage.BlobStore, bugRepo repository.BugRepository, maxBytes int64) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = models.MaxScreenshotSize
	}
	return &AttachmentService{
		store:    store,
		bugRepo:  bugRepo,
		maxBytes: maxBytes,
	}
}

// Accept stores one upload under <bug_id>/<uuid><ext> and returns the unsaved
// screenshot record. The size is measured on the bytes actually read.
func (s *AttachmentService) Accept(ctx context.Context, bugID string, r io.Reader, clientFilename string) (*models.Screenshot, error) {
	original := utils.BaseFilename(clientFilename)
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, original)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", original, err)
	}
	if n > s.maxBytes {
		return nil, fmt.Errorf("%w: %q is larger than %d bytes", ErrAttachmentTooLarge, original, s.maxBytes)
	}

	screenshot := &models.Screenshot{
		BugID:            bugID,
		Filename:         utils.NewStorageName(original),
		OriginalFilename: original,
		FileSize:         n,
	}

	key := screenshot.StorageKey()
	if err := s.store.Put(ctx, key, &buf, n, storage.ContentTypeFor(key)); err != nil {
		return nil, fmt.Errorf("failed to store screenshot: %w", err)
	}

	return screenshot, nil
}

// Open streams a screenshot after checking that the bug owns it. Callers must close the reader.
func (s *AttachmentService) Open(ctx context.Context, bugID, filename string) (io.ReadCloser, storage.Object, error) {
	screenshot, err := s.bugRepo.FindScreenshot(ctx, bugID, filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.Object{}, ErrScreenshotNotFound
		}
		return nil, storage.Object{}, fmt.Errorf("failed to find screenshot: %w", err)
	}

	rc, obj, err := s.store.Open(ctx, screenshot.StorageKey())
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, storage.Object{}, ErrScreenshotNotFound
		}
		return nil, storage.Object{}, fmt.Errorf("failed to open screenshot: %w", err)
	}
	return rc, obj, nil
}

// DeleteAll removes every stored file of a bug
func (s *AttachmentService) DeleteAll(ctx context.Context, bugID string) error {
	if err := s.store.DeletePrefix(ctx, bugID); err != nil {
		return fmt.Errorf("failed to delete screenshots of bug %s: %w", bugID, err)
	}
	return nil
}
