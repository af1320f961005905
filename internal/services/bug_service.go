package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// BugService handles bug report business logic
type BugService struct {
	bugRepo     repository.BugRepository
	productRepo repository.ProductRepository
	statusRepo  repository.StatusRepository
	attachments *AttachmentService
}

// NewBugService creates a new BugService
func NewBugService(
	bugRepo repository.BugRepository,
	productRepo repository.ProductRepository,
	statusRepo repository.StatusRepository,
	attachments *AttachmentService,
) *BugService {
	return &BugService{
		bugRepo:     bugRepo,
		productRepo: productRepo,
		statusRepo:  statusRepo,
		attachments: attachments,
	}
}

// Upload is one file of a bug submission
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// CreateBugInput represents input for submitting a bug
type CreateBugInput struct {
	ProductID     string
	Summary       string
	Description   string
	Severity      string
	ReporterName  *string
	ReporterEmail *string
	Uploads       []Upload
}

// ListBugsInput represents filters, sort and page of the bug list
type ListBugsInput struct {
	StatusID  *string
	ProductID *string
	Severity  *string
	SortBy    string
	SortOrder string
	Skip      int
	Limit     int
}

// UpdateBugInput represents the triage fields an admin may change
type UpdateBugInput struct {
	StatusID dto.Optional[string]
	Severity dto.Optional[string]
}

// ListBugs returns a page of detailed bugs with the total of the filtered set
// and the effective pagination.
func (s *BugService) ListBugs(ctx context.Context, input ListBugsInput) ([]models.Bug, int64, utils.PaginationParams, error) {
	page := utils.NormalizePagination(input.Skip, input.Limit)

	filter := repository.BugFilter{
		StatusID:  input.StatusID,
		ProductID: input.ProductID,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Skip:      page.Skip,
		Limit:     page.Limit,
	}
	if input.Severity != nil {
		severity, err := models.ParseSeverity(*input.Severity)
		if err != nil {
			return nil, 0, page, invalid("severity", "%s", err.Error())
		}
		filter.Severity = &severity
	}

	bugs, total, err := s.bugRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list bugs: %w", err)
	}

	return bugs, total, page, nil
}

// GetBug returns a bug with product, status and screenshots
func (s *BugService) GetBug(ctx context.Context, id string) (*models.Bug, error) {
	bug, err := s.bugRepo.FindByID(ctx, id, "Product", "Status", "Screenshots")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, fmt.Errorf("failed to find bug: %w", err)
	}
	return bug, nil
}

// CreateBug stores the bug in the lowest-order status, then its screenshots.
// Rejected or unwritable attachments are logged and skipped; the bug is kept
// even when the screenshot rows cannot be saved.
func (s *BugService) CreateBug(ctx context.Context, input CreateBugInput) (*models.Bug, error) {
	bug, err := s.newBug(ctx, input)
	if err != nil {
		return nil, err
	}

	status, err := s.statusRepo.FindLowest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoStatusesConfigured
		}
		return nil, fmt.Errorf("failed to find default status: %w", err)
	}
	bug.StatusID = status.ID

	if err := s.bugRepo.Create(ctx, bug); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, invalid("product_id", "product not found")
		}
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}

	screenshots := make([]models.Screenshot, 0, len(input.Uploads))
	for _, upload := range input.Uploads {
		screenshot, err := s.acceptUpload(ctx, bug.ID, upload)
		if err != nil {
			if IsSkip(err) {
				slog.WarnContext(ctx, "Skipping screenshot", "bug_id", bug.ID, "filename", upload.Filename, "error", err)
			} else {
				slog.ErrorContext(ctx, "Failed to store screenshot", "bug_id", bug.ID, "filename", upload.Filename, "error", err)
			}
			continue
		}
		screenshots = append(screenshots, *screenshot)
	}

	// The bug row is committed at this point; screenshot failures are only logged.
	if err := s.bugRepo.CreateScreenshots(ctx, screenshots); err != nil {
		slog.ErrorContext(ctx, "Failed to save screenshots", "bug_id", bug.ID, "count", len(screenshots), "error", err)
		screenshots = nil
	}
	bug.Screenshots = screenshots

	return bug, nil
}

// UpdateBug changes status and severity only
func (s *BugService) UpdateBug(ctx context.Context, id string, input UpdateBugInput) (*models.Bug, error) {
	bug, err := s.bugRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, fmt.Errorf("failed to find bug: %w", err)
	}

	if input.StatusID.Set {
		if input.StatusID.Null {
			return nil, notNullable("status_id")
		}
		if _, err := s.statusRepo.FindByID(ctx, input.StatusID.Value); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid("status_id", "status not found")
			}
			return nil, fmt.Errorf("failed to find status: %w", err)
		}
		bug.StatusID = input.StatusID.Value
	}
	if input.Severity.Set {
		if input.Severity.Null {
			return nil, notNullable("severity")
		}
		severity, err := models.ParseSeverity(input.Severity.Value)
		if err != nil {
			return nil, invalid("severity", "%s", err.Error())
		}
		bug.Severity = severity
	}

	if err := s.bugRepo.Update(ctx, bug); err != nil {
		return nil, fmt.Errorf("failed to update bug: %w", err)
	}

	return bug, nil
}

// DeleteBug deletes the bug, its screenshot rows and its stored files together
func (s *BugService) DeleteBug(ctx context.Context, id string) error {
	err := s.bugRepo.Delete(ctx, id, func(ctx context.Context) error {
		return s.attachments.DeleteAll(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBugNotFound
		}
		return fmt.Errorf("failed to delete bug: %w", err)
	}
	return nil
}

// OpenScreenshot streams a stored screenshot of the bug
func (s *BugService) OpenScreenshot(ctx context.Context, bugID, filename string) (io.ReadCloser, string, int64, error) {
	rc, obj, err := s.attachments.Open(ctx, bugID, filename)
	if err != nil {
		return nil, "", 0, err
	}
	return rc, obj.ContentType, obj.Size, nil
}

func (s *BugService) newBug(ctx context.Context, input CreateBugInput) (*models.Bug, error) {
	summary, err := requiredText("summary", input.Summary, maxSummaryLength)
	if err != nil {
		return nil, err
	}
	description, err := requiredText("description", input.Description, 0)
	if err != nil {
		return nil, err
	}

	severity := models.SeverityMedium
	if input.Severity != "" {
		if severity, err = models.ParseSeverity(input.Severity); err != nil {
			return nil, invalid("severity", "%s", err.Error())
		}
	}

	reporterName, err := optionalText("reporter_name", input.ReporterName, maxReporterNameLength)
	if err != nil {
		return nil, err
	}
	reporterEmail, err := optionalText("reporter_email", input.ReporterEmail, maxReporterEmailLength)
	if err != nil {
		return nil, err
	}

	if input.ProductID == "" {
		return nil, invalid("product_id", "product_id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("product_id", "product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &models.Bug{
		ProductID:     input.ProductID,
		Summary:       summary,
		Description:   description,
		Severity:      severity,
		ReporterName:  reporterName,
		ReporterEmail: reporterEmail,
	}, nil
}

func (s *BugService) acceptUpload(ctx context.Context, bugID string, upload Upload) (*models.Screenshot, error) {
	file, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return s.attachments.Accept(ctx, bugID, file, upload.Filename)
}
