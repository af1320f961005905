package dto

import (
	"sort"
	"time"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/utils"
)

// ScreenshotDTO represents attachment metadata in API responses
type ScreenshotDTO struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// BugDTO is the flat bug shape: related records are referenced by id only.
type BugDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Summary       string          `json:"summary"`
	Description   string          `json:"description"`
	Severity      models.Severity `json:"severity"`
	StatusID      string          `json:"status_id"`
	ReporterName  *string         `json:"reporter_name"`
	ReporterEmail *string         `json:"reporter_email"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BugDetailDTO embeds the product, the status and the screenshot list.
type BugDetailDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Product       ProductDTO      `json:"product"`
	Summary       string          `json:"summary"`
	Description   string          `json:"description"`
	Severity      models.Severity `json:"severity"`
	StatusID      string          `json:"status_id"`
	Status        StatusDTO       `json:"status"`
	ReporterName  *string         `json:"reporter_name"`
	ReporterEmail *string         `json:"reporter_email"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Screenshots   []ScreenshotDTO `json:"screenshots"`
}

// BugListResponse represents a page of bugs
type BugListResponse struct {
	Bugs []BugDetailDTO `json:"bugs"`
	utils.PaginationResponse
}

// CreateBugForm is the multipart form of POST /api/bugs. Files arrive separately.
type CreateBugForm struct {
	ProductID     string  `form:"product_id" binding:"required"`
	Summary       string  `form:"summary" binding:"required,max=200"`
	Description   string  `form:"description" binding:"required"`
	Severity      string  `form:"severity"`
	ReporterName  *string `form:"reporter_name" binding:"omitempty,max=100"`
	ReporterEmail *string `form:"reporter_email" binding:"omitempty,max=255"`
}

// UpdateBugRequest only covers the triage fields.
type UpdateBugRequest struct {
	StatusID Optional[string] `json:"status_id"`
	Severity Optional[string] `json:"severity"`
}

func ToScreenshotDTO(s models.Screenshot) ScreenshotDTO {
	return ScreenshotDTO{
		ID:               s.ID,
		Filename:         s.Filename,
		OriginalFilename: s.OriginalFilename,
		FileSize:         s.FileSize,
		UploadedAt:       s.UploadedAt,
	}
}

// ToScreenshotDTOs orders by upload time, then id.
func ToScreenshotDTOs(screenshots []models.Screenshot) []ScreenshotDTO {
	sorted := make([]models.Screenshot, len(screenshots))
	copy(sorted, screenshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].UploadedAt.Equal(sorted[j].UploadedAt) {
			return sorted[i].UploadedAt.Before(sorted[j].UploadedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]ScreenshotDTO, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, ToScreenshotDTO(s))
	}
	return out
}

// ToBugDTO converts a Bug model to the flat shape
func ToBugDTO(bug models.Bug) BugDTO {
	return BugDTO{
		ID:            bug.ID,
		ProductID:     bug.ProductID,
		Summary:       bug.Summary,
		Description:   bug.Description,
		Severity:      bug.Severity,
		StatusID:      bug.StatusID,
		ReporterName:  bug.ReporterName,
		ReporterEmail: bug.ReporterEmail,
		CreatedAt:     bug.CreatedAt,
		UpdatedAt:     bug.UpdatedAt,
	}
}

// ToBugDetailDTO expects Product, Status and Screenshots to be preloaded.
func ToBugDetailDTO(bug models.Bug) BugDetailDTO {
	return BugDetailDTO{
		ID:            bug.ID,
		ProductID:     bug.ProductID,
		Product:       ToProductDTO(bug.Product),
		Summary:       bug.Summary,
		Description:   bug.Description,
		Severity:      bug.Severity,
		StatusID:      bug.StatusID,
		Status:        ToStatusDTO(bug.Status),
		ReporterName:  bug.ReporterName,
		ReporterEmail: bug.ReporterEmail,
		CreatedAt:     bug.CreatedAt,
		UpdatedAt:     bug.UpdatedAt,
		Screenshots:   ToScreenshotDTOs(bug.Screenshots),
	}
}

func ToBugListResponse(bugs []models.Bug, total int64, skip, limit int) BugListResponse {
	items := make([]BugDetailDTO, 0, len(bugs))
	for _, b := range bugs {
		items = append(items, ToBugDetailDTO(b))
	}
	return BugListResponse{
		Bugs: items,
		PaginationResponse: utils.PaginationResponse{
			Skip:  skip,
			Limit: limit,
			Total: total,
		},
	}
}
