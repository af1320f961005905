package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/services"
	"github.com/yukikurage/bug-tracker-api/internal/utils"
)

// BugHandler serves bug reports and their screenshots
type BugHandler struct {
	bugService *services.BugService
}

// NewBugHandler creates a new BugHandler
func NewBugHandler(bugService *services.BugService) *BugHandler {
	return &BugHandler{
		bugService: bugService,
	}
}

// ListBugs returns a filtered, sorted page of detailed bugs
func (h *BugHandler) ListBugs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListBugsInput{
		StatusID:  optionalQuery(c, "status_id"),
		ProductID: optionalQuery(c, "product_id"),
		Severity:  optionalQuery(c, "severity"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Skip:      params.Skip,
		Limit:     params.Limit,
	}

	bugs, total, page, err := h.bugService.ListBugs(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBugListResponse(bugs, total, page.Skip, page.Limit))
}

// GetBug returns one bug in the detailed shape
func (h *BugHandler) GetBug(c *gin.Context) {
	bug, err := h.bugService.GetBug(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBugDetailDTO(*bug))
}

// CreateBug accepts a multipart submission with optional screenshot files
func (h *BugHandler) CreateBug(c *gin.Context) {
	var form dto.CreateBugForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}

	var uploads []services.Upload
	if multipartForm, err := c.MultipartForm(); err == nil {
		for _, fh := range multipartForm.File[constants.ScreenshotsFormField] {
			if fh.Filename == "" {
				continue
			}
			uploads = append(uploads, services.Upload{
				Filename: fh.Filename,
				Open:     openFileHeader(fh),
			})
		}
	}

	bug, err := h.bugService.CreateBug(c.Request.Context(), services.CreateBugInput{
		ProductID:     form.ProductID,
		Summary:       form.Summary,
		Description:   form.Description,
		Severity:      form.Severity,
		ReporterName:  form.ReporterName,
		ReporterEmail: form.ReporterEmail,
		Uploads:       uploads,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBugDTO(*bug))
}

// UpdateBug changes status and severity
func (h *BugHandler) UpdateBug(c *gin.Context) {
	var req dto.UpdateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bug, err := h.bugService.UpdateBug(c.Request.Context(), c.Param("id"), services.UpdateBugInput{
		StatusID: req.StatusID,
		Severity: req.Severity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBugDTO(*bug))
}

// DeleteBug deletes a bug with its screenshots and files
func (h *BugHandler) DeleteBug(c *gin.Context) {
	if err := h.bugService.DeleteBug(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bug deleted"})
}

// GetScreenshot streams a stored screenshot
func (h *BugHandler) GetScreenshot(c *gin.Context) {
	rc, contentType, size, err := h.bugService.OpenScreenshot(c.Request.Context(), c.Param("id"), c.Param("filename"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, size, contentType, rc, nil)
}

func optionalQuery(c *gin.Context, key string) *string {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return nil
	}
	return &value
}

func openFileHeader(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}
