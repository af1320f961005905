package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/services"
)

// StatusHandler serves workflow statuses
type StatusHandler struct {
	statusService *services.StatusService
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// ListStatuses returns statuses in workflow order
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusDTOs(statuses))
}

// CreateStatus creates a status, appending it when no order is given
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	var req dto.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), services.CreateStatusInput{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStatusDTO(*status))
}

// UpdateStatus applies a partial update
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := h.statusService.UpdateStatus(c.Request.Context(), c.Param("id"), services.UpdateStatusInput{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusDTO(*status))
}

// DeleteStatus deletes a status no bug references
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	if err := h.statusService.DeleteStatus(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status deleted"})
}

// ReorderStatuses applies a list of {id, order} pairs
func (h *StatusHandler) ReorderStatuses(c *gin.Context) {
	var req []dto.StatusOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	orders := make([]repository.StatusOrder, 0, len(req))
	for _, item := range req {
		orders = append(orders, repository.StatusOrder{ID: item.ID, Order: item.Order})
	}

	if err := h.statusService.ReorderStatuses(c.Request.Context(), orders); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Statuses reordered"})
}
