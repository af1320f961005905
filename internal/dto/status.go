package dto

import (
	"time"

	"github.com/yukikurage/bug-tracker-api/internal/models"
)

// StatusDTO represents a workflow status in API responses
type StatusDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStatusRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color"`
	// Order is appended after the current maximum when omitted.
	Order *int `json:"order"`
}

type UpdateStatusRequest struct {
	Name  Optional[string] `json:"name"`
	Color Optional[string] `json:"color"`
	Order Optional[int]    `json:"order"`
}

// StatusOrderRequest is one element of the reorder body
type StatusOrderRequest struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order"`
}

func ToStatusDTO(status models.Status) StatusDTO {
	return StatusDTO{
		ID:        status.ID,
		Name:      status.Name,
		Color:     status.Color,
		Order:     status.Order,
		CreatedAt: status.CreatedAt,
	}
}

func ToStatusDTOs(statuses []models.Status) []StatusDTO {
	out := make([]StatusDTO, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, ToStatusDTO(s))
	}
	return out
}
