package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
)

// PaginationParams holds offset based pagination parameters
type PaginationParams struct {
	Skip  int
	Limit int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts skip/limit from the query string.
// Malformed or negative skip becomes 0; limit outside [1, MaxPageSize] is clamped.
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil {
		limit = constants.DefaultPageSize
	}
	return NormalizePagination(skip, limit)
}

// NormalizePagination applies the same bounds as GetPaginationParams to raw values.
func NormalizePagination(skip, limit int) PaginationParams {
	if skip < 0 {
		skip = 0
	}
	if limit < constants.MinPageSize {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	return PaginationParams{Skip: skip, Limit: limit}
}
