package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/bug-tracker-api/internal/errors"
	"gorm.io/gorm"
)

// SystemHandler serves the banner and liveness endpoints
type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": constants.ServiceName,
		"version": constants.ServiceVersion,
	})
}

// Health pings the database when one is attached
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			apierrors.RespondWithError(c, http.StatusServiceUnavailable,
				apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "Database unavailable"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": constants.ServiceName + " is running",
	})
}
