package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/bug-tracker-api/internal/errors"
	"github.com/yukikurage/bug-tracker-api/internal/services"
)

// AuthHandler lets the admin UI check a password before storing it.
type AuthHandler struct {
	authz *services.AdminAuthorizer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authz *services.AdminAuthorizer) *AuthHandler {
	return &AuthHandler{
		authz: authz,
	}
}

// Validate checks the form password.
func (h *AuthHandler) Validate(c *gin.Context) {
	password := c.PostForm(constants.AdminPasswordParam)
	if err := h.authz.Check(password); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"token": "authenticated",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdminCredentialMissing):
		apierrors.ValidationFailed(c, constants.AdminPasswordParam, "password is required")
	case errors.Is(err, services.ErrAdminCredentialInvalid):
		apierrors.Forbidden(c, "Invalid password")
	default:
		apierrors.InternalError(c, "")
	}
}
