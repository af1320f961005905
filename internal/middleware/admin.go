package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/bug-tracker-api/internal/errors"
	"github.com/yukikurage/bug-tracker-api/internal/services"
)

// Authorizer checks a supplied admin credential
type Authorizer interface {
	Authorize(param, header string) error
}

// RequireAdmin checks the shared admin secret. The password parameter is read
// from the query string, then the form body; the header is the fallback.
func RequireAdmin(authz Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		param := AdminPasswordParam(c)
		header := c.GetHeader(constants.AdminPasswordHeader)

		if err := authz.Authorize(param, header); err != nil {
			message := "Invalid admin password"
			if errors.Is(err, services.ErrAdminCredentialMissing) {
				message = "Admin password required"
			}
			apierrors.Forbidden(c, message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminPasswordParam returns the non-empty password parameter, if any
func AdminPasswordParam(c *gin.Context) string {
	if value := c.Query(constants.AdminPasswordParam); value != "" {
		return value
	}
	return c.PostForm(constants.AdminPasswordParam)
}
