package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/bug-tracker-api/internal/errors"
	"github.com/yukikurage/bug-tracker-api/internal/services"
)

func init() {
	// Report request field names instead of Go struct field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(requestFieldName)
	}
}

func requestFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// respondBindError translates binding failures into a 400 naming the field
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		apierrors.ValidationFailed(c, fe.Field(), fieldErrorMessage(fe))
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		apierrors.ValidationFailed(c, field, fmt.Sprintf("%s has the wrong type", fieldOrBody(field)))
		return
	}

	apierrors.BadRequest(c, "Invalid request body")
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func fieldOrBody(field string) string {
	if field == "" {
		return "request body"
	}
	return field
}

// respondServiceError maps service errors to API errors
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var inUseErr *services.InUseError

	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Field, validationErr.Message)
	case errors.As(err, &inUseErr):
		apierrors.InUse(c, inUseErr.Error())
	case errors.Is(err, services.ErrProductNotFound):
		apierrors.NotFound(c, "Product not found")
	case errors.Is(err, services.ErrStatusNotFound):
		apierrors.NotFound(c, "Status not found")
	case errors.Is(err, services.ErrBugNotFound):
		apierrors.NotFound(c, "Bug not found")
	case errors.Is(err, services.ErrScreenshotNotFound):
		apierrors.NotFound(c, "Screenshot not found")
	case errors.Is(err, services.ErrProductNameTaken),
		errors.Is(err, services.ErrStatusNameTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrNoStatusesConfigured):
		apierrors.InternalError(c, "No statuses configured")
	default:
		slog.ErrorContext(c.Request.Context(), "Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
