package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrStatusNotFound       = errors.New("status not found")
	ErrBugNotFound          = errors.New("bug not found")
	ErrProductNameTaken     = errors.New("product name already exists")
	ErrStatusNameTaken      = errors.New("status name already exists")
	ErrNoStatusesConfigured = errors.New("no statuses configured")
)

// ValidationError identifies the input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InUseError reports a delete blocked by bugs that still reference the record.
type InUseError struct {
	Resource string
	Count    int64
}

func (e *InUseError) Error() string {
	if e.Count <= 0 {
		return fmt.Sprintf("Cannot delete %s with existing bugs", e.Resource)
	}
	return fmt.Sprintf("Cannot delete %s with %d existing bugs", e.Resource, e.Count)
}
