package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxProductNameLength   = 100
	maxStatusNameLength    = 50
	maxSummaryLength       = 200
	maxReporterNameLength  = 100
	maxReporterEmailLength = 255
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// requiredText trims value and enforces a non-empty result of at most max runes.
func requiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "%s is required", field)
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", invalid(field, "%s must be at most %d characters", field, max)
	}
	return value, nil
}

// optionalText returns nil for absent or blank values.
func optionalText(field string, value *string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > max {
		return nil, invalid(field, "%s must be at most %d characters", field, max)
	}
	return &trimmed, nil
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return invalid("color", "color must be a hex value like #3b82f6")
	}
	return nil
}

func notNullable(field string) error {
	return invalid(field, "%s cannot be null", field)
}
