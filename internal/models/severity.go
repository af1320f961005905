package models

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists every accepted value in ascending impact.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSeverity matches the exact enumeration value; there is no case folding.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(value)
	if !s.Valid() {
		names := make([]string, len(Severities))
		for i, known := range Severities {
			names[i] = string(known)
		}
		return "", fmt.Errorf("invalid severity %q: must be one of %s", value, strings.Join(names, ", "))
	}
	return s, nil
}
