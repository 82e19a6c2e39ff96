package models

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "guardhq/pkg/domain-errors"
)

// NormalizeClock canonicalizes a clock-of-day string to zero-padded HH:MM.
// Availability windows are compared to shift times lexicographically, which
// is only correct while every value is fixed-width and zero-padded, so
// non-canonical input ("8:30") is padded and anything unparseable rejected.
func NormalizeClock(s string) (string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "clock time must be HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "clock hour out of range")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "clock minute out of range")
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
