package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxIdentifierLength = 128

// identifierRegex matches section, item and element-kind identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateIdentifier validates a section or item identifier from a
// listing. Identifiers end up in SVG ids, DOT node names and cache keys,
// so the accepted alphabet is deliberately small.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidListing, "identifier cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidListing, "identifier too long (max %d characters)", maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidListing, "identifier contains invalid control characters")
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidListing, "invalid identifier: %q", id)
	}

	return nil
}

// ValidateLayoutID validates a stored layout id (a UUID).
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "layout id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid layout id %q", id)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidateDimension checks that v is a finite, non-negative length.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateViewport checks that a viewport has a usable size.
func ValidateViewport(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"viewport width", width}, {"viewport height", height}} {
		if err := ValidateDimension(d.name, d.v); err != nil {
			return Wrap(ErrCodeInvalidViewport, err, "invalid viewport")
		}
		if d.v == 0 {
			return New(ErrCodeInvalidViewport, "%s must be positive", d.name)
		}
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
