package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds node identifiers accepted from external models.
const MaxIDLength = 256

// ValidateNodeID checks that an element id is usable as a layout key.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No surrounding whitespace
//   - Maximum length of MaxIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "node id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "node id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "node id %q contains control characters", id)
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidID, "node id %q has surrounding whitespace", id)
	}
	return nil
}

// ValidatePath validates a file path given to the CLI or API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
