package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxModelLength bounds model names accepted from clients.
const maxModelLength = 128

// ValidateModelName validates a vehicle model name received from a client
// before it is used for a tree lookup.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateModelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "model name cannot be empty")
	}

	if len(name) > maxModelLength {
		return New(ErrCodeInvalidInput, "model name too long (max %d characters)", maxModelLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "model name contains invalid control characters")
		}
	}

	return nil
}

// filterKeyRegex matches charger type keys such as "J1772COMBO" or "NEMA515".
var filterKeyRegex = regexp.MustCompile(`^[A-Z0-9_]{1,32}$`)

// ValidateFilterKey validates the syntax of a charger filter key.
// Whether the key is known is decided by the charger catalogue.
func ValidateFilterKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "filter key cannot be empty")
	}
	if !filterKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid filter key: %q", key)
	}
	return nil
}

// ValidatePath validates a local file path used as a data source.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
