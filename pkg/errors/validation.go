package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Length limits for user supplied strings.
const (
	MaxPersonIDLength = 128
	MaxNameLength     = 256
	maxPathLength     = 4096
)

// DocumentExtensions lists the file extensions a family document may use.
var DocumentExtensions = []string{".json", ".toml", ".yaml", ".yml"}

// ValidatePersonID checks an identifier supplied on the command line or in
// an API request. IDs are opaque but must be printable and bounded.
func ValidatePersonID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "person id cannot be empty")
	}
	if len(id) > MaxPersonIDLength {
		return New(ErrCodeInvalidInput, "person id too long (max %d characters)", MaxPersonIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "person id contains invalid control characters")
		}
	}
	return nil
}

// ValidateName checks a display name. Empty names are allowed; the editor
// substitutes a default.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateDocumentPath checks that path names a file with a supported
// document extension.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, ok := range DocumentExtensions {
		if ext == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported document extension %q (want one of %s)",
		ext, strings.Join(DocumentExtensions, ", "))
}
