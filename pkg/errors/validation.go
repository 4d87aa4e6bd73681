package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxTreeNameLength bounds catalog tree names, which appear in URLs.
const maxTreeNameLength = 256

// ValidateNodeName checks that a node name can be stored, rendered and
// serialized without ambiguity.
//
// The rules are:
//   - No empty names (the empty string is the "no parent" sentinel)
//   - No control characters (they would break text-art rendering)
//
// Node names have no length limit.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedTree, "node name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedTree, "node name contains control characters: %q", name)
		}
	}
	return nil
}

// treeNameRegex matches catalog tree names: the file stem of a tree document.
var treeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTreeName validates a catalog tree name as used in server URLs.
func ValidateTreeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "tree name cannot be empty")
	}
	if len(name) > maxTreeNameLength {
		return New(ErrCodeInvalidInput, "tree name too long (max %d characters)", maxTreeNameLength)
	}
	if strings.Contains(name, "..") || !treeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid tree name: %q", name)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
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
