package errors

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxLabelLength bounds a single label. Longer strings are almost certainly a
// names file that was not split into lines.
const maxLabelLength = 256

// ValidateLabel checks that a label can be written into an XML text node.
//
// Rules:
//   - No empty labels
//   - Valid UTF-8
//   - No characters outside the XML 1.0 Char production (control characters
//     other than tab, surrogates, U+FFFE and U+FFFF)
//   - Maximum length of 256 runes
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}

	if !utf8.ValidString(label) {
		return New(ErrCodeInvalidLabel, "label is not valid UTF-8")
	}

	if n := utf8.RuneCountInString(label); n > maxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (%d characters, max %d)", n, maxLabelLength)
	}

	for _, r := range label {
		if !isXMLChar(r) {
			return New(ErrCodeInvalidLabel, "label contains a character not allowed in XML: %U", r)
		}
	}

	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production. Line breaks
// are excluded because a label is always a single line.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t':
		return true
	case r == '\n' || r == '\r':
		return false
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// ValidateOutputPath validates the path a generated document is written to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
//   - Extension, when present, must be .svg
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	if ext := filepath.Ext(path); ext != "" && !strings.EqualFold(ext, ".svg") {
		return New(ErrCodeInvalidPath, "output path %q must end in .svg", path)
	}

	return nil
}
