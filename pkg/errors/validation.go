package errors

import (
	"strings"
	"unicode"
)

// ValidateAlphabet checks that an alphabet is usable for drawing code
// characters: non-empty, printable ASCII only, and free of repeats.
func ValidateAlphabet(alphabet string) error {
	if alphabet == "" {
		return New(ErrCodeInvalidArgument, "alphabet cannot be empty")
	}
	if len(alphabet) > 256 {
		return New(ErrCodeInvalidArgument, "alphabet too long (max 256 characters)")
	}

	seen := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidArgument, "alphabet contains invalid character %q", r)
		}
		if seen[r] {
			return New(ErrCodeInvalidArgument, "alphabet contains duplicate character %q", r)
		}
		seen[r] = true
	}
	return nil
}

// ValidateCount checks that n lies within [lo, hi]. The name identifies the
// quantity in the error message ("page count", "file count").
func ValidateCount(name string, n, lo, hi int) error {
	if n < lo || n > hi {
		return New(ErrCodeOutOfRange, "%s %d outside %d..%d", name, n, lo, hi)
	}
	return nil
}

// ValidateOutputTemplate validates a filename template for generated sheets.
// Templates are file names, never paths: the output directory is configured
// separately.
//
// Validation rules:
//   - Template cannot be empty
//   - Maximum length of 200 characters
//   - No control characters
//   - No path separators or traversal sequences
//   - Braces must be balanced
func ValidateOutputTemplate(tmpl string) error {
	if tmpl == "" {
		return New(ErrCodeInvalidPath, "output template cannot be empty")
	}

	const maxTemplateLength = 200
	if len(tmpl) > maxTemplateLength {
		return New(ErrCodeInvalidPath, "output template too long (max %d characters)", maxTemplateLength)
	}

	for _, r := range tmpl {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output template contains invalid characters")
		}
	}

	if strings.ContainsAny(tmpl, "/\\") {
		return New(ErrCodeInvalidPath, "output template cannot contain path separators")
	}
	if strings.Contains(tmpl, "..") {
		return New(ErrCodeInvalidPath, "output template cannot contain path traversal sequences (..)")
	}

	depth := 0
	for _, r := range tmpl {
		switch r {
		case '{':
			depth++
			if depth > 1 {
				return New(ErrCodeInvalidPath, "output template has nested braces")
			}
		case '}':
			depth--
			if depth < 0 {
				return New(ErrCodeInvalidPath, "output template has unbalanced braces")
			}
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidPath, "output template has unbalanced braces")
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
