package errors

import (
	"testing"
)

func TestValidateAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"alphanumeric", "ABCDEFGHJKLMNPQRSTUVWXYZ23456789", false},
		{"numeric", "23456789", false},
		{"single", "A", false},

		{"empty", "", true},
		{"duplicate", "ABCA", true},
		{"space", "AB C", true},
		{"non-ascii", "ABCÉ", true},
		{"control", "AB\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlphabet(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAlphabet(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("ValidateAlphabet(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidArgument)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{50, false},
		{99, false},
		{0, true},
		{-1, true},
		{100, true},
	}

	for _, tt := range tests {
		err := ValidateCount("page count", tt.n, 1, 99)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCount(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeOutOfRange) {
			t.Errorf("ValidateCount(%d) code = %v, want OUT_OF_RANGE", tt.n, GetCode(err))
		}
	}
}

func TestValidateOutputTemplate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", "{layout}-labels-{timestamp}-f{fileno}-n{npages}", false},
		{"plain", "labels", false},
		{"batch", "batch-{batch}", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "out/{layout}", true},
		{"backslash", "out\\{layout}", true},
		{"traversal", "..{layout}", true},
		{"unbalanced open", "{layout", true},
		{"unbalanced close", "layout}", true},
		{"nested", "{{layout}}", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputTemplate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputTemplate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://securelink.example.org", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidArgument,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidLayout,
		ErrCodeInvalidPath,
		ErrCodeDuplicateCode,
		ErrCodeExhaustedKeyspace,
		ErrCodeLengthMismatch,
		ErrCodeOutOfRange,
		ErrCodeRender,
		ErrCodeIO,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
