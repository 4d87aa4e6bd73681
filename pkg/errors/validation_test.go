package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a", false},
		{"dotted", "a.a.b", false},
		{"spaces", "machine learning", false},
		{"unicode", "Ökologie", false},
		{"long", strings.Repeat("x", 300), false},

		{"empty", "", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedTree) {
				t.Errorf("ValidateNodeName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTreeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "animals", false},
		{"with dash", "tree-0", false},
		{"with dot", "taxonomy.v2", false},

		{"empty", "", true},
		{"traversal", "..", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"space", "my tree", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "trees/animals.yaml", false},
		{"valid filename only", "tree.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeMalformedTree,
		ErrCodeUnknownNode,
		ErrCodeInconsistentAtomSeed,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
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
