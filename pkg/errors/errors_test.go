package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedTree, "dangling parent: %s", "y")

	if err.Code != ErrCodeMalformedTree {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedTree)
	}

	if err.Message != "dangling parent: y" {
		t.Errorf("Message = %v, want %v", err.Message, "dangling parent: y")
	}

	expected := "MALFORMED_TREE: dangling parent: y"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "redis get")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnknownNode, "test"),
			code:     ErrCodeUnknownNode,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnknownNode, "test"),
			code:     ErrCodeMalformedTree,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeMalformedTree, "inner"), "outer"),
			code:     ErrCodeInvalidFormat,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeMalformedTree, "inner"), "outer"),
			code:     ErrCodeMalformedTree,
			expected: true,
		},
		{
			name:     "behind fmt.Errorf",
			err:      fmt.Errorf("load: %w", New(ErrCodeMalformedTree, "cycle")),
			code:     ErrCodeMalformedTree,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInconsistentAtomSeed, "test"),
			expected: ErrCodeInconsistentAtomSeed,
		},
		{
			name:     "wrapped keeps outer code",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeMalformedTree, "x"), "y"),
			expected: ErrCodeInvalidFormat,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnknownNode, "unknown node: x"),
			expected: "unknown node: x",
		},
		{
			name:     "wrapped Error",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeMalformedTree, "cycle at a"), "decode trees.yaml"),
			expected: "decode trees.yaml: cycle at a",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
