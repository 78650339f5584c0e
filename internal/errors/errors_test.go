package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{name: "wrapped sentinel", err: fmt.Errorf("askeza %q: %w", "a-1", ErrNotFound), expected: `Error: askeza "a-1": not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "catalog")
	if got != "Error: failed to load catalog" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrAlreadyActive, ErrLifetimeExtension, ErrInvalidArgument} {
		wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", sentinel))
		if !Is(wrapped, sentinel) {
			t.Errorf("expected %v to match after wrapping", sentinel)
		}
	}
	if Is(fmt.Errorf("outer: %w", ErrNotFound), ErrAlreadyActive) {
		t.Error("distinct sentinels must not match")
	}
}
