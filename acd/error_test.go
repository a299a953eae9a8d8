package acd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	derived := ErrInvalidValue.
		With(slog.String("field", "window")).
		Wrap(io.ErrUnexpectedEOF)

	if !errors.Is(derived, ErrInvalidValue) {
		t.Error("expected derived error to match its sentinel")
	}

	if errors.Is(derived, ErrUnknownField) {
		t.Error("expected no match against a different sentinel")
	}

	if !errors.Is(derived, io.ErrUnexpectedEOF) {
		t.Error("expected the cause to be reachable")
	}

	if errors.Is(WrapError(io.EOF), WrapError(io.ErrClosedPipe)) {
		t.Error("expected message-less errors never to match")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", ErrUnknownField, "unknown field"},
		{"cause", WrapError(io.EOF), "EOF"},
		{"both", ErrReadInput.Wrap(io.EOF), "failed to read input: EOF"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	inner := ErrLocate.With(slog.String("name", "water"))

	if got := WrapError(fmt.Errorf("open: %w", inner)); got != inner {
		t.Errorf("expected the wrapped *Error to be returned, got %v", got)
	}

	plain := WrapError(io.EOF).With(slog.String("format", "json"))
	if !errors.Is(plain, io.EOF) {
		t.Error("expected a plain error to stay reachable")
	}

	if got := plain.LogValue().Group(); len(got) != 2 ||
		got[0].Key != "cause" || got[1].Key != "format" {
		t.Errorf("unexpected log attrs: %v", got)
	}
}

func TestError_WithIsImmutable(t *testing.T) {
	base := ErrInvalidValue.With(slog.Int("line", 3))

	a := base.With(slog.String("field", "a"))
	b := base.With(slog.String("field", "b"))

	if len(base.attrs) != 1 {
		t.Fatalf("base modified: %v", base.attrs)
	}

	if a.attrs[1].Value.String() != "a" || b.attrs[1].Value.String() != "b" {
		t.Errorf("derived errors share attrs: %v / %v", a.attrs, b.attrs)
	}
}
