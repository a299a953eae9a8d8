package acd

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Sentinel errors. Errors derived from one with [Error.With] or [Error.Wrap]
// match it with errors.Is.
var (
	ErrReadInput    = NewError("failed to read input")
	ErrUnknownField = NewError("unknown field")
	ErrInvalidValue = NewError("invalid field value")
	ErrLocate       = NewError("definition not found in search path")
)

// Error is a definition error carrying slog attributes, such as the field
// name and offending value, for the log record that reports it.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel with message msg.
func NewError(msg string) *Error { return &Error{msg: msg} }

// WrapError returns err as an *Error so attributes can be attached to it.
// An err that already is or wraps an *Error yields that error.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error returns "msg: cause", dropping whichever part is empty.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is matches target when both carry the same non-empty message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue groups the message, the cause and the attached attributes.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended. e is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{msg: e.msg, err: e.err, attrs: slices.Concat(e.attrs, attrs)}
}

// Warning describes input the parser skipped. Warnings never stop a parse.
type Warning struct {
	Line   int
	Text   string
	Reason string
}

// String formats the warning as "line N: reason: text".
func (w Warning) String() string {
	var sb strings.Builder

	sb.WriteString("line ")
	sb.WriteString(strconv.Itoa(w.Line))
	sb.WriteString(": ")
	sb.WriteString(w.Reason)

	if w.Text != "" {
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(w.Text))
	}

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (w Warning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", w.Line),
		slog.String("reason", w.Reason),
		slog.String("text", w.Text),
	)
}
