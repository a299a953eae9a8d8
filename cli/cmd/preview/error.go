package preview

import "github.com/ardnew/acdform/acd"

// Predefined errors (sentinel values).
var (
	ErrOutOfBounds    = acd.NewError("history index out of range")
	ErrNoSession      = acd.NewError("no form session")
	ErrUnknownCommand = acd.NewError("unknown command")
)
