package cmd

import "github.com/ardnew/acdform/acd"

// Predefined errors (sentinel values).
var (
	ErrYAMLMarshal   = acd.NewError("marshal YAML")
	ErrWriteConfig   = acd.NewError("write configuration file")
	ErrFileExists    = acd.NewError("file exists (use --force to overwrite)")
	ErrNoSource      = acd.NewError("no readable definition source")
	ErrVariable      = acd.NewError("malformed variable (want name=value)")
	ErrVersion       = acd.NewError("version constraint not satisfied")
	ErrConstraint    = acd.NewError("invalid version constraint")
	ErrWatch         = acd.NewError("watch failed")
	ErrUnresolved    = acd.NewError("expression not fully resolved")
	ErrFieldOutRange = acd.NewError("field index out of range")
)
