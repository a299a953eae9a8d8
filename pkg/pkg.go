// Package pkg holds project metadata shared by the command and its packages.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the release embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name identifies the command in help text and in the user config and
	// cache directory names.
	Name = "acdform"
	// Description is the one-line summary shown by --help.
	Description = "Application definition form builder"
	// EnvPath is the environment variable holding the definition search path.
	EnvPath = "ACDFORM_PATH"
)
