// Package cmd implements the acdform subcommands: printing, inspecting, and
// resolving application definitions, watching definition directories, and
// managing the configuration file.
//
// Commands receive a [context.Context] carrying the [kong.Context], the
// definition search path, and the output writer; see [WithContext],
// [WithSearchPath], and [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
