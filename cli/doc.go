// Package cli contains the command line interface for acdform.
//
// # Commands
//
//   - fmt: reformat definitions as native text, JSON, or YAML
//   - deps: list the attributes that depend on other field values
//   - lists: decode the items of list and select fields
//   - resolve: resolve attribute text against a form
//   - preview: edit a form interactively and watch its dependents change
//   - watch: summarize definitions as they change on disk
//   - init: write the current flags to the configuration file
//   - version: print or check the version
//
// Definitions named without a directory (for example "water") are searched
// for in the directories of --acd-path (or $ACDFORM_PATH), then the "acd"
// directory under the configuration directory.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Nested keys are joined with '-' to form flag names:
//
//	log:
//	  level: debug
//	  pretty: true
//
// sets --log-level=debug and --log-pretty.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o acdform .
//
// Then --pprof-mode selects the profile and --pprof-dir its output directory.
//
// # Examples
//
//	# Resolve an expression against a definition with a 300-residue sequence
//	acdform resolve -f water --length 300 '@($(asequence.length) / 2)'
//
//	# Debug logging with CPU profiling
//	acdform --log-level=debug --pprof-mode=cpu deps water.acd
package cli
