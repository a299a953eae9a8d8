// Package log wraps [log/slog] with a Trace level, attribute-only logging
// methods, and colorized output.
//
// A [Logger] is configured once with functional options and never changes;
// [Logger.Wrap] derives a reconfigured copy:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
//	logger.Warn("malformed line skipped", slog.Int("line", 12))
//
// The package-level functions ([Info], [Warn], ...) log through a default
// logger, which [Config] replaces atomically. The command-line interface
// applies its --log-* flags this way before any command runs, and hands
// [Default] to the packages that accept a logger as an option.
//
// # Output
//
// Records are written as slog text or JSON. With [WithPretty] (the default),
// a text record is one key=value line and a JSON record an indented block,
// both with keys and values colorized by kind when the output is a terminal.
// Pretty output flattens groups to dotted keys and resolves
// [slog.LogValuer] values, so errors carrying attributes print in full.
//
// Timestamps use any named [time] layout, matched ignoring case and
// punctuation, or a custom layout; "none" omits them.
package log
