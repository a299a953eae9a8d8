package acd

import "github.com/ardnew/acdform/log"

// config holds the options of a single parse.
type config struct {
	logger   log.Logger
	filename string
}

// Option configures a parse.
type Option func(config) config

// makeConfig applies opts to the zero config. The zero [log.Logger] discards
// everything, so parses are silent unless a logger is provided.
func makeConfig(opts ...Option) config {
	var cfg config

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithLogger returns an option that sets the logger receiving warnings about
// skipped input and trace records about parse progress.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithFilename returns an option that records the name of the parsed source
// for log records and [Model.Filename].
func WithFilename(name string) Option {
	return func(c config) config {
		c.filename = name

		return c
	}
}
