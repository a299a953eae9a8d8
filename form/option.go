package form

import (
	"github.com/ardnew/acdform/log"
	"github.com/ardnew/acdform/resolve"
)

type config struct {
	logger    log.Logger
	sequences map[string]resolve.SequenceInfo
	active    string
}

// Option configures a [Session].
type Option func(config) config

func makeConfig(opts ...Option) config {
	cfg := config{sequences: make(map[string]resolve.SequenceInfo)}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithLogger returns an option that sets the logger receiving records about
// value changes and re-resolved attributes.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithSequence returns an option that loads a sequence into the field named
// name before defaults are resolved. The last sequence loaded is the active
// one.
func WithSequence(name string, info resolve.SequenceInfo) Option {
	return func(c config) config {
		c.sequences[name] = info
		c.active = name

		return c
	}
}
