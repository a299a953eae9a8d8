package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/acdform/acd"
)

// Fmt parses definitions and prints them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native definition syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Native formats definitions as native definition syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width (0 keeps each field on one line)" short:"i"`

	Source []string `arg:"" default:"-" help:"Definition files or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return eachModel(ctx, f.Source, func(m *acd.Model) error {
		return wrapFormat(m, "native", m.Format(ctx, outputFrom(ctx), f.Indent))
	})
}

// JSON formats definitions as JSON documents.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source []string `arg:"" default:"-" help:"Definition files or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return eachModel(ctx, j.Source, func(m *acd.Model) error {
		return wrapFormat(m, "json", m.FormatJSON(ctx, outputFrom(ctx), j.Indent))
	})
}

// YAML formats definitions as YAML documents.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source []string `arg:"" default:"-" help:"Definition files or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return eachModel(ctx, y.Source, func(m *acd.Model) error {
		return wrapFormat(m, "yaml", m.FormatYAML(ctx, outputFrom(ctx), y.Indent))
	})
}

func wrapFormat(m *acd.Model, format string, err error) error {
	if err == nil {
		return nil
	}

	return acd.WrapError(err).With(
		slog.String("format", format),
		slog.String("file", m.Filename()),
	)
}
