package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/form"
	"github.com/ardnew/acdform/log"
)

// Deps lists the dependent attributes of definitions: attributes whose value
// is a $( ) or @( ) expression resolved against the live form.
type Deps struct {
	From    int  `default:"-1" help:"Report only fields after this zero-based index (-1 for all)."`
	Resolve bool `             help:"Also print each expression resolved against default values." short:"r"`

	Source []string `arg:"" default:"-" help:"Definition files or '-' for stdin." name:"source"`
}

// Run executes the deps command.
func (d *Deps) Run(ctx context.Context) error {
	return eachModel(ctx, d.Source, func(m *acd.Model) error {
		if d.From >= m.NumFields() {
			return ErrFieldOutRange.With(
				slog.Int("from", d.From),
				slog.Int("fields", m.NumFields()),
			)
		}

		w := outputFrom(ctx)

		// A session scans every field, so its dependents are filtered here.
		var s *form.Session
		if d.Resolve {
			s = form.New(m, form.WithLogger(log.Default()))
		} else {
			m.IsDependents(d.From, m.NumFields())
		}

		deps := slices.DeleteFunc(slices.Clone(m.Dependents()),
			func(dep acd.Dependent) bool { return dep.Field <= d.From },
		)

		if len(deps) == 0 {
			log.DebugContext(ctx, "no dependents",
				slog.String("file", m.Filename()),
				slog.Int("from", d.From),
			)

			return nil
		}

		for _, dep := range deps {
			name := m.FieldName(dep.Field)
			attr := m.ParamName(dep.Field, dep.Param)

			var err error
			if s != nil {
				got, _ := s.Resolved(dep.Field, attr)
				_, err = fmt.Fprintf(w, "%s.%s\t%s\t%s\n",
					name, attr, dep.Expression, got)
			} else {
				_, err = fmt.Fprintf(w, "%s.%s\t%s\n",
					name, attr, dep.Expression)
			}

			if err != nil {
				return err
			}
		}

		return nil
	})
}
