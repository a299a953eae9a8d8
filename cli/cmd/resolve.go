package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/form"
	"github.com/ardnew/acdform/log"
	"github.com/ardnew/acdform/resolve"
)

// Resolve resolves attribute text against a form built from an optional
// definition file, the way a dependent attribute is resolved when the form
// changes.
type Resolve struct {
	Expression string   `arg:"" help:"Attribute text to resolve, e.g. '@($(window) * 2)'." name:"expression"`
	Var        []string `       help:"Set a field value (name=value). Names that are not fields of the definition become string fields." placeholder:"NAME=VALUE" short:"v"`
	File       string   `       help:"Definition file supplying the form fields, or '-' for stdin."                                      short:"f"`
	Length     int      `       help:"Length of the loaded input sequence."`
	Protein    bool     `       help:"The loaded input sequence is protein."`
	Query      bool     `       help:"Evaluate an expr-lang query over the field values instead."                                      short:"q"`
	Strict     bool     `       help:"Fail if references remain unresolved."`
}

// binding is one --var assignment.
type binding struct {
	name, value string
}

func parseBindings(vars []string) ([]binding, error) {
	out := make([]binding, 0, len(vars))

	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrVariable.With(slog.String("var", v))
		}

		out = append(out, binding{name: name, value: value})
	}

	return out, nil
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) error {
	bindings, err := parseBindings(r.Var)
	if err != nil {
		return err
	}

	s, err := r.session(ctx, bindings)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	if r.Query {
		out, err := s.Query(r.Expression)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, out)

		return err
	}

	result := resolve.Expression(r.Expression, "", "", s)

	log.DebugContext(ctx, "expression resolved",
		slog.String("expression", r.Expression),
		slog.String("result", result),
	)

	if r.Strict && !resolve.IsResolved(result) {
		return ErrUnresolved.With(
			slog.String("expression", r.Expression),
			slog.String("result", result),
		)
	}

	_, err = fmt.Fprintln(w, result)

	return err
}

// session builds the form that expressions are resolved against.
func (r *Resolve) session(
	ctx context.Context,
	bindings []binding,
) (*form.Session, error) {
	text, err := r.source(ctx)
	if err != nil {
		return nil, err
	}

	opts := []acd.Option{
		acd.WithFilename(r.File),
		acd.WithLogger(log.Default()),
	}

	model := acd.Parse(ctx, text, opts...)

	var extra strings.Builder

	for _, b := range bindings {
		if model.FieldIndex(b.name) < 0 {
			fmt.Fprintf(&extra, "string: %s [ default: \"%s\" ]\n",
				b.name, strings.ReplaceAll(b.value, `"`, `\"`))
		}
	}

	if extra.Len() > 0 {
		model = acd.Parse(ctx, text+"\n"+extra.String(), opts...)
	}

	var sopts []form.Option

	sopts = append(sopts, form.WithLogger(log.Default()))
	if r.Length > 0 || r.Protein {
		sopts = append(sopts, form.WithSequence(sequenceField(model),
			resolve.SequenceInfo{Protein: r.Protein, Length: r.Length},
		))
	}

	s := form.New(model, sopts...)

	for _, b := range bindings {
		if _, err := s.Set(b.name, b.value); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// source returns the text of the definition file, if one was given.
func (r *Resolve) source(ctx context.Context) (string, error) {
	if r.File == "" {
		return "", nil
	}

	srcs, err := openSources(ctx, []string{r.File})
	if err != nil {
		return "", err
	}

	defer srcs[0].r.Close()

	data, err := io.ReadAll(srcs[0].r)
	if err != nil {
		return "", acd.ErrReadInput.Wrap(err).
			With(slog.String("file", srcs[0].name))
	}

	return string(data), nil
}

// sequenceField returns the name of the first sequence field of model, or
// "sequence" if it has none.
func sequenceField(model *acd.Model) string {
	for f, fld := range model.Fields() {
		if fld.Category == acd.CategorySequence {
			return model.FieldName(f)
		}
	}

	return "sequence"
}
