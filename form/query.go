package form

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/acdform/acd"
)

// Predefined errors (sentinel values).
var (
	ErrQueryCompile = acd.NewError("query compilation failed")
	ErrQueryRun     = acd.NewError("query evaluation failed")
)

// Env returns the current value of every input field keyed by field name:
// int, float64, and bool for numeric and boolean fields, a string for select
// fields (a []string for multi-select), and the text of every other field.
// The derived attributes of the active sequence are under "sequence".
func (s *Session) Env() map[string]any {
	env := make(map[string]any, len(s.widgets)+1)

	for f, w := range s.widgets {
		if w == nil {
			continue
		}

		name := s.FieldName(f)
		if _, ok := env[name]; ok {
			continue
		}

		switch c := s.Category(f); c {
		case acd.CategoryInteger:
			env[name] = w.num
		case acd.CategoryFloat:
			env[name] = w.flt
		case acd.CategoryBoolean:
			env[name] = w.on
		case acd.CategoryMultiSelect:
			labels := make([]string, 0, len(w.selected))
			for _, i := range w.selected {
				labels = append(labels, w.entries[i].Label)
			}

			env[name] = labels
		case acd.CategorySingleSelect:
			env[name] = s.SelectedLabel(c, s.Handle(f))
		default:
			env[name] = w.text
		}
	}

	if info, ok := s.Sequence(""); ok {
		env["sequence"] = map[string]any{
			"name":    s.active,
			"protein": info.Protein,
			"length":  info.Length,
			"weight":  info.Weight,
		}
	}

	return env
}

// Query evaluates an expr-lang expression against [Session.Env]. It is a
// convenience for inspecting a form and is unrelated to the @( ) forms of
// definition attributes.
func (s *Session) Query(source string) (any, error) {
	source = strings.TrimSpace(source)
	env := s.Env()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrQueryCompile.Wrap(err).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrQueryRun.Wrap(err).
			With(slog.String("source", source))
	}

	return out, nil
}
