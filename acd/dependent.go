package acd

import "strings"

// IsDependents scans every field after index field, up to but excluding
// total, for attribute values that begin with '$' or '@', and records each
// one as a [Dependent]. It reports whether any were found.
//
// The recorded list replaces the result of any earlier scan; use
// [Model.Dependents] and [Model.NumDependents] to read it. Pass -1 as field
// to scan from the first field. Shorthand variable declarations are never
// scanned: their values are already inlined into the attributes that use them.
func (m *Model) IsDependents(field, total int) bool {
	total = min(total, len(m.fields))

	deps := make([]Dependent, 0)

	for i := max(field+1, 0); i < total; i++ {
		f := m.fields[i]
		if isVariable(f.Type()) {
			continue
		}

		for j := 1; j < len(f.Params); j++ {
			text := f.Params[j].Value.Text
			if !isExpression(text) {
				continue
			}

			deps = append(deps, Dependent{
				Field:      i,
				Param:      j,
				Expression: text,
				Type:       f.Type(),
			})
		}
	}

	m.dependents = deps

	return len(deps) > 0
}

// isExpression reports whether an attribute value still needs resolving.
func isExpression(text string) bool {
	text = strings.TrimSpace(text)

	return strings.HasPrefix(text, "$") || strings.HasPrefix(text, "@")
}

// Dependents returns the Dependents found by the last [Model.IsDependents].
func (m *Model) Dependents() []Dependent { return m.dependents }

// NumDependents returns the number of Dependents found by the last
// [Model.IsDependents].
func (m *Model) NumDependents() int { return len(m.dependents) }

// SetExpression replaces the expression text of Dependent i, which is the only
// part of a model a form layer may change. It reports whether i was valid.
func (m *Model) SetExpression(i int, text string) bool {
	if i < 0 || i >= len(m.dependents) {
		return false
	}

	m.dependents[i].Expression = text

	return true
}

// DependentsOn returns the indices of the recorded Dependents whose
// expression references the field or variable name.
func (m *Model) DependentsOn(name string) []int {
	var idx []int

	for i, d := range m.dependents {
		if references(d.Expression, name) {
			idx = append(idx, i)
		}
	}

	return idx
}

// references reports whether text contains $(name) or a derived attribute
// reference $(name.attr).
func references(text, name string) bool {
	ref := "$(" + name

	for rest := text; ; {
		i := strings.Index(rest, ref)
		if i < 0 {
			return false
		}

		rest = rest[i+len(ref):]
		if rest != "" && (rest[0] == ')' || rest[0] == '.') {
			return true
		}
	}
}
