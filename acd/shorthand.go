package acd

import "strings"

// shorthand inlines the values of var/variable declarations into attribute
// text at parse time. It only rewrites references to names it has bound;
// every other $(...) reference is left for live resolution.
type shorthand struct {
	names  []string
	values map[string]string
}

func newShorthand() *shorthand {
	return &shorthand{values: make(map[string]string)}
}

// bind records name = value. The value is expanded against earlier bindings
// first, so a declaration may build on the ones before it.
func (s *shorthand) bind(name, value string) string {
	value = s.expand(value)

	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}

	s.values[name] = value

	return value
}

// expand replaces every $(name) of a bound name in text.
func (s *shorthand) expand(text string) string {
	if len(s.names) == 0 || !strings.Contains(text, "$(") {
		return text
	}

	for _, name := range s.names {
		ref := "$(" + name + ")"
		if strings.Contains(text, ref) {
			text = strings.ReplaceAll(text, ref, s.values[name])
		}
	}

	return text
}

// Bindings returns the shorthand variables bound while parsing, in declaration
// order, as name/value pairs.
func (m *Model) Bindings() [][2]string {
	var out [][2]string

	for _, f := range m.fields {
		if !isVariable(f.Type()) {
			continue
		}

		var value string
		if len(f.Params) > 1 {
			value = f.Params[1].Value.Text
		}

		out = append(out, [2]string{f.Name(), value})
	}

	return out
}
