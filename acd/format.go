package acd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the model in native definition syntax to the writer. Shorthand
// variables are written as declarations but their values are already inlined
// into the attributes that referenced them.
func (m *Model) Format(_ context.Context, w io.Writer, indent int) error {
	depth := 0

	for i, f := range m.fields {
		if f.Type() == typeEndSection && depth > 0 {
			depth--
		}

		if i > 0 && indent > 0 && !isSection(f.Type()) &&
			!isVariable(f.Type()) {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		err := formatField(f, w, indent, depth)
		if err != nil {
			return err
		}

		if f.Type() == typeSection {
			depth++
		}
	}

	return nil
}

// FormatJSON writes the model as JSON to the writer.
func (m *Model) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			m.document(), "", strings.Repeat(" ", indent),
		)
	} else {
		jsonData, err = json.Marshal(m.document())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the model as YAML to the writer.
func (m *Model) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, m.document(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// document is the encoded form of a Model.
type document struct {
	Application string       `json:"application,omitempty" yaml:"application,omitempty"`
	Sections    int          `json:"sections"              yaml:"sections"`
	Subsections int          `json:"subsections"           yaml:"subsections"`
	Fields      []fieldDoc   `json:"fields"                yaml:"fields"`
	Dependents  []Dependent  `json:"dependents,omitempty"  yaml:"dependents,omitempty"`
	Warnings    []warningDoc `json:"warnings,omitempty"    yaml:"warnings,omitempty"`
	Checksum    string       `json:"checksum"              yaml:"checksum"`
}

type fieldDoc struct {
	Type       string    `json:"type"                 yaml:"type"`
	Name       string    `json:"name"                 yaml:"name"`
	Category   string    `json:"category,omitempty"   yaml:"category,omitempty"`
	Handle     *int      `json:"handle,omitempty"     yaml:"handle,omitempty"`
	Line       int       `json:"line"                 yaml:"line"`
	Attributes []attrDoc `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type attrDoc struct {
	Name  string `json:"name"  yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

type warningDoc struct {
	Line   int    `json:"line"           yaml:"line"`
	Reason string `json:"reason"         yaml:"reason"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
}

// document converts the model to its encoded form.
func (m *Model) document() document {
	doc := document{
		Application: m.Application(),
		Sections:    m.sections,
		Subsections: m.subsections,
		Fields:      make([]fieldDoc, 0, len(m.fields)),
		Dependents:  m.dependents,
		Checksum:    fmt.Sprintf("%016x", m.checksum),
	}

	for _, f := range m.fields {
		fd := fieldDoc{
			Type: f.Type(),
			Name: f.Name(),
			Line: f.Line,
		}

		if f.Category != CategoryNone {
			handle := f.Handle
			fd.Category = f.Category.String()
			fd.Handle = &handle
		}

		for _, p := range f.Params[1:] {
			var v any = p.Value.Text
			if p.Value.IsNum {
				v = p.Value.Num
			}

			fd.Attributes = append(fd.Attributes, attrDoc{Name: p.Name, Value: v})
		}

		doc.Fields = append(doc.Fields, fd)
	}

	for _, w := range m.warnings {
		doc.Warnings = append(doc.Warnings, warningDoc{
			Line:   w.Line,
			Reason: w.Reason,
			Text:   w.Text,
		})
	}

	return doc
}

// formatField formats a field in native definition syntax.
func formatField(f *Field, w io.Writer, indent, depth int) error {
	pad := strings.Repeat(" ", depth*indent)

	if _, err := fmt.Fprint(w, pad, f.Type(), ": ", f.Name()); err != nil {
		return err
	}

	attrs := f.Params[1:]

	if isVariable(f.Type()) && len(attrs) == 1 && attrs[0].Name == "value" {
		_, err := fmt.Fprint(w, " ", formatValue(attrs[0].Value), "\n")

		return err
	}

	if len(attrs) == 0 {
		_, err := fmt.Fprintln(w)

		return err
	}

	if _, err := fmt.Fprint(w, " ["); err != nil {
		return err
	}

	for _, p := range attrs {
		if indent > 0 {
			if _, err := fmt.Fprint(
				w, "\n", pad, strings.Repeat(" ", indent),
			); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprint(w, " "); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprint(w, p.Name, ": ", formatValue(p.Value)); err != nil {
			return err
		}
	}

	if indent > 0 {
		_, err := fmt.Fprint(w, "\n", pad, "]\n")

		return err
	}

	_, err := fmt.Fprintln(w, " ]")

	return err
}

// formatValue returns v as it would be written in a definition: bare if it
// reads back as the same value, quoted otherwise.
func formatValue(v Value) string {
	if v.IsNum || isBare(v.Text) {
		return v.Text
	}

	return `"` + strings.ReplaceAll(v.Text, `"`, `\"`) + `"`
}

func isBare(s string) bool {
	if s == "" || numericLiteral.MatchString(s) {
		return false
	}

	if c := s[0]; c == '"' || c == '\'' || c == '#' {
		return false
	}

	depth := 0

	for i := range len(s) {
		switch c := s[i]; {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case isSpace(c) || c == ']':
			if depth <= 0 || c == '\n' {
				return false
			}
		}
	}

	return depth == 0
}
