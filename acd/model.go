package acd

import (
	"iter"
	"strconv"
	"strings"
)

// Value is an attribute value. Unquoted numeric literals are stored with their
// parsed number so callers do not parse them again.
type Value struct {
	Text  string  `json:"text"`
	Num   float64 `json:"num,omitempty"`
	IsNum bool    `json:"isNum,omitempty"`
}

// StringValue returns a non-numeric Value.
func StringValue(s string) Value { return Value{Text: s} }

// NumberValue returns a numeric Value whose text is the literal lit.
func NumberValue(lit string, n float64) Value {
	return Value{Text: lit, Num: n, IsNum: true}
}

// String returns the value's text.
func (v Value) String() string { return v.Text }

// Float returns the value as a number, parsing the text when the value was not
// stored as a numeric literal.
func (v Value) Float() (float64, bool) {
	if v.IsNum {
		return v.Num, true
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// Param is a single attribute of a Field.
type Param struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Field is one declared block of a definition. Params[0] always holds the
// field's data type (as Name) and the field's own name (as Value).
type Field struct {
	Params   []Param  `json:"params"`
	Category Category `json:"category"`
	Handle   int      `json:"handle"`
	Line     int      `json:"line"`
}

// Type returns the field's data type token.
func (f *Field) Type() string { return f.Params[0].Name }

// Name returns the field's name.
func (f *Field) Name() string { return f.Params[0].Value.Text }

// Attr returns the first attribute named name (case-insensitive), ignoring the
// type/name parameter.
func (f *Field) Attr(name string) (Value, bool) {
	i := f.AttrIndex(name)
	if i < 0 {
		return Value{}, false
	}

	return f.Params[i].Value, true
}

// AttrIndex returns the parameter index of the first attribute named name, or
// -1 if the field has no such attribute.
func (f *Field) AttrIndex(name string) int {
	for i := 1; i < len(f.Params); i++ {
		if strings.EqualFold(f.Params[i].Name, name) {
			return i
		}
	}

	return -1
}

// Dependent is an attribute whose value is an expression that must be resolved
// against live field values. Expression may be rewritten by a form layer
// between resolution passes; all other fields are fixed.
type Dependent struct {
	Field      int    `json:"field"`
	Param      int    `json:"param"`
	Expression string `json:"expression"`
	Type       string `json:"type"`
}

// ListEntry is one decoded item of a list or select field.
type ListEntry struct {
	Label   string `json:"label"`
	Code    string `json:"code,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// Model is the result of parsing one definition text. It owns all state of
// that parse; nothing is shared between models.
type Model struct {
	fields      []*Field
	handles     [numCategories]int
	sections    int
	subsections int
	dependents  []Dependent
	warnings    []Warning
	checksum    uint64
	filename    string
}

// NumFields returns the number of parsed fields.
func (m *Model) NumFields() int { return len(m.fields) }

// Field returns the field at index f, or nil if f is out of range.
func (m *Model) Field(f int) *Field {
	if f < 0 || f >= len(m.fields) {
		return nil
	}

	return m.fields[f]
}

// Fields returns an iterator over the field indices and fields in parse order.
func (m *Model) Fields() iter.Seq2[int, *Field] {
	return func(yield func(int, *Field) bool) {
		for i, f := range m.fields {
			if !yield(i, f) {
				return
			}
		}
	}
}

// NumParams returns the number of parameters of field f, including the
// type/name parameter.
func (m *Model) NumParams(f int) int {
	fld := m.Field(f)
	if fld == nil {
		return 0
	}

	return len(fld.Params)
}

// ParamName returns the attribute name of parameter p of field f.
func (m *Model) ParamName(f, p int) string {
	fld := m.Field(f)
	if fld == nil || p < 0 || p >= len(fld.Params) {
		return ""
	}

	return fld.Params[p].Name
}

// ParamValue returns the value of parameter p of field f.
func (m *Model) ParamValue(f, p int) Value {
	fld := m.Field(f)
	if fld == nil || p < 0 || p >= len(fld.Params) {
		return Value{}
	}

	return fld.Params[p].Value
}

// FieldName returns the name of field f.
func (m *Model) FieldName(f int) string {
	fld := m.Field(f)
	if fld == nil {
		return ""
	}

	return fld.Name()
}

// FieldType returns the data type token of field f.
func (m *Model) FieldType(f int) string {
	fld := m.Field(f)
	if fld == nil {
		return ""
	}

	return fld.Type()
}

// FieldIndex returns the index of the first input field named name, or -1.
// Variable, section, and application declarations are not input fields.
func (m *Model) FieldIndex(name string) int {
	for i, f := range m.fields {
		if f.Name() == name && !isStructural(f.Type()) {
			return i
		}
	}

	return -1
}

// Category returns the GUI category of field f.
func (m *Model) Category(f int) Category {
	fld := m.Field(f)
	if fld == nil {
		return CategoryNone
	}

	return fld.Category
}

// Handle returns the GUI handle of field f: its zero-based index among fields
// of the same category, or -1 if the field has no category.
func (m *Model) Handle(f int) int {
	fld := m.Field(f)
	if fld == nil {
		return -1
	}

	return fld.Handle
}

// NumHandles returns the number of handles assigned in category c.
func (m *Model) NumHandles(c Category) int {
	if c <= CategoryNone || c >= numCategories {
		return 0
	}

	return m.handles[c]
}

// NumSections returns the number of top-level sections.
func (m *Model) NumSections() int { return m.sections }

// NumSubsections returns the number of nested sections.
func (m *Model) NumSubsections() int { return m.subsections }

// Warnings returns the lines the parser skipped.
func (m *Model) Warnings() []Warning { return m.warnings }

// Checksum returns the fingerprint of the source text the model was built
// from. See [Fingerprint].
func (m *Model) Checksum() uint64 { return m.checksum }

// Filename returns the name given with [WithFilename], if any.
func (m *Model) Filename() string { return m.filename }

// Attr returns attribute name of field f.
func (m *Model) Attr(f int, name string) (Value, bool) {
	fld := m.Field(f)
	if fld == nil {
		return Value{}, false
	}

	return fld.Attr(name)
}

func (m *Model) attrText(f int, name string) (string, bool) {
	v, ok := m.Attr(f, name)

	return v.Text, ok
}

// Minimum returns the "minimum" attribute of field f.
func (m *Model) Minimum(f int) (string, bool) { return m.attrText(f, "minimum") }

// Maximum returns the "maximum" attribute of field f.
func (m *Model) Maximum(f int) (string, bool) { return m.attrText(f, "maximum") }

// Default returns the "default" attribute of field f.
func (m *Model) Default(f int) (string, bool) { return m.attrText(f, "default") }

// Information returns the "information" attribute of field f, falling back to
// "prompt".
func (m *Model) Information(f int) (string, bool) {
	if s, ok := m.attrText(f, "information"); ok {
		return s, true
	}

	return m.attrText(f, "prompt")
}

// Help returns the "help" attribute of field f.
func (m *Model) Help(f int) (string, bool) { return m.attrText(f, "help") }

// application returns the index of the application declaration, or -1.
func (m *Model) application() int {
	for i, f := range m.fields {
		if isApplication(f.Type()) {
			return i
		}
	}

	return -1
}

// Application returns the name of the declared application.
func (m *Model) Application() string {
	return m.FieldName(m.application())
}

// IsBatchable reports whether the application declares itself suitable for
// batch submission.
func (m *Model) IsBatchable() bool {
	v, ok := m.Attr(m.application(), "batch")
	if !ok {
		return false
	}

	return ParseBool(v.Text)
}

// CPU returns the application's declared CPU usage hint (for example "low" or
// "high"), or "" if none.
func (m *Model) CPU() string {
	s, _ := m.attrText(m.application(), "cpu")

	return strings.ToLower(strings.TrimSpace(s))
}

// URLPrefix returns the application's documentation URL prefix, or "".
func (m *Model) URLPrefix() string {
	s, _ := m.attrText(m.application(), "url")

	return strings.TrimSpace(s)
}

// ParseBool interprets the boolean spellings used in definitions: Y/N,
// yes/no, true/false, 1/0 (case-insensitive). Anything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}
