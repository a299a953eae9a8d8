package resolve

import (
	"strconv"
	"strings"

	"github.com/ardnew/acdform/acd"
)

const (
	variableMarker = "$("

	// Unresolved prefixes the name of a reference no source could answer.
	Unresolved = "UnresolvedToken"
)

// Form describes the fields of a form by index.
type Form interface {
	NumFields() int
	FieldName(f int) string
	FieldType(f int) string
	Category(f int) acd.Category
	Handle(f int) int
}

// Values reports the current state of the input widgets of a form, addressed
// by category and handle.
type Values interface {
	// Text returns the content of a text, multitext, filelist, range, or
	// sequence widget.
	Text(c acd.Category, handle int) string
	Int(handle int) int
	Float(handle int) float64
	Bool(handle int) bool
	// Selected returns the zero-based index of the first selected item, or -1
	// if nothing is selected.
	Selected(c acd.Category, handle int) int
	// SelectedLabel returns the labels of the selected items joined by ','.
	SelectedLabel(c acd.Category, handle int) string
}

// SequenceInfo holds the derived attributes of a loaded sequence.
type SequenceInfo struct {
	Protein bool
	Length  int
	Weight  float64
}

// Sequences reports the sequence context of a form.
type Sequences interface {
	// Sequence returns the sequence loaded into the field named name, or the
	// active sequence if name is empty or unknown.
	Sequence(name string) (SequenceInfo, bool)
}

// Live is everything the variable resolver may ask a form.
type Live interface {
	Form
	Values
	Sequences
}

// Variable replaces every $(ref) reference in text.
//
// Each ref is answered by the first source that knows it:
//
//  1. the derived attributes of the sequence context: ref.protein and
//     acdprotein, ref.length and ref.end, ref.begin (always 0), and
//     ref.totweight;
//  2. the caller's name, which resolves to value;
//  3. the current value of the input field named ref;
//  4. otherwise the reference becomes [Unresolved] followed by ref.
//
// References are replaced in one left-to-right pass. Unlike [Function], which
// repeats until no form evaluates, substituted values are not searched again,
// so a value containing $(ref) is returned as text rather than expanded, and a
// field whose value refers to itself cannot recurse. live may be nil, in which
// case only the caller's name resolves.
func Variable(text, name, value string, live Live) string {
	if !strings.Contains(text, variableMarker) {
		return text
	}

	var sb strings.Builder

	for {
		i := strings.Index(text, variableMarker)
		if i < 0 {
			break
		}

		j := strings.IndexByte(text[i+len(variableMarker):], ')')
		if j < 0 {
			break
		}

		end := i + len(variableMarker) + j
		ref := strings.TrimSpace(text[i+len(variableMarker) : end])

		sb.WriteString(text[:i])
		sb.WriteString(lookup(ref, name, value, live))

		text = text[end+1:]
	}

	sb.WriteString(text)

	return sb.String()
}

// Expression resolves the references of text with [Variable] and then
// evaluates its function forms with [Function]. It is what a form does to a
// dependent attribute whenever a field value changes.
func Expression(text, name, value string, live Live) string {
	return Function(Variable(text, name, value, live))
}

// IsResolved reports whether text holds no reference or function form.
func IsResolved(text string) bool {
	return !strings.Contains(text, variableMarker) &&
		!strings.Contains(text, functionMarker) &&
		!strings.Contains(text, Unresolved)
}

func lookup(ref, name, value string, live Live) string {
	if live != nil {
		if s, ok := sequenceAttr(ref, live); ok {
			return s
		}
	}

	if ref == name {
		return value
	}

	if live != nil {
		for f := range live.NumFields() {
			if live.FieldName(f) != ref {
				continue
			}

			if s, ok := Value(live, f); ok {
				return s
			}
		}
	}

	return Unresolved + ref
}

// sequenceAttr resolves the derived sequence attributes.
func sequenceAttr(ref string, seqs Sequences) (string, bool) {
	if ref == "acdprotein" {
		if info, ok := seqs.Sequence(""); ok {
			return strconv.FormatBool(info.Protein), true
		}

		return "", false
	}

	dot := strings.LastIndexByte(ref, '.')
	if dot < 0 {
		return "", false
	}

	base, attr := ref[:dot], strings.ToLower(ref[dot+1:])

	switch attr {
	case "protein", "length", "end", "begin", "totweight":
	default:
		return "", false
	}

	info, ok := seqs.Sequence(base)
	if !ok {
		return "", false
	}

	switch attr {
	case "protein":
		return strconv.FormatBool(info.Protein), true
	case "length", "end":
		return strconv.Itoa(info.Length), true
	case "begin":
		return "0", true
	default:
		return strconv.FormatFloat(info.Weight, 'f', -1, 64), true
	}
}

// Value returns the current value of field f as it is substituted into
// expressions. It reports false if f has no input widget.
func Value(live Live, f int) (string, bool) {
	c, h := live.Category(f), live.Handle(f)
	if c == acd.CategoryNone || h < 0 {
		return "", false
	}

	return widgetValue(c, h, live.FieldType(f), live), true
}

// widgetValue formats the state of widget h of category c. Single-select
// fields of a select type answer with their one-based index, other select
// and list fields with the selected label.
func widgetValue(c acd.Category, h int, typ string, v Values) string {
	switch c {
	case acd.CategoryInteger:
		return strconv.Itoa(v.Int(h))
	case acd.CategoryFloat:
		return strconv.FormatFloat(v.Float(h), 'f', -1, 64)
	case acd.CategoryBoolean:
		return strconv.FormatBool(v.Bool(h))
	case acd.CategorySingleSelect:
		if strings.HasPrefix(typ, "select") {
			return strconv.Itoa(v.Selected(c, h) + 1)
		}

		return v.SelectedLabel(c, h)
	case acd.CategoryMultiSelect:
		return v.SelectedLabel(c, h)
	default:
		return v.Text(c, h)
	}
}
