package acd

import "strings"

// Category groups data types that share one kind of input widget. Each field
// with a category receives a handle that indexes the widgets of that category.
type Category int

const (
	CategoryNone Category = iota
	CategoryText
	CategoryMultiText
	CategoryInteger
	CategoryFloat
	CategoryBoolean
	CategorySequence
	CategoryFileList
	CategorySingleSelect
	CategoryMultiSelect
	CategoryRange

	numCategories
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryText:
		return "text"
	case CategoryMultiText:
		return "multitext"
	case CategoryInteger:
		return "integer"
	case CategoryFloat:
		return "float"
	case CategoryBoolean:
		return "boolean"
	case CategorySequence:
		return "sequence"
	case CategoryFileList:
		return "filelist"
	case CategorySingleSelect:
		return "select"
	case CategoryMultiSelect:
		return "multiselect"
	case CategoryRange:
		return "range"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsSelect reports whether c is one of the select categories.
func (c Category) IsSelect() bool {
	return c == CategorySingleSelect || c == CategoryMultiSelect
}

// categoryPrefix maps data type prefixes to categories. Entries are tried in
// order and the first prefix match wins, so "seqout" is text even though it
// shares a prefix with the sequence types.
//
//nolint:gochecknoglobals
var categoryPrefix = []struct {
	prefix   []string
	category Category
}{
	{
		[]string{
			"datafile", "featout", "string", "seqout", "outfile",
			"matrix", "infile", "regexp", "codon", "dirlist",
		},
		CategoryText,
	},
	{[]string{"pattern"}, CategoryMultiText},
	{[]string{"int"}, CategoryInteger},
	{[]string{"float"}, CategoryFloat},
	{[]string{"bool"}, CategoryBoolean},
	{[]string{"seqset", "seqall", "sequence"}, CategorySequence},
	{[]string{"filelist"}, CategoryFileList},
	{[]string{"list", "select"}, CategorySingleSelect},
	{[]string{"range"}, CategoryRange},
}

// categorize returns the category of a field with data type typ. Select
// fields become multi-select when their maximum selection count exceeds one.
func categorize(typ string, maximum func() (float64, bool)) Category {
	for _, entry := range categoryPrefix {
		for _, prefix := range entry.prefix {
			if !strings.HasPrefix(typ, prefix) {
				continue
			}

			if entry.category == CategorySingleSelect {
				if n, ok := maximum(); ok && n > 1.0 {
					return CategoryMultiSelect
				}
			}

			return entry.category
		}
	}

	return CategoryNone
}

// Data type tokens with parser-level meaning.
const (
	typeVar         = "var"
	typeVariable    = "variable"
	typeSection     = "section"
	typeEndSection  = "endsection"
	typeApplication = "application"
	typeAppl        = "appl"
	typeToggle      = "toggle"
	typeBoolean     = "boolean"
	typeList        = "list"
	typeSelect      = "select"
)

// topSections are the section names counted as top-level sections.
//
//nolint:gochecknoglobals
var topSections = map[string]struct{}{
	"input":      {},
	"required":   {},
	"output":     {},
	"advanced":   {},
	"additional": {},
}

func isVariable(typ string) bool { return typ == typeVar || typ == typeVariable }

func isApplication(typ string) bool {
	return typ == typeApplication || typ == typeAppl
}

func isSection(typ string) bool {
	return typ == typeSection || typ == typeEndSection
}

// isStructural reports whether fields of type typ describe the definition
// rather than an input.
func isStructural(typ string) bool {
	return isVariable(typ) || isSection(typ) || isApplication(typ)
}

// normalizeType lowercases a data type token and maps aliases.
func normalizeType(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == typeToggle {
		return typeBoolean
	}

	return t
}
