package acd

import (
	"slices"
	"strconv"
	"strings"
)

// Default delimiters of list and select values.
const (
	DefaultDelimiter     = ";"
	DefaultCodeDelimiter = ":"
)

// enumValues returns the raw enumerated value text of field f.
func (m *Model) enumValues(f int) string {
	for _, name := range []string{"values", "value"} {
		if v, ok := m.Attr(f, name); ok {
			return v.Text
		}
	}

	return ""
}

// delimiters returns the item and code delimiters of field f.
func (m *Model) delimiters(f int) (item, code string) {
	item, code = DefaultDelimiter, DefaultCodeDelimiter

	if v, ok := m.Attr(f, "delimiter"); ok && v.Text != "" {
		item = v.Text
	}

	if v, ok := m.Attr(f, "codedelim"); ok && v.Text != "" {
		code = v.Text
	}

	return item, code
}

// defaultTokens splits the default attribute of field f into its tokens.
func (m *Model) defaultTokens(f int) []string {
	s, ok := m.Default(f)
	if !ok {
		return nil
	}

	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// DecodeList decodes the values of a list field, whose items have the form
// code:label. Default tokens are matched against item codes. It returns the
// entries in declaration order and the sorted zero-based default indices.
func (m *Model) DecodeList(f int) ([]ListEntry, []int) {
	delim, codeDelim := m.delimiters(f)
	tokens := m.defaultTokens(f)

	var (
		entries  []ListEntry
		defaults []int
	)

	for _, item := range strings.Split(m.enumValues(f), delim) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		code, label, ok := strings.Cut(item, codeDelim)
		if !ok {
			label = code
		}

		entry := ListEntry{
			Label: strings.TrimSpace(label),
			Code:  strings.TrimSpace(code),
		}

		if slices.ContainsFunc(tokens, func(t string) bool {
			return strings.EqualFold(t, entry.Code)
		}) {
			entry.Default = true
			defaults = append(defaults, len(entries))
		}

		entries = append(entries, entry)
	}

	return entries, defaults
}

// DecodeSelect decodes the values of a select field, whose items are plain
// labels. A default token matches an item by its label or by its one-based
// position; both are tried, so a numeric label and a position may select
// different items at once.
func (m *Model) DecodeSelect(f int) ([]ListEntry, []int) {
	delim, _ := m.delimiters(f)
	tokens := m.defaultTokens(f)

	var (
		entries  []ListEntry
		defaults []int
	)

	for _, item := range strings.Split(m.enumValues(f), delim) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		entry := ListEntry{Label: item}
		pos := strconv.Itoa(len(entries) + 1)

		if slices.ContainsFunc(tokens, func(t string) bool {
			return strings.EqualFold(t, item) || t == pos
		}) {
			entry.Default = true
			defaults = append(defaults, len(entries))
		}

		entries = append(entries, entry)
	}

	return entries, defaults
}

// Decode decodes field f with [Model.DecodeSelect] if its data type is
// select, and with [Model.DecodeList] otherwise.
func (m *Model) Decode(f int) ([]ListEntry, []int) {
	if strings.HasPrefix(m.FieldType(f), typeSelect) {
		return m.DecodeSelect(f)
	}

	return m.DecodeList(f)
}
