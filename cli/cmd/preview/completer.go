package preview

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/acdform/acd"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "list", "show", "deps", "clear", "quit"}

// sequenceAttrs are the derived attributes of a sequence field.
var sequenceAttrs = []string{"begin", "end", "length", "protein", "totweight"}

// queryAttrs are the members of "sequence" in a '?' query.
var queryAttrs = []string{"length", "name", "protein", "weight"}

// isWordBoundary reports whether r delimits a word for completion: whitespace,
// the attribute dot, and the punctuation of $( ) and @( ) forms and queries.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '$', '@',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. It returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// owner returns the word directly before a '.' that precedes wordStart, as in
// "asequence" for "$(asequence.le", or "" if the word is not an attribute.
func owner(input string, wordStart int) string {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return ""
	}

	word, _, _ := wordBounds(input, wordStart-1)

	return word
}

// candidates returns the completions for a word in set mode: the derived
// attributes after a sequence field and a dot, and otherwise every field
// name, plus the expr-lang builtins in a '?' query.
func (m model) candidates(input string, wordStart int) []string {
	query := strings.HasPrefix(strings.TrimSpace(input), "?")

	if name := owner(input, wordStart); name != "" {
		if query && name == "sequence" {
			return queryAttrs
		}

		f := m.session.FieldIndex(name)
		if f >= 0 && m.session.Category(f) == acd.CategorySequence {
			return sequenceAttrs
		}

		return nil
	}

	var names []string

	for _, f := range m.session.Inputs() {
		names = append(names, m.session.FieldName(f))
	}

	if query {
		names = append(names, "sequence")
		names = append(names, builtin.Names...)
	}

	return names
}

// computeMatches returns the fuzzy matches for the word at the cursor, ranked
// best-first, and the word boundaries. An empty word has no matches unless it
// follows an attribute dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var list []string

	if m.mode == modeCtrl {
		list = ctrlCommands
		if fields := strings.Fields(input[:wordStart]); len(fields) > 0 &&
			fields[0] == "show" {
			list = m.candidates("", 0)
		}
	} else {
		list = m.candidates(input, wordStart)
	}

	if len(list) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if owner(input, wordStart) == "" {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(list))
		for i, c := range list {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, list), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1
		if i > 0 && used+entryWidth+ellipsisWidth > width && !last {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Query builtins are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if _, ok := builtin.Index[match.Str]; ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
