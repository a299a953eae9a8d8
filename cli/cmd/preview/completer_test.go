package preview

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "win", 3, "win", 0, 3},
		{"assignment", "window=2", 8, "2", 7, 8},
		{"in_variable", "$(win", 5, "win", 2, 5},
		{"after_dot", "$(asequence.len", 15, "len", 12, 15},
		{"empty_after_dot", "$(asequence.", 12, "", 12, 12},
		{"in_function", "@($(a) + fo", 11, "fo", 9, 11},
		{"in_query", "?window * 2 + ma", 16, "ma", 14, 16},
		{"mid_word", "window", 3, "window", 0, 6},
		{"at_boundary", "a + ", 4, "", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOwner(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "win", 0, ""},
		{"no_dot", "$(win", 2, ""},
		{"variable", "$(asequence.", 12, "asequence"},
		{"query", "?sequence.", 10, "sequence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := owner(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("owner(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestModel_Candidates(t *testing.T) {
	m := testModel(t)

	fields := m.candidates("win", 0)
	if !slices.Contains(fields, "window") || slices.Contains(fields, "len") {
		t.Errorf("field candidates = %v", fields)
	}

	if attrs := m.candidates("$(asequence.", 12); !slices.Equal(attrs, sequenceAttrs) {
		t.Errorf("sequence attributes = %v, want %v", attrs, sequenceAttrs)
	}

	if attrs := m.candidates("$(window.", 9); attrs != nil {
		t.Errorf("non-sequence attributes = %v, want none", attrs)
	}

	query := m.candidates("?le", 1)
	if !slices.Contains(query, "len") || !slices.Contains(query, "sequence") {
		t.Errorf("query candidates missing builtins: %v", query)
	}

	if attrs := m.candidates("?sequence.", 10); !slices.Equal(attrs, queryAttrs) {
		t.Errorf("query sequence attributes = %v, want %v", attrs, queryAttrs)
	}
}

func TestModel_ComputeMatches(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("$(asequence.")
	m.input.SetCursor(12)

	matches, start, end := m.computeMatches()
	if len(matches) != len(sequenceAttrs) || start != 12 || end != 12 {
		t.Errorf("computeMatches() = %d matches [%d:%d], want %d [12:12]",
			len(matches), start, end, len(sequenceAttrs))
	}

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("show gap")
	m.input.SetCursor(8)

	matches, _, _ = m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "gapext" {
		t.Errorf("show completion = %v, want gapext first", matches)
	}

	m.input.SetValue("")
	m.input.SetCursor(0)

	if matches, _, _ = m.computeMatches(); len(matches) != 0 {
		t.Errorf("empty input matched %d candidates", len(matches))
	}
}
