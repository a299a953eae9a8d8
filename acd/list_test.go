package acd

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		entries  []ListEntry
		defaults []int
	}{
		{
			name:  "code and label",
			input: `list: m [ values: "A:Alpha;B:Beta;C:Gamma" default: B ]`,
			entries: []ListEntry{
				{Label: "Alpha", Code: "A"},
				{Label: "Beta", Code: "B", Default: true},
				{Label: "Gamma", Code: "C"},
			},
			defaults: []int{1},
		},
		{
			name: "multi-line values",
			input: `list: m [
  values: "A:Alpha;
           B:Beta;
           C:Gamma;"
  default: "a, C"
]`,
			entries: []ListEntry{
				{Label: "Alpha", Code: "A", Default: true},
				{Label: "Beta", Code: "B"},
				{Label: "Gamma", Code: "C", Default: true},
			},
			defaults: []int{0, 2},
		},
		{
			name:  "custom delimiters",
			input: `list: m [ values: "a=x|b=y" delimiter: "|" codedelim: "=" default: b ]`,
			entries: []ListEntry{
				{Label: "x", Code: "a"},
				{Label: "y", Code: "b", Default: true},
			},
			defaults: []int{1},
		},
		{
			name:  "item without code",
			input: `list: m [ value: "plain;k:keyed" ]`,
			entries: []ListEntry{
				{Label: "plain", Code: "plain"},
				{Label: "keyed", Code: "k"},
			},
		},
		{
			name:  "no values",
			input: `list: m`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(context.Background(), tt.input)

			entries, defaults := m.DecodeList(0)

			if diff := cmp.Diff(tt.entries, entries); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}

			if diff := cmp.Diff(tt.defaults, defaults); diff != "" {
				t.Errorf("defaults mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeSelect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		labels   []string
		defaults []int
	}{
		{
			name:     "label match",
			input:    `select: s [ values: "one;two;three" default: two ]`,
			labels:   []string{"one", "two", "three"},
			defaults: []int{1},
		},
		{
			name:     "position match",
			input:    `select: s [ values: "one;two;three" default: 3 ]`,
			labels:   []string{"one", "two", "three"},
			defaults: []int{2},
		},
		{
			name:     "label and position",
			input:    `select: s [ values: "one;two;three" default: "3 ONE" ]`,
			labels:   []string{"one", "two", "three"},
			defaults: []int{0, 2},
		},
		{
			name:     "numeric labels try both",
			input:    `select: s [ values: "2;4;6" default: 2 ]`,
			labels:   []string{"2", "4", "6"},
			defaults: []int{0, 1},
		},
		{
			name:     "no default",
			input:    `select: s [ values: "a;b" ]`,
			labels:   []string{"a", "b"},
			defaults: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(context.Background(), tt.input)

			entries, defaults := m.Decode(0)

			labels := make([]string, 0, len(entries))
			for _, e := range entries {
				labels = append(labels, e.Label)
			}

			if diff := cmp.Diff(tt.labels, labels); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}

			if diff := cmp.Diff(tt.defaults, defaults); diff != "" {
				t.Errorf("defaults mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
