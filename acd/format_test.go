package acd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFormat_Simple(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "no attributes",
			input:  `int: x`,
			indent: 0,
			want:   "int: x\n",
		},
		{
			name:   "bare and numeric",
			input:  `int: x [ maximum: $(y) default: 3 ]`,
			indent: 0,
			want:   "int: x [ maximum: $(y) default: 3 ]\n",
		},
		{
			name:   "quoted",
			input:  `string: s [ help: "two   words" default: "42" ]`,
			indent: 0,
			want:   `string: s [ help: "two words" default: "42" ]` + "\n",
		},
		{
			name:   "expression with spaces",
			input:  `int: x [ maximum: @($(y) + 1) ]`,
			indent: 0,
			want:   "int: x [ maximum: @($(y) + 1) ]\n",
		},
		{
			name:   "variable",
			input:  `variable: gap "1 2"`,
			indent: 0,
			want:   `variable: gap "1 2"` + "\n",
		},
		{
			name:   "indented",
			input:  "section: input\nint: x [ default: 1 ]\nendsection: input\n",
			indent: 2,
			want:   "section: input\n\n  int: x [\n    default: 1\n  ]\nendsection: input\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(context.Background(), tt.input)

			var buf bytes.Buffer
			if err := m.Format(context.Background(), &buf, tt.indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("format mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	input := needle + `
section: input [ information: "Input section" ]
  list: matrix [ values: "B:Blosum62;P:PAM250" default: B ]
  float: gapopen [ default: 10.0 maximum: @($(matrix) == B ? 100 : 50) ]
endsection: input
`

	for _, indent := range []int{0, 2, 4} {
		m := Parse(context.Background(), input)

		var buf bytes.Buffer
		if err := m.Format(context.Background(), &buf, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again := Parse(context.Background(), buf.String())

		if len(again.Warnings()) != 0 {
			t.Errorf("indent %d: unexpected warnings: %v", indent, again.Warnings())
		}

		opt := cmpopts.IgnoreFields(Field{}, "Line")
		if diff := cmp.Diff(m.fields, again.fields, opt); diff != "" {
			t.Errorf("indent %d: fields mismatch (-want +got):\n%s", indent, diff)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	m := Parse(context.Background(), needle)
	m.IsDependents(-1, m.NumFields())

	var buf bytes.Buffer
	if err := m.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var doc document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc.Application != "needle" {
		t.Errorf("application: got %q", doc.Application)
	}

	if len(doc.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(doc.Fields))
	}

	x := doc.Fields[1]
	if x.Name != "x" || x.Category != "integer" || x.Handle == nil || *x.Handle != 0 {
		t.Errorf("unexpected field %+v", x)
	}

	if doc.Fields[0].Handle != nil {
		t.Error("expected no handle for the application field")
	}

	if len(doc.Dependents) != 1 {
		t.Errorf("expected 1 dependent, got %d", len(doc.Dependents))
	}
}

func TestFormatYAML(t *testing.T) {
	m := Parse(context.Background(), needle)

	var buf bytes.Buffer
	if err := m.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"application: needle",
		"name: flag",
		"category: boolean",
		"type: string",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected YAML output to contain %q:\n%s", want, out)
		}
	}
}
