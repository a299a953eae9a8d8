package acd

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsDependents(t *testing.T) {
	input := `application: demo
int: x [ maximum: $(y) ]
int: y [ default: 3 ]
float: z [ minimum: @($(x) + 1) information: "plain" ]
`

	tests := []struct {
		name  string
		field int
		total int
		want  []Dependent
	}{
		{
			name:  "after application",
			field: 0,
			total: 4,
			want: []Dependent{
				{Field: 1, Param: 1, Expression: "$(y)", Type: "int"},
				{Field: 3, Param: 1, Expression: "@($(x) + 1)", Type: "float"},
			},
		},
		{
			name:  "from start",
			field: -1,
			total: 4,
			want: []Dependent{
				{Field: 1, Param: 1, Expression: "$(y)", Type: "int"},
				{Field: 3, Param: 1, Expression: "@($(x) + 1)", Type: "float"},
			},
		},
		{
			name:  "strictly after field",
			field: 1,
			total: 4,
			want: []Dependent{
				{Field: 3, Param: 1, Expression: "@($(x) + 1)", Type: "float"},
			},
		},
		{
			name:  "total clamps scan",
			field: 0,
			total: 3,
			want: []Dependent{
				{Field: 1, Param: 1, Expression: "$(y)", Type: "int"},
			},
		},
		{
			name:  "total beyond fields",
			field: 2,
			total: 100,
			want: []Dependent{
				{Field: 3, Param: 1, Expression: "@($(x) + 1)", Type: "float"},
			},
		},
		{
			name:  "nothing after last field",
			field: 3,
			total: 4,
			want:  []Dependent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(context.Background(), input)

			found := m.IsDependents(tt.field, tt.total)
			if found != (len(tt.want) > 0) {
				t.Errorf("IsDependents: want %v, got %v", len(tt.want) > 0, found)
			}

			if got := m.NumDependents(); got != len(tt.want) {
				t.Errorf("NumDependents: want %d, got %d", len(tt.want), got)
			}

			if diff := cmp.Diff(tt.want, m.Dependents()); diff != "" {
				t.Errorf("dependents mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsDependents_SingleForward(t *testing.T) {
	m := Parse(context.Background(), "int: x [ maximum: $(y) ]\nint: y\n")

	if !m.IsDependents(-1, m.NumFields()) {
		t.Fatal("expected a dependent")
	}

	deps := m.Dependents()
	if len(deps) != 1 {
		t.Fatalf("expected exactly 1 dependent, got %d", len(deps))
	}

	d := deps[0]
	if m.FieldName(d.Field) != "x" || m.ParamName(d.Field, d.Param) != "maximum" {
		t.Errorf("unexpected dependent %+v", d)
	}
}

func TestIsDependents_Shorthand(t *testing.T) {
	input := `variable: gap "10.0"
var: ref $(gap)
float: g [ default: $(gap) maximum: $(other) ]
`

	m := Parse(context.Background(), input)
	m.IsDependents(-1, m.NumFields())

	want := []Dependent{
		{Field: 2, Param: 2, Expression: "$(other)", Type: "float"},
	}

	if diff := cmp.Diff(want, m.Dependents()); diff != "" {
		t.Errorf("dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestDependentsOn(t *testing.T) {
	input := `int: a [ maximum: $(len) ]
int: b [ maximum: $(length) minimum: $(seq.end) ]
int: c [ default: @($(len) * 2) ]
`

	m := Parse(context.Background(), input)
	m.IsDependents(-1, m.NumFields())

	tests := []struct {
		name string
		want []int
	}{
		{"len", []int{0, 3}},
		{"length", []int{1}},
		{"seq", []int{2}},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, m.DependentsOn(tt.name)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetExpression(t *testing.T) {
	m := Parse(context.Background(), "int: x [ maximum: $(y) ]\n")
	m.IsDependents(-1, m.NumFields())

	if !m.SetExpression(0, "@(1 + 1)") {
		t.Fatal("expected valid dependent index")
	}

	if got := m.Dependents()[0].Expression; got != "@(1 + 1)" {
		t.Errorf("expression: got %q", got)
	}

	// the model attribute itself is unchanged
	if got, _ := m.Maximum(0); got != "$(y)" {
		t.Errorf("maximum: got %q", got)
	}

	if m.SetExpression(1, "x") || m.SetExpression(-1, "x") {
		t.Error("expected out of range index to fail")
	}
}
