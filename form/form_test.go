package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/resolve"
)

const water = `application: water [ documentation: "Smith-Waterman local alignment" ]

sequence: asequence [ type: any ]
int: window [
  default: 10
  minimum: 1
  maximum: @($(asequence.length) / 2)
]
float: gapopen [ default: 10.0 ]
boolean: verbose [ default: N ]
list: matrix [ values: "B:Blosum62;P:PAM250" default: B ]
select: frame [ values: "one;two;three" default: 2 ]
float: gapext [
  default: 0.5
  maximum: @(@($(matrix) == Blosum62) ? 5 : 10)
  information: "Extension for $(matrix)"
]
string: title [ default: "Run $(verbose)" ]
`

func newSession(t *testing.T) *Session {
	t.Helper()

	model := acd.Parse(context.Background(), water)
	require.Empty(t, model.Warnings())

	return New(model, WithSequence("asequence", resolve.SequenceInfo{
		Protein: true,
		Length:  350,
	}))
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name string
		want string
	}{
		{"window", "10"},
		{"gapopen", "10"},
		{"verbose", "false"},
		{"matrix", "Blosum62"},
		{"frame", "2"},
		{"gapext", "0.5"},
		{"title", "Run false"},
		{"asequence", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Value(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	require.Equal(t, 2, s.NumDependents())

	window := s.FieldIndex("window")
	got, ok := s.Resolved(window, "maximum")
	require.True(t, ok)
	require.Equal(t, "175", got)

	gapext := s.FieldIndex("gapext")
	got, _ = s.Resolved(gapext, "maximum")
	require.Equal(t, "5", got)

	// attributes that are not dependents keep their parsed text
	got, _ = s.Resolved(gapext, "information")
	require.Equal(t, "Extension for $(matrix)", got)
}

func TestSet(t *testing.T) {
	s := newSession(t)

	changes, err := s.Set("matrix", "P")
	require.NoError(t, err)
	require.Equal(t, []Change{{
		Field: s.FieldIndex("gapext"),
		Param: 2,
		Name:  "gapext",
		Attr:  "maximum",
		Old:   "5",
		New:   "10",
	}}, changes)

	value, _ := s.Value("matrix")
	require.Equal(t, "PAM250", value)

	// setting the same value again changes nothing
	changes, err = s.Set("matrix", "PAM250")
	require.NoError(t, err)
	require.Empty(t, changes)

	changes, err = s.Set("frame", "three")
	require.NoError(t, err)
	require.Empty(t, changes)

	value, _ = s.Value("frame")
	require.Equal(t, "3", value)

	_, err = s.Set("verbose", "yes")
	require.NoError(t, err)

	value, _ = s.Value("verbose")
	require.Equal(t, "true", value)
}

func TestSet_Invalid(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name  string
		field string
		value string
		want  error
	}{
		{"unknown field", "nope", "1", acd.ErrUnknownField},
		{"not an integer", "window", "ten", acd.ErrInvalidValue},
		{"above maximum", "window", "200", acd.ErrInvalidValue},
		{"below minimum", "window", "0", acd.ErrInvalidValue},
		{"not a number", "gapopen", "abc", acd.ErrInvalidValue},
		{"not a boolean", "verbose", "maybe", acd.ErrInvalidValue},
		{"no such item", "matrix", "X", acd.ErrInvalidValue},
		{"position out of range", "frame", "4", acd.ErrInvalidValue},
		{"no widget", "water", "x", acd.ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Set(tt.field, tt.value)
			require.ErrorIs(t, err, tt.want)
		})
	}

	// failed sets leave the value alone
	value, _ := s.Value("window")
	require.Equal(t, "10", value)
}

func TestSetSequence(t *testing.T) {
	s := newSession(t)

	changes := s.SetSequence("asequence", resolve.SequenceInfo{Length: 100})
	require.Len(t, changes, 1)
	require.Equal(t, "window", changes[0].Name)
	require.Equal(t, "175", changes[0].Old)
	require.Equal(t, "50", changes[0].New)

	// the new maximum is enforced
	_, err := s.Set("window", "60")
	require.ErrorIs(t, err, acd.ErrInvalidValue)

	_, err = s.Set("window", "50")
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	s := newSession(t)

	deps := s.Dependents()
	require.Len(t, deps, 2)

	require.True(t, s.SetExpression(0, "@($(window) * 3)"))

	changes := s.Refresh()
	require.Len(t, changes, 1)
	require.Equal(t, "30", changes[0].New)
}

func TestEntries(t *testing.T) {
	s := newSession(t)

	entries, selected := s.Entries(s.FieldIndex("matrix"))
	require.Len(t, entries, 2)
	require.Equal(t, []int{0}, selected)

	entries, selected = s.Entries(s.FieldIndex("window"))
	require.Empty(t, entries)
	require.Empty(t, selected)

	require.Len(t, s.Inputs(), 8)
}

func TestQuery(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		source string
		want   any
	}{
		{"window * 2", 20},
		{"gapopen + gapext", 10.5},
		{"matrix == 'Blosum62' && !verbose", true},
		{"sequence.length", 350},
		{"frame", "two"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := s.Query(tt.source)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := s.Query("window +")
	require.ErrorIs(t, err, ErrQueryCompile)
}
