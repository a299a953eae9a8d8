package preview

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/form"
	"github.com/ardnew/acdform/log"
	"github.com/ardnew/acdform/resolve"
)

const demo = `application: demo [ documentation: "Demo form" ]
sequence: asequence [ type: any ]
int: window [ default: 10 maximum: @($(asequence.length) / 2) ]
list: matrix [ values: "B:Blosum62;P:PAM250" default: B ]
select: frame [ values: "one;two;three" default: 2 ]
float: gapext [ default: 0.5 maximum: @(@($(matrix) == Blosum62) ? 5 : 10) ]
string: title [ default: "Run $(window)" ]
`

// testModel returns a model over the demo form with a 100-residue sequence
// and a history file in a temporary directory.
func testModel(t *testing.T) model {
	t.Helper()

	ctx := context.Background()
	logger := log.Make(io.Discard)

	s := form.New(acd.Parse(ctx, demo),
		form.WithLogger(logger),
		form.WithSequence("asequence", resolve.SequenceInfo{Length: 100}),
	)

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(ctx, s, history, logger)
}

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		wantErr  error
	}{
		{
			name:     "assign",
			input:    "window = 20",
			contains: []string{"window = 20"},
		},
		{
			name:     "assign with change",
			input:    "matrix=P",
			contains: []string{"gapext.maximum: 5 → 10"},
		},
		{
			name:     "expression",
			input:    "@($(window) * 3)",
			contains: []string{"30"},
		},
		{
			name:     "sequence attribute",
			input:    "$(asequence.length)",
			contains: []string{"100"},
		},
		{
			name:     "unresolved",
			input:    "$(missing)",
			contains: []string{resolve.Unresolved + "missing"},
		},
		{
			name:     "query",
			input:    "?window + sequence.length",
			contains: []string{"110"},
		},
		{
			name:    "invalid value",
			input:   "window=abc",
			wantErr: acd.ErrInvalidValue,
		},
		{
			name:    "above maximum",
			input:   "window=51",
			wantErr: acd.ErrInvalidValue,
		},
		{
			name:    "bad query",
			input:   "?window +",
			wantErr: form.ErrQueryCompile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)

			out, err := m.evaluate(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("evaluate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("evaluate(%q) error = %v", tt.input, err)
			}

			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("evaluate(%q) = %q, missing %q", tt.input, out, want)
				}
			}
		})
	}
}

func TestModel_Command(t *testing.T) {
	tests := []struct {
		input    string
		contains []string
		wantErr  error
	}{
		{input: "help", contains: []string{"show NAME"}},
		{input: "list", contains: []string{"window", "(int)", "Blosum62"}},
		{input: "show window", contains: []string{"int: window", "maximum:", "50"}},
		{input: "deps", contains: []string{"window.maximum", "gapext.maximum"}},
		{input: "show missing", wantErr: acd.ErrUnknownField},
		{input: "show", wantErr: ErrUnknownCommand},
		{input: "bogus", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := testModel(t).command(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("command(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("command(%q) error = %v", tt.input, err)
			}

			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("command(%q) = %q, missing %q", tt.input, out, want)
				}
			}
		})
	}
}

func typeRunes(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func TestModel_HandleKey(t *testing.T) {
	m := testModel(t)

	m = typeRunes(m, "win")
	if len(m.matches) != 1 || m.matches[0].Str != "window" {
		t.Fatalf("matches = %v, want [window]", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "window" {
		t.Fatalf("after Tab input = %q, want window", got)
	}

	m = typeRunes(m, "=20")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if got, _ := m.session.Value("window"); got != "20" {
		t.Errorf("window = %q after Enter, want 20", got)
	}

	if m.input.Value() != "" || m.history.Len() != 1 {
		t.Errorf("input %q, history %d after Enter", m.input.Value(), m.history.Len())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl {
		t.Fatalf("Esc did not switch to command mode")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if m.mode != modeSet || m.input.Value() != "window=20" {
		t.Errorf("history recall = (%d, %q), want set mode window=20",
			m.mode, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" {
		t.Errorf("input after Down = %q, want empty", m.input.Value())
	}

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+D on empty input did not quit")
	}
}

func TestRun_NoSession(t *testing.T) {
	err := Run(context.Background(), nil, t.TempDir(), log.Make(io.Discard))
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Run() error = %v, want ErrNoSession", err)
	}
}
