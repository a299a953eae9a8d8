package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/form"
	"github.com/ardnew/acdform/log"
	"github.com/ardnew/acdform/resolve"
)

const (
	setPrompt  = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this cruft
  list         List input fields and their current values
  show NAME    Show every attribute of a field, resolved
  deps         List dependent attributes and their resolved text
  clear        Clear screen
  quit         Exit preview

Usage:
  Type NAME=VALUE to set a field; changed dependents are printed
  Type an attribute expression, like @($(window) * 2), to resolve it
  Type ?QUERY to evaluate an expr-lang query over the field values
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between set and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeSet inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	changeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true).Underline(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true).Underline(true)
)

// model is the Bubble Tea model for the preview.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *form.Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	setText      string
	setCursor    int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the interactive preview of session. The line history is kept in
// cacheDir.
func Run(
	ctx context.Context,
	session *form.Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	logger.TraceContext(
		ctx,
		"preview start",
		slog.String("cache_dir", cacheDir),
		slog.String("application", session.Application()),
		slog.Int("fields", session.NumFields()),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", history.path),
			slog.Any("error", err),
		)
	}

	m := newModel(ctx, session, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *form.Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(setPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeSet,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(setPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type NAME=VALUE, an expression, or ?QUERY (Esc for commands)"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(
			renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width),
		)
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"preview keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1), nil

	case tea.KeyDown:
		return m.historyStep(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeSet {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeSet), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step (1 or -1), wrapping around. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	next := input[:m.wordStart] + replacement + input[m.wordEnd:]
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(next)
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state. When
// autoConfirm is true and the typed word already equals the sole candidate,
// the completion is confirmed.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// historyStep moves through the history by step (1 or -1), switching mode to
// match each entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int) model {
	next := m.historyIdx + step
	if next < 0 {
		return m
	}

	if next >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)

		return m
	}

	entry, err := m.history.Entry(next)
	if err != nil {
		return m
	}

	m.historyIdx = next

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// switchToMode switches to the specified mode, preserving the input state of
// each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeSet {
		m.setText, m.setCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	if mode == modeSet {
		m.input.Prompt = promptStyle.Render(setPrompt)
		m.input.SetValue(m.setText)
		m.input.SetCursor(m.setCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.setText, m.setCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "preview input",
		slog.String("input", input))

	echo := tea.Println(promptStyle.Render(setPrompt) + inputStyle.Render(input))

	out, err := m.evaluate(input)
	if err != nil {
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "preview command",
		slog.String("input", input))

	switch name, _, _ := strings.Cut(input, " "); name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen
	}

	out, err := m.command(input)
	if err != nil {
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// evaluate applies one line of set-mode input to the session and returns the
// styled output. A line is one of:
//
//	?QUERY       an expr-lang query over the field values
//	NAME=VALUE   an assignment to an input field
//	TEXT         an attribute expression resolved against the session
func (m model) evaluate(input string) (string, error) {
	if query, ok := strings.CutPrefix(input, "?"); ok {
		out, err := m.session.Query(query)
		if err != nil {
			return "", err
		}

		return resultStyle.Render(fmt.Sprint(out)), nil
	}

	if name, value, ok := strings.Cut(input, "="); ok {
		name = strings.TrimSpace(name)
		if m.session.FieldIndex(name) >= 0 {
			return m.assign(name, strings.TrimSpace(value))
		}
	}

	text := resolve.Expression(input, "", "", m.session)
	if !resolve.IsResolved(text) {
		return errorStyle.Render(text), nil
	}

	return resultStyle.Render(text), nil
}

// assign sets field name and lists the dependents whose resolved text changed.
func (m model) assign(name, value string) (string, error) {
	changes, err := m.session.Set(name, value)
	if err != nil {
		return "", err
	}

	current, _ := m.session.Value(name)

	lines := []string{resultStyle.Render(name + " = " + current)}
	for _, c := range changes {
		m.logger.DebugContext(m.ctxFunc(), "dependent changed", slog.Any("change", c))

		lines = append(lines, changeStyle.Render(
			fmt.Sprintf("  %s.%s: %s → %s", c.Name, c.Attr, c.Old, c.New),
		))
	}

	return strings.Join(lines, "\n"), nil
}

// command runs a command-mode line other than quit and clear and returns its
// output.
func (m model) command(input string) (string, error) {
	args := strings.Fields(input)

	switch args[0] {
	case "h", "help":
		return helpMessage(), nil

	case "l", "list":
		return m.listFields(), nil

	case "s", "show":
		if len(args) < 2 {
			return "", ErrUnknownCommand.With(
				slog.String("command", args[0]),
				slog.String("reason", "missing field name"),
			)
		}

		return m.showField(args[1])

	case "d", "deps":
		return m.listDependents(), nil
	}

	return "", ErrUnknownCommand.With(slog.String("command", args[0]))
}

// listFields renders every input field with its category and current value.
func (m model) listFields() string {
	var b strings.Builder

	for _, f := range m.session.Inputs() {
		value, _ := resolve.Value(m.session, f)
		fmt.Fprintf(&b, "  %s %s %s\n",
			m.session.FieldName(f),
			hintStyle.Render("("+m.session.FieldType(f)+")"),
			resultStyle.Render(value),
		)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// showField renders every attribute of the field named name, resolved.
func (m model) showField(name string) (string, error) {
	f := m.session.FieldIndex(name)
	if f < 0 {
		return "", acd.ErrUnknownField.With(slog.String("field", name))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "  %s: %s\n", m.session.FieldType(f), name)

	for p := 1; p < m.session.NumParams(f); p++ {
		attr := m.session.ParamName(f, p)
		text, _ := m.session.Resolved(f, attr)
		fmt.Fprintf(&b, "    %s: %s\n", attr, resultStyle.Render(text))
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// listDependents renders every dependent attribute with its expression and
// current resolved text.
func (m model) listDependents() string {
	var b strings.Builder

	for _, d := range m.session.Dependents() {
		attr := m.session.ParamName(d.Field, d.Param)
		text, _ := m.session.Resolved(d.Field, attr)
		fmt.Fprintf(&b, "  %s.%s %s %s\n",
			m.session.FieldName(d.Field), attr,
			hintStyle.Render(d.Expression),
			resultStyle.Render(text),
		)
	}

	if b.Len() == 0 {
		return hintStyle.Render("  no dependents")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
