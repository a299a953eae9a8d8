package form

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/log"
	"github.com/ardnew/acdform/resolve"
)

// Session holds the live state of one form built from a [acd.Model]: a value
// for every input field and the current resolved text of every dependent
// attribute. It implements [resolve.Live].
//
// A Session is not safe for concurrent use.
type Session struct {
	*acd.Model

	widgets  []*widget
	handles  map[acd.Category][]*widget
	resolved []string

	sequences map[string]resolve.SequenceInfo
	active    string

	logger log.Logger
}

// widget is the state of one input field.
type widget struct {
	text     string
	num      int
	flt      float64
	on       bool
	entries  []acd.ListEntry
	selected []int
}

// Change describes a dependent attribute whose resolved text changed.
type Change struct {
	Field int
	Param int
	Name  string
	Attr  string
	Old   string
	New   string
}

// LogValue implements slog.LogValuer.
func (c Change) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", c.Name),
		slog.String("attr", c.Attr),
		slog.String("old", c.Old),
		slog.String("new", c.New),
	)
}

// New creates a session over model. Every input field starts at its default
// attribute, resolved against the values seeded before it, or at the zero
// value of its category. All dependents of the model are then collected and
// resolved.
func New(model *acd.Model, opts ...Option) *Session {
	cfg := makeConfig(opts...)

	s := &Session{
		Model:     model,
		widgets:   make([]*widget, model.NumFields()),
		handles:   make(map[acd.Category][]*widget),
		sequences: cfg.sequences,
		active:    cfg.active,
		logger:    cfg.logger,
	}

	for f, fld := range model.Fields() {
		if fld.Category == acd.CategoryNone || fld.Handle < 0 {
			continue
		}

		w := &widget{}
		if fld.Category.IsSelect() {
			w.entries, w.selected = model.Decode(f)
		}

		s.widgets[f] = w

		hs := s.handles[fld.Category]
		for len(hs) <= fld.Handle {
			hs = append(hs, nil)
		}

		hs[fld.Handle] = w
		s.handles[fld.Category] = hs
	}

	for f, w := range s.widgets {
		if w != nil {
			s.seed(f, w)
		}
	}

	model.IsDependents(-1, model.NumFields())

	s.resolved = make([]string, model.NumDependents())
	for i, d := range model.Dependents() {
		s.resolved[i] = resolve.Expression(d.Expression, "", "", s)
	}

	s.logger.Debug("form session ready",
		slog.String("application", model.Application()),
		slog.Int("fields", model.NumFields()),
		slog.Int("dependents", model.NumDependents()),
	)

	return s
}

// seed sets the initial value of field f from its default attribute.
func (s *Session) seed(f int, w *widget) {
	c := s.Category(f)

	if c.IsSelect() {
		if len(w.selected) == 0 && c == acd.CategorySingleSelect &&
			len(w.entries) > 0 {
			w.selected = []int{0}
		}

		return
	}

	def, ok := s.Default(f)
	if !ok {
		return
	}

	value := resolve.Expression(def, "", "", s)
	if !resolve.IsResolved(value) {
		s.logger.Debug("default not resolved",
			slog.String("field", s.FieldName(f)),
			slog.String("default", def),
			slog.String("resolved", value),
		)

		return
	}

	if err := s.assign(f, w, value); err != nil {
		s.logger.Debug("default ignored",
			slog.String("field", s.FieldName(f)),
			slog.Any("error", err),
		)
	}
}

// Set changes the value of the input field named name and re-resolves every
// dependent whose expression references it. It returns the dependents whose
// resolved text changed.
//
// The value is validated for the field's category: integers and floats must
// parse and lie within the field's resolved minimum and maximum, booleans
// accept Y/N, yes/no, true/false, and 1/0, and select fields accept an item
// label, code, or one-based position (comma-separated for multi-select).
func (s *Session) Set(name, value string) ([]Change, error) {
	f := s.FieldIndex(name)
	if f < 0 {
		return nil, acd.ErrUnknownField.With(slog.String("field", name))
	}

	w := s.widgets[f]
	if w == nil {
		return nil, acd.ErrInvalidValue.With(
			slog.String("field", name),
			slog.String("reason", "field has no input widget"),
		)
	}

	err := s.assign(f, w, value)
	if err != nil {
		return nil, err
	}

	current, _ := resolve.Value(s, f)

	s.logger.Debug("field value set",
		slog.String("field", name),
		slog.String("value", current),
	)

	return s.refresh(s.DependentsOn(name), name, current), nil
}

// SetSequence loads a sequence into the field named name, makes it the active
// sequence, and re-resolves every dependent.
func (s *Session) SetSequence(name string, info resolve.SequenceInfo) []Change {
	s.sequences[name] = info
	s.active = name

	return s.refresh(s.all(), "", "")
}

// all returns the indices of every dependent.
func (s *Session) all() []int {
	idx := make([]int, s.NumDependents())
	for i := range idx {
		idx[i] = i
	}

	return idx
}

// refresh re-resolves the dependents at the given indices.
func (s *Session) refresh(idx []int, name, value string) []Change {
	var changes []Change

	deps := s.Dependents()
	if len(s.resolved) != len(deps) {
		s.resolved = make([]string, len(deps))
	}

	for _, i := range idx {
		d := deps[i]
		next := resolve.Expression(d.Expression, name, value, s)

		if next == s.resolved[i] {
			continue
		}

		c := Change{
			Field: d.Field,
			Param: d.Param,
			Name:  s.FieldName(d.Field),
			Attr:  s.ParamName(d.Field, d.Param),
			Old:   s.resolved[i],
			New:   next,
		}

		s.resolved[i] = next
		changes = append(changes, c)

		s.logger.Trace("dependent resolved", slog.Any("change", c))
	}

	return changes
}

// Resolved returns the current text of attribute attr of field f: the
// resolved text if the attribute is a dependent, and the parsed text
// otherwise.
func (s *Session) Resolved(f int, attr string) (string, bool) {
	for i, d := range s.Dependents() {
		if d.Field == f && i < len(s.resolved) &&
			strings.EqualFold(s.ParamName(f, d.Param), attr) {
			return s.resolved[i], true
		}
	}

	v, ok := s.Attr(f, attr)

	return v.Text, ok
}

// Value returns the current value of the input field named name as it is
// substituted into expressions.
func (s *Session) Value(name string) (string, bool) {
	f := s.FieldIndex(name)
	if f < 0 {
		return "", false
	}

	return resolve.Value(s, f)
}

// Inputs returns the indices of the fields that have an input widget.
func (s *Session) Inputs() []int {
	var idx []int

	for f, w := range s.widgets {
		if w != nil {
			idx = append(idx, f)
		}
	}

	return idx
}

// Entries returns the decoded items of select field f and the indices of the
// items currently selected.
func (s *Session) Entries(f int) ([]acd.ListEntry, []int) {
	if f < 0 || f >= len(s.widgets) || s.widgets[f] == nil {
		return nil, nil
	}

	w := s.widgets[f]

	return w.entries, slices.Clone(w.selected)
}

// assign validates value for field f and stores it in w.
func (s *Session) assign(f int, w *widget, value string) error {
	invalid := func(reason string, err error) error {
		e := acd.ErrInvalidValue
		if err != nil {
			e = e.Wrap(err)
		}

		return e.With(
			slog.String("field", s.FieldName(f)),
			slog.String("value", value),
			slog.String("reason", reason),
		)
	}

	value = strings.TrimSpace(value)

	switch c := s.Category(f); c {
	case acd.CategoryInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("not an integer", err)
		}

		if reason := s.checkRange(f, float64(n)); reason != "" {
			return invalid(reason, nil)
		}

		w.num = n

	case acd.CategoryFloat:
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid("not a number", err)
		}

		if reason := s.checkRange(f, x); reason != "" {
			return invalid(reason, nil)
		}

		w.flt = x

	case acd.CategoryBoolean:
		on, ok := parseBool(value)
		if !ok {
			return invalid("not a boolean", nil)
		}

		w.on = on

	case acd.CategorySingleSelect, acd.CategoryMultiSelect:
		tokens := []string{value}
		if c == acd.CategoryMultiSelect {
			tokens = strings.FieldsFunc(value, func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t'
			})
		}

		var selected []int

		for _, tok := range tokens {
			i := match(w.entries, tok)
			if i < 0 {
				return invalid("no such item: "+tok, nil)
			}

			if !slices.Contains(selected, i) {
				selected = append(selected, i)
			}
		}

		slices.Sort(selected)
		w.selected = selected

	default:
		w.text = value
	}

	return nil
}

// checkRange returns a reason if x is outside the resolved numeric bounds of
// field f. Bounds that are not numbers are ignored.
func (s *Session) checkRange(f int, x float64) string {
	if v, ok := s.Resolved(f, "minimum"); ok {
		if lo, err := strconv.ParseFloat(v, 64); err == nil && x < lo {
			return "below minimum " + v
		}
	}

	if v, ok := s.Resolved(f, "maximum"); ok {
		if hi, err := strconv.ParseFloat(v, 64); err == nil && x > hi {
			return "above maximum " + v
		}
	}

	return ""
}

// match returns the index of the entry tok names by label, code, or one-based
// position, or -1.
func match(entries []acd.ListEntry, tok string) int {
	for i, e := range entries {
		if strings.EqualFold(tok, e.Label) ||
			(e.Code != "" && strings.EqualFold(tok, e.Code)) {
			return i
		}
	}

	if n, err := strconv.Atoi(tok); err == nil && n >= 1 && n <= len(entries) {
		return n - 1
	}

	return -1
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}

// Text implements [resolve.Values].
func (s *Session) Text(c acd.Category, handle int) string {
	if w := s.widget(c, handle); w != nil {
		return w.text
	}

	return ""
}

// Int implements [resolve.Values].
func (s *Session) Int(handle int) int {
	if w := s.widget(acd.CategoryInteger, handle); w != nil {
		return w.num
	}

	return 0
}

// Float implements [resolve.Values].
func (s *Session) Float(handle int) float64 {
	if w := s.widget(acd.CategoryFloat, handle); w != nil {
		return w.flt
	}

	return 0
}

// Bool implements [resolve.Values].
func (s *Session) Bool(handle int) bool {
	if w := s.widget(acd.CategoryBoolean, handle); w != nil {
		return w.on
	}

	return false
}

// Selected implements [resolve.Values].
func (s *Session) Selected(c acd.Category, handle int) int {
	if w := s.widget(c, handle); w != nil && len(w.selected) > 0 {
		return w.selected[0]
	}

	return -1
}

// SelectedLabel implements [resolve.Values].
func (s *Session) SelectedLabel(c acd.Category, handle int) string {
	w := s.widget(c, handle)
	if w == nil {
		return ""
	}

	labels := make([]string, 0, len(w.selected))
	for _, i := range w.selected {
		labels = append(labels, w.entries[i].Label)
	}

	return strings.Join(labels, ",")
}

// Sequence implements [resolve.Sequences].
func (s *Session) Sequence(name string) (resolve.SequenceInfo, bool) {
	if info, ok := s.sequences[name]; ok {
		return info, true
	}

	info, ok := s.sequences[s.active]

	return info, ok
}

func (s *Session) widget(c acd.Category, handle int) *widget {
	hs := s.handles[c]
	if handle < 0 || handle >= len(hs) {
		return nil
	}

	return hs[handle]
}

// Refresh re-resolves every dependent. It is needed only after a form layer
// rewrites a dependent expression with [acd.Model.SetExpression].
func (s *Session) Refresh() []Change {
	return s.refresh(s.all(), "", "")
}
