package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. The styles are bound to the
// handler's output, so they render plain text unless it is a terminal.
type palette struct {
	key, text, number, yes, no, duration, stamp, null lipgloss.Style

	trace, debug, info, warn, fail lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:      fg("8"),
		text:     fg("6"),
		number:   fg("3"),
		yes:      fg("2"),
		no:       fg("1"),
		duration: fg("5"),
		stamp:    fg("4"),
		null:     fg("8"),
		trace:    fg("8").Bold(true),
		debug:    fg("4").Bold(true),
		info:     fg("2").Bold(true),
		warn:     fg("3").Bold(true),
		fail:     fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	}

	return p.trace
}

// prettyHandler writes colorized records, either as one key=value line
// (text) or as an indented block of key: value lines (json). Attributes of
// groups are flattened to dotted keys, and [slog.LogValuer] values are
// resolved.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	layout string
	colors *palette

	mu *sync.Mutex
	w  io.Writer

	prefix string   // dotted group path of the attributes that follow
	attrs  []string // pre-rendered attributes from WithAttrs
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	layout string,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		layout: layout,
		colors: newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]string, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() && h.layout != "" {
		fields = append(fields,
			h.field(slog.TimeKey, h.colors.stamp.Render(r.Time.Format(h.layout))))
	}

	fields = append(fields, h.field(slog.LevelKey,
		h.colors.level(r.Level).Render(strings.ToUpper(Level(r.Level).String()))))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields, h.field(slog.SourceKey,
				h.colors.text.Render(fmt.Sprintf("%s:%d", src.File, src.Line))))
		}
	}

	fields = append(fields, h.field(slog.MessageKey, h.colors.text.Render(r.Message)))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.format == FormatJSON {
		buf.WriteString("{\n  ")
		buf.WriteString(strings.Join(fields, ",\n  "))
		buf.WriteString("\n}\n")
	} else {
		buf.WriteString(strings.Join(fields, " "))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = h.appendAttr(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// field renders one key and its already-styled value.
func (h *prettyHandler) field(key, value string) string {
	sep := "="
	if h.format == FormatJSON {
		sep = ": "
	}

	return h.colors.key.Render(key) + sep + value
}

// appendAttr renders a to fields under the dotted prefix, expanding groups.
func (h *prettyHandler) appendAttr(fields []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return fields
		}

		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range group {
			fields = h.appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, h.field(prefix+a.Key, h.value(a.Value)))
}

// value renders v styled by its kind.
func (h *prettyHandler) value(v slog.Value) string {
	c := h.colors

	switch v.Kind() {
	case slog.KindInt64:
		return c.number.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.number.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.duration.Render(v.Duration().String())
	case slog.KindTime:
		return c.stamp.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return c.null.Render("null")
		case slog.Level:
			return c.level(a).Render(strings.ToUpper(Level(a).String()))
		case error:
			return c.no.Render(a.Error())
		}
	}

	return c.text.Render(v.String())
}
