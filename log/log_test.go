package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// plain returns a logger writing unadorned JSON records to buf.
func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	}, opts...)...)
}

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid record %q: %v", line, err)
		}

		out = append(out, rec)
	}

	return out
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		level  string
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, "TRACE", LevelTrace, true},
		{"trace at debug", Logger.Trace, "TRACE", LevelDebug, false},
		{"debug at debug", Logger.Debug, "DEBUG", LevelDebug, true},
		{"debug at info", Logger.Debug, "DEBUG", LevelInfo, false},
		{"info at info", Logger.Info, "INFO", LevelInfo, true},
		{"warn at error", Logger.Warn, "WARN", LevelError, false},
		{"error at trace", Logger.Error, "ERROR", LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(plain(&buf, WithLevel(tt.min)), "parsed", slog.Int("fields", 3))

			recs := decode(t, &buf)
			if (len(recs) == 1) != tt.logged {
				t.Fatalf("got %d records, want logged=%v", len(recs), tt.logged)
			}

			if !tt.logged {
				return
			}

			if recs[0]["level"] != tt.level || recs[0]["msg"] != "parsed" ||
				recs[0]["fields"] != float64(3) {
				t.Errorf("record = %v", recs[0])
			}

			if _, ok := recs[0]["time"]; ok {
				t.Error("time present with layout none")
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Info("here")

	src, ok := decode(t, &buf)[0]["source"].(map[string]any)
	if !ok || !strings.HasSuffix(src["file"].(string), "log_test.go") {
		t.Errorf("source = %v, want this file", src)
	}

	buf.Reset()

	plain(&buf).Info("here")

	if _, ok := decode(t, &buf)[0]["source"]; ok {
		t.Error("source present with caller disabled")
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf)
	tagged := base.With(slog.String("file", "water.acd"))

	tagged.Info("parsed")
	base.Info("parsed")

	recs := decode(t, &buf)
	if recs[0]["file"] != "water.acd" {
		t.Errorf("With() attribute missing: %v", recs[0])
	}

	if _, ok := recs[1]["file"]; ok {
		t.Errorf("With() modified the original logger: %v", recs[1])
	}

	quiet := base.Wrap(WithLevel(LevelError))
	if quiet.Level() != LevelError || base.Level() != DefaultLevel {
		t.Errorf("Wrap() levels = %v, %v", quiet.Level(), base.Level())
	}

	if quiet.Format() != FormatJSON {
		t.Errorf("Wrap() lost the format")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Info("discarded")
	l.With(slog.String("k", "v")).Error("discarded")

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero value reports non-default configuration")
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithPretty(false)).Info("written")

	if !strings.Contains(buf.String(), "written") {
		t.Error("Wrap() of zero value does not log")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf)

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.Info("concurrent", slog.Int("id", i))
		}()
	}

	wg.Wait()

	if recs := decode(t, &buf); len(recs) != 100 {
		t.Errorf("got %d records, want 100", len(recs))
	}
}

func TestPrettyHandler(t *testing.T) {
	errBad := errors.New("bad value")

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace)).
			With(slog.String("file", "water.acd")).
			Trace("field set",
				slog.Group("change", slog.String("attr", "maximum"), slog.Int("new", 50)),
				slog.Bool("ok", true),
				slog.Any("error", errBad),
			)

		// a buffer is not a terminal, so no colors are rendered
		want := "level=TRACE msg=field set file=water.acd change.attr=maximum " +
			"change.new=50 ok=true error=bad value\n"
		if got := buf.String(); got != want {
			t.Errorf("got  %q\nwant %q", got, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON)).
			WithGroup("form").
			Info("ready", slog.Int("fields", 7))

		want := "{\n  level: INFO,\n  msg: ready,\n  form.fields: 7\n}\n"
		if got := buf.String(); got != want {
			t.Errorf("got  %q\nwant %q", got, want)
		}
	})
}

type token string

func (t token) LogValue() slog.Value {
	return slog.GroupValue(slog.String("text", string(t)), slog.Int("len", len(t)))
}

func TestPrettyHandler_LogValuer(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("")).Info("token", slog.Any("tok", token("@(1+2)")))

	if got := buf.String(); !strings.Contains(got, "tok.text=@(1+2) tok.len=6") {
		t.Errorf("LogValuer not resolved: %q", got)
	}
}
