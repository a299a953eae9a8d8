package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// useDefault replaces the default logger for the duration of the test.
func useDefault(t *testing.T, l Logger) {
	t.Helper()

	prev := Default()
	defaultLog.Store(&l)

	t.Cleanup(func() { defaultLog.Store(&prev) })
}

func TestPackage_LogFunctions(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, plain(&buf, WithLevel(LevelTrace)))

	ctx := context.Background()

	tests := []struct {
		name  string
		log   func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }, "TRACE"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			tt.log("message", slog.String("key", "value"))

			rec := decode(t, &buf)[0]
			if rec["level"] != tt.level || rec["key"] != "value" {
				t.Errorf("record = %v", rec)
			}
		})
	}
}

func TestPackage_Config(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, plain(&buf))

	Debug("hidden")
	Config(WithLevel(LevelDebug))
	Debug("shown")
	With(slog.String("file", "water.acd")).Info("tagged")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("Config() did not change the level: %q", out)
	}

	if !strings.Contains(out, `"file":"water.acd"`) {
		t.Errorf("With() attribute missing: %q", out)
	}

	if Default().Format() != FormatJSON {
		t.Error("Config() lost the format")
	}
}

func TestPackage_Caller(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, plain(&buf, WithCaller(true)))

	Info("here")

	src, ok := decode(t, &buf)[0]["source"].(map[string]any)
	if !ok || !strings.HasSuffix(src["file"].(string), "pkg_test.go") {
		t.Errorf("source = %v, want this file", src)
	}
}
