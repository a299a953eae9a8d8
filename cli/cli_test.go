package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMain isolates the configuration and cache directories, which are
// resolved once per process.
func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "acdform-cli")
	if err != nil {
		panic(err)
	}

	os.Setenv("HOME", home)
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	sep := string(os.PathListSeparator)

	got := strings.Split(searchPath(a+sep+missing+sep+b+sep+a), sep)
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, []string{a, b}, got[:2])
	require.NotContains(t, got, missing)
}

func TestRun(t *testing.T) {
	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }

	t.Run("version", func(t *testing.T) {
		require.NoError(t, Run(context.Background(), exit, "version"))
		require.DirExists(t, configDir())
		require.DirExists(t, cacheDir())
	})

	t.Run("version constraint", func(t *testing.T) {
		require.Error(t, Run(context.Background(), exit,
			"version", "--require", "< 0.0.1"))
	})

	t.Run("unknown command", func(t *testing.T) {
		require.Error(t, Run(context.Background(), exit, "bogus"))
	})

	t.Run("acd path", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "water.acd"),
			[]byte("application: water\nint: window [ default: 3 ]\n"), 0o600))

		t.Setenv("ACDFORM_PATH", dir)

		require.NoError(t, Run(context.Background(), exit,
			"resolve", "--file", "water", "--strict", "$(window)"))
	})
}
