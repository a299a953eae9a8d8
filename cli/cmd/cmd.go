package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/log"
)

type (
	contextKey    struct{}
	searchPathKey struct{}
	outputKey     struct{}
	inputKey      struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithSearchPath returns a new context.Context containing the PATH-like list
// of directories searched for definition files named without a directory.
func WithSearchPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, path)
}

func searchPathFrom(ctx context.Context) string {
	path, _ := ctx.Value(searchPathKey{}).(string)

	return path
}

// WithOutput returns a new context.Context whose commands write to w instead
// of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a new context.Context whose commands read the source "-"
// from r instead of os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened definition file.
type source struct {
	name string
	r    io.ReadCloser
}

// fileKey uniquely identifies a file by its device and inode numbers, so a
// file named twice (through a symlink or a relative path) is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the definition files named by names. Each name that is
// not a file is located through the search path of ctx. Duplicates are dropped, and all occurrences
// of "-" are replaced with a single stdin source placed last. Names that
// cannot be located or opened are logged and skipped.
func openSources(ctx context.Context, names []string) ([]source, error) {
	var (
		srcs     []source
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})
	path := searchPathFrom(ctx)

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		file, err := locate(name, path)
		if err != nil {
			log.WarnContext(ctx, "source skipped", slog.Any("error", err))

			continue
		}

		r, ok := openUniqueFile(file, seen)
		if !ok {
			continue
		}

		srcs = append(srcs, source{name: file, r: r})
	}

	if hasStdin {
		srcs = append(srcs, source{
			name: stdinSource,
			r:    io.NopCloser(inputFrom(ctx)),
		})
	}

	if len(srcs) == 0 {
		return nil, ErrNoSource.With(slog.Any("sources", names))
	}

	return srcs, nil
}

// locate returns name itself if it names a regular file, and otherwise
// searches for it with [acd.Locate].
func locate(name, path string) (string, error) {
	if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
		return name, nil
	}

	return acd.Locate(name, path)
}

// openUniqueFile opens the file at path if it hasn't been seen before.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (io.ReadCloser, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parse reads and parses one source.
func parse(ctx context.Context, src source) (*acd.Model, error) {
	return acd.ParseReader(ctx, src.r,
		acd.WithFilename(src.name),
		acd.WithLogger(log.Default()),
	)
}

// eachModel parses every source named by names and calls fn with each model
// in order. It stops at the first error.
func eachModel(
	ctx context.Context,
	names []string,
	fn func(*acd.Model) error,
) error {
	srcs, err := openSources(ctx, names)
	if err != nil {
		return err
	}

	defer func() {
		for _, src := range srcs {
			src.r.Close()
		}
	}()

	for _, src := range srcs {
		model, err := parse(ctx, src)
		if err != nil {
			return err
		}

		if err := fn(model); err != nil {
			return err
		}
	}

	return nil
}
