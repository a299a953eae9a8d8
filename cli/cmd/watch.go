package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/acdform/acd"
	"github.com/ardnew/acdform/log"
)

// Watch re-parses definition files in directories as they change and prints
// a summary of each changed definition. Files whose content did not change
// are skipped. Watch runs until interrupted.
type Watch struct {
	Dir []string `arg:"" default:"." help:"Directories to watch." name:"dir" type:"existingdir"`
}

// Run executes the watch command.
func (wt *Watch) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	cat := newCatalog(outputFrom(ctx))

	for _, dir := range wt.Dir {
		if err := watcher.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}

		if err := cat.scan(ctx, dir); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "watching", slog.Any("dirs", wt.Dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			cat.handle(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watcher error", slog.String("error", err.Error()))
		}
	}
}

// catalog remembers the fingerprint of every definition file seen.
type catalog struct {
	out  io.Writer
	sums map[string]uint64
}

func newCatalog(out io.Writer) *catalog {
	return &catalog{out: out, sums: make(map[string]uint64)}
}

func isDefinition(path string) bool {
	return strings.EqualFold(filepath.Ext(path), acd.Extension)
}

// scan loads every definition file directly inside dir.
func (c *catalog) scan(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("dir", dir))
	}

	for _, e := range entries {
		if e.Type().IsRegular() && isDefinition(e.Name()) {
			if _, err := c.reload(ctx, filepath.Join(dir, e.Name())); err != nil {
				log.WarnContext(ctx, "definition skipped", slog.Any("error", err))
			}
		}
	}

	return nil
}

func (c *catalog) handle(ctx context.Context, event fsnotify.Event) {
	if !isDefinition(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(c.sums, event.Name)

		log.DebugContext(ctx, "definition removed",
			slog.String("file", event.Name),
		)

	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		if _, err := c.reload(ctx, event.Name); err != nil {
			log.WarnContext(ctx, "definition skipped", slog.Any("error", err))
		}
	}
}

// reload parses the file at path and prints its summary, unless its content
// has the fingerprint recorded by the last reload. It reports whether the
// file was parsed.
func (c *catalog) reload(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, acd.ErrReadInput.Wrap(err).With(slog.String("file", path))
	}

	sum := acd.Fingerprint(data)
	if prev, ok := c.sums[path]; ok && prev == sum {
		log.TraceContext(ctx, "definition unchanged", slog.String("file", path))

		return false, nil
	}

	c.sums[path] = sum

	model := acd.Parse(ctx, string(data),
		acd.WithFilename(path),
		acd.WithLogger(log.Default()),
	)
	model.IsDependents(-1, model.NumFields())

	log.InfoContext(ctx, "definition parsed",
		slog.String("file", path),
		slog.String("application", model.Application()),
		slog.Int("fields", model.NumFields()),
		slog.Int("dependents", model.NumDependents()),
		slog.Int("warnings", len(model.Warnings())),
	)

	_, err = fmt.Fprintf(c.out, "%s\t%s\t%d fields\t%d dependents\t%d warnings\t%016x\n",
		path, model.Application(), model.NumFields(), model.NumDependents(),
		len(model.Warnings()), model.Checksum())

	return true, err
}
