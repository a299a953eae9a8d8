package cmd

import (
	"context"
	"os"

	"github.com/ardnew/acdform/cli/cmd/preview"
	"github.com/ardnew/acdform/log"
)

// Preview opens an interactive preview of the form built from a definition.
type Preview struct {
	Source  string `arg:"" default:"-" help:"Definition file or '-' for stdin." name:"source"`
	Length  int    `       help:"Length of the loaded input sequence."`
	Protein bool   `       help:"The loaded input sequence is protein."`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context) error {
	s, err := (&Resolve{
		File:    p.Source,
		Length:  p.Length,
		Protein: p.Protein,
	}).session(ctx, nil)
	if err != nil {
		return err
	}

	return preview.Run(ctx, s, cacheDirFrom(ctx), log.Default())
}

// cacheDirFrom returns the cache directory defined by the kong context, or
// the system temporary directory if there is none.
func cacheDirFrom(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return dir
		}
	}

	return os.TempDir()
}
