package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/acdform/acd"
)

// Lists decodes the items of every list and select field of definitions.
//
// Each field prints a header line with its name and category, followed by one
// line per item: a '*' marks items selected by default, then the one-based
// position, the code (if it differs from the label), and the label.
type Lists struct {
	Source []string `arg:"" default:"-" help:"Definition files or '-' for stdin." name:"source"`
}

// Run executes the lists command.
func (l *Lists) Run(ctx context.Context) error {
	return eachModel(ctx, l.Source, func(m *acd.Model) error {
		w := outputFrom(ctx)

		for f, fld := range m.Fields() {
			if !fld.Category.IsSelect() {
				continue
			}

			entries, selected := m.Decode(f)

			_, err := fmt.Fprintf(w, "%s (%s)\n", fld.Name(), fld.Type())
			if err != nil {
				return err
			}

			marks := make(map[int]bool, len(selected))
			for _, i := range selected {
				marks[i] = true
			}

			for i, e := range entries {
				mark := " "
				if marks[i] {
					mark = "*"
				}

				label := e.Label
				if e.Code != "" && e.Code != e.Label {
					label = e.Code + ": " + e.Label
				}

				if _, err := fmt.Fprintf(w, " %s %d. %s\n", mark, i+1, label); err != nil {
					return err
				}
			}
		}

		return nil
	})
}
