package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/ardnew/acdform/pkg"
)

// Version prints the program version and optionally checks it against a
// semantic version constraint, so scripts can require a minimum release.
type Version struct {
	Require string `help:"Fail unless the version satisfies this constraint, e.g. '>=0.3, <1'." placeholder:"CONSTRAINT"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	return v.check(ctx, pkg.Version())
}

func (v *Version) check(ctx context.Context, version string) error {
	ver, err := semver.NewVersion(version)
	if err != nil {
		return ErrVersion.Wrap(err).With(slog.String("version", version))
	}

	if v.Require != "" {
		c, err := semver.NewConstraint(v.Require)
		if err != nil {
			return ErrConstraint.Wrap(err).
				With(slog.String("constraint", v.Require))
		}

		if ok, errs := c.Validate(ver); !ok {
			attrs := []slog.Attr{
				slog.String("version", ver.String()),
				slog.String("constraint", v.Require),
			}

			for _, e := range errs {
				attrs = append(attrs, slog.String("reason", e.Error()))
			}

			return ErrVersion.With(attrs...)
		}
	}

	_, err = fmt.Fprintln(outputFrom(ctx), pkg.Name, ver.String())

	return err
}
