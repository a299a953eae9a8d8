package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/acdform/log"
)

// loadYAML returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML(ctx), "/path/to/config.yaml")
//
// Top-level keys name flags. Nested mappings are joined to their parent key
// with a hyphen, so these two files are equivalent:
//
//	log-level: debug
//	log-pretty: false
//
//	log:
//	  level: debug
//	  pretty: false
//
// Keys may use underscores in place of hyphens. Sequences become
// comma-separated lists. Command-line flags override configured values.
//
// A file that is not valid YAML is logged and ignored.
func loadYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "configuration ignored",
					slog.String("error", err.Error()),
				)
			}

			return config{}, nil
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// flatten stores every leaf of doc under its hyphen-joined key path.
func (r config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			r.flatten(key, v)

		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}

			r[key] = strings.Join(items, ",")

		case string, bool, nil:
			r[key] = v

		default:
			// kong maps numbers from their text
			r[key] = fmt.Sprint(v)
		}
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
