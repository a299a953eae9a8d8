package acd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// Extension is the file name extension of definition files.
const Extension = ".acd"

// SearchPath composes a PATH-like definition search path from path, with the
// given directories prefixed in order. Empty and duplicate entries are
// dropped, as are entries that do not name an existing directory.
func SearchPath(path string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// Locate returns the path of the definition file for name, searching each
// directory of the PATH-like list path in order. The extension is appended to
// name if it is missing. A name containing a path separator is checked as
// given and never searched for.
func Locate(name, path string) (string, error) {
	file := name
	if !strings.EqualFold(filepath.Ext(file), Extension) {
		file += Extension
	}

	if strings.ContainsRune(name, filepath.Separator) ||
		strings.ContainsRune(name, '/') {
		if isFile(file) {
			return file, nil
		}

		return "", ErrLocate.With(
			slog.String("name", name),
		)
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}

		if candidate := filepath.Join(dir, file); isFile(candidate) {
			return candidate, nil
		}
	}

	return "", ErrLocate.With(
		slog.String("name", name),
		slog.String("path", path),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
