// Package preview implements an interactive terminal preview of a form.
//
// The preview holds a live [form.Session]. In set mode, each line either
// assigns a field (NAME=VALUE) and prints the dependent attributes that
// changed, resolves an attribute expression against the current values, or
// evaluates an expr-lang query when prefixed with '?'. Command mode (toggled
// with Esc) lists fields, shows resolved attributes, and lists dependents.
//
// Field names, sequence attributes, and query builtins are completed with
// fuzzy matching as the user types, and submitted lines are kept in a
// history file in the cache directory.
package preview
