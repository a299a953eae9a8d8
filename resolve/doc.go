// Package resolve evaluates the expressions embedded in definition attribute
// values.
//
// Two forms are recognized. A reference $(name) stands for the current value
// of another field of the form and is replaced by [Variable]. A function form
// @( expr ) is evaluated by [Function], innermost first, until no form that
// can be evaluated remains.
//
// # Function forms
//
// Each expression must match one of the following patterns as a whole. They
// are tried in order, and mixed operators are not combined:
//
//	a + b, a - b, a * b, a / b   integer arithmetic, or float if either is not an integer
//	! b, not b                   true unless b is "false"
//	a == b, a != b               numeric comparison, else case-insensitive text
//	a > b, a < b                 numeric comparison only
//	a | b                        true if either is "true"
//	a & b                        true if both are "true"
//	c ? x : y                    x if c is "true", else y
//
// A form no pattern matches is left as it is; callers see the remaining
// marker and treat the text as unresolved.
package resolve
