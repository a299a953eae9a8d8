// Package acd parses application definition files into a field model that
// drives the construction of an input form for a command-line tool.
//
// # Grammar
//
// A definition is a sequence of fields. Informal EBNF:
//
//	Definition → Field* EOF
//	Field      → Type (':' | '=') Name Block?
//	Block      → '[' Attribute* ']'
//	Attribute  → Name (':' | '=')? Value
//	Value      → Quoted | Bare
//	Quoted     → '"' <text, may span lines> '"' | "'" <text> "'"
//	Bare       → <text up to whitespace or ']' outside parentheses>
//
// Text from '#' to the end of a line is a comment. Blank lines are ignored.
//
// # Example
//
//	application: needle [
//	  documentation: "Global alignment"
//	  batch: Y
//	]
//
//	variable: gap "10.0"
//
//	section: input [ information: "Input section" ]
//	  sequence: asequence [ type: any ]
//	  float: gapopen [
//	    default: $(gap)
//	    maximum: @($(asequence.length) * 2)
//	  ]
//	  list: matrix [
//	    values: "B:Blosum62;P:PAM250"
//	    default: B
//	  ]
//	endsection: input
//
// # Fields
//
// The first parameter of every [Field] holds the field's data type and name.
// Types are lowercased and "toggle" is read as "boolean". Each field whose
// type maps to a [Category] receives a handle, its index among fields of the
// same category, which correlates it with an input widget.
//
// # Shorthand variables
//
// A var or variable field binds its name to a value. Later attribute values
// referencing $(name) are rewritten with the value before they are stored.
// References to any other name are left for live resolution against the form.
//
// # Dependents
//
// Attribute values that still begin with '$' or '@' after shorthand expansion
// are expressions over live form values. [Model.IsDependents] collects them as
// [Dependent] entries, which the form layer re-resolves when values change.
//
// # Errors
//
// Parsing is best-effort. Input that cannot be parsed is skipped and recorded
// as a [Warning]; it never discards fields parsed elsewhere.
package acd
