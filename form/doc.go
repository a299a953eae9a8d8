// Package form keeps the live state of an input form built from a parsed
// definition.
//
// A [Session] stands in for the widgets of a graphical form. It holds one
// value per input field, answers the live value queries of the resolve
// package, and re-resolves the dependent attributes of the definition when a
// value changes:
//
//	model := acd.Parse(ctx, text)
//	s := form.New(model, form.WithSequence("asequence", info))
//
//	changes, err := s.Set("gapopen", "12.5")
//	for _, c := range changes {
//		fmt.Println(c.Name, c.Attr, c.New)
//	}
package form
