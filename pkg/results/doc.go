// Package results keeps the records returned by successful form
// submissions, for list or search forms whose endpoint answers with rows.
//
// A Buffer is attached to a form controller and updates itself on every
// KindSuccess signal. By default each response replaces the buffer; with
// WithAccumulate records are appended and nil records are dropped.
// Responses carrying a message leave the buffer untouched.
//
//	buf := results.New(results.WithExtractor(results.FieldExtractor("items")))
//	detach, err := buf.Attach(ctx, ctl)
//	defer detach()
package results
