// Package aggregator collects per-field validation messages for a form.
//
// Messages are rendered from templates keyed by rule name. Templates may
// contain the positional placeholders %1% and %2%, replaced by the first
// and second rule arguments:
//
//	agg := aggregator.New(aggregator.DefaultTemplates())
//	agg.Add("name", "between", []string{"3", "5"})
//	agg.Errors()["name"] // ["Value must have between 3 to 5 characters."]
//
// Messages for a field keep insertion order and are never overwritten
// within one pass; call Reset before the next pass.
//
// Messages reported by a remote endpoint are merged with Merge, which strips
// any markup before storing them.
package aggregator
