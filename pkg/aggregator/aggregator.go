package aggregator

import (
	"html"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Aggregator accumulates rendered messages per field.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu        sync.RWMutex
	templates Templates
	errs      ErrorMap
	policy    *bluemonday.Policy
}

// New creates an aggregator rendering with templates.
// A nil catalog falls back to DefaultTemplates.
func New(templates Templates) *Aggregator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	return &Aggregator{
		templates: maps.Clone(templates),
		errs:      make(ErrorMap),
		policy:    bluemonday.StrictPolicy(),
	}
}

// Reset drops every collected message.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = make(ErrorMap)
}

// Add renders the template for rule with args and appends it to field.
func (a *Aggregator) Add(field, rule string, args []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs.Add(field, a.templates.Render(rule, args))
}

// Merge appends externally reported messages. Markup is stripped and blank
// messages are dropped.
func (a *Aggregator) Merge(errs ErrorMap) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, field := range slices.Sorted(maps.Keys(errs)) {
		for _, msg := range errs[field] {
			clean := strings.TrimSpace(a.plainText(msg))
			if clean == "" {
				continue
			}
			a.errs.Add(field, clean)
		}
	}
}

// maxSanitizeRounds bounds how many layers of entity encoding are peeled.
const maxSanitizeRounds = 4

// plainText strips markup and decodes entities, repeating until decoding
// reveals no further markup. Input that never settles is returned in
// escaped form.
func (a *Aggregator) plainText(msg string) string {
	cur := msg
	for range maxSanitizeRounds {
		next := html.UnescapeString(a.policy.Sanitize(cur))
		if next == cur {
			return next
		}
		cur = next
	}
	return a.policy.Sanitize(cur)
}

// Errors returns a copy of the collected messages.
func (a *Aggregator) Errors() ErrorMap {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errs.Clone()
}

// Field returns a copy of the messages collected for one field.
func (a *Aggregator) Field(name string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.errs[name])
}

// Valid reports whether nothing has been collected.
func (a *Aggregator) Valid() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errs.IsEmpty()
}

// Templates returns a copy of the active catalog.
func (a *Aggregator) Templates() Templates {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.templates)
}

// SetTemplates swaps the catalog used for later Add calls.
// A nil catalog restores DefaultTemplates.
func (a *Aggregator) SetTemplates(templates Templates) {
	if templates == nil {
		templates = DefaultTemplates()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.templates = maps.Clone(templates)
}
