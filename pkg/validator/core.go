package validator

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// Invocation is one parsed rule: its name and ordered string arguments.
type Invocation struct {
	Name string
	Args []string
}

// String returns the invocation in rule-specification form, e.g. "min:3".
func (i Invocation) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	return i.Name + ":" + strings.Join(i.Args, ":")
}

// Value is an optional field value. The zero Value is absent.
type Value struct {
	Text    string
	Present bool
}

// Present wraps s as a present value.
func Present(s string) Value {
	return Value{Text: s, Present: true}
}

// Absent is the value of a field that has never been set.
var Absent = Value{}

// Empty reports whether the value is absent or has zero length.
func (v Value) Empty() bool {
	return !v.Present || v.Text == ""
}

// Len returns the value length in characters.
func (v Value) Len() int {
	return utf8.RuneCountInString(v.Text)
}

// Values gives rules read access to every field of the form.
type Values interface {
	Lookup(name string) (string, bool)
}

// Map is the simplest Values implementation.
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func lookup(all Values, name string) Value {
	if all == nil {
		return Absent
	}
	if s, ok := all.Lookup(name); ok {
		return Present(s)
	}
	return Absent
}

// Failure records a rule that did not hold for a value.
type Failure struct {
	Rule string
	Args []string
}

// Input is what a rule sees when it is checked.
type Input struct {
	Value Value
	All   Values
	Args  []string
}

// Rule is a single entry of the rule table. Check reports whether the input
// passes; a non-nil error means the invocation itself is malformed.
type Rule struct {
	MinArgs int
	Check   func(rule string, in Input) (bool, error)
}

// Registry dispatches rule invocations by name.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	rules     map[string]Rule
	onUnknown func(name string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithRule adds or replaces a rule in the registry.
func WithRule(name string, rule Rule) Option {
	return func(r *Registry) {
		if name != "" && rule.Check != nil {
			r.rules[name] = rule
		}
	}
}

// WithUnknownRuleHook registers a diagnostic callback for rule names the
// registry does not know. Unknown rules are still ignored.
func WithUnknownRuleHook(fn func(name string)) Option {
	return func(r *Registry) {
		r.onUnknown = fn
	}
}

// NewRegistry creates a registry preloaded with the builtin rules.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{rules: builtinRules()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a rule.
func (r *Registry) Register(name string, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	WithRule(name, rule)(r)
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Names returns the registered rule names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// Evaluate checks v against every invocation in order and returns the
// failures. Evaluation stops at the first malformed invocation and returns
// a *ConfigError; failures collected so far are discarded.
func (r *Registry) Evaluate(v Value, all Values, rules []Invocation) ([]Failure, error) {
	var failures []Failure
	for _, inv := range rules {
		rule, ok := r.Lookup(inv.Name)
		if !ok {
			if r.onUnknown != nil {
				r.onUnknown(inv.Name)
			}
			continue
		}
		if len(inv.Args) < rule.MinArgs {
			return nil, newArgCountError(inv.Name, inv.Args, rule.MinArgs)
		}
		passed, err := rule.Check(inv.Name, Input{Value: v, All: all, Args: inv.Args})
		if err != nil {
			return nil, err
		}
		if !passed {
			failures = append(failures, Failure{Rule: inv.Name, Args: slices.Clone(inv.Args)})
		}
	}
	return failures, nil
}

var defaultRegistry = NewRegistry()

// Default returns the package-level registry used by Evaluate.
func Default() *Registry {
	return defaultRegistry
}

// Evaluate runs rules against v using the default registry.
func Evaluate(v Value, all Values, rules []Invocation) ([]Failure, error) {
	return defaultRegistry.Evaluate(v, all, rules)
}

func builtinRules() map[string]Rule {
	return map[string]Rule{
		"required":       requiredRule,
		"min":            minLenRule,
		"max":            maxLenRule,
		"between":        betweenLenRule,
		"number":         numberRule,
		"min_number":     minNumberRule,
		"max_number":     maxNumberRule,
		"between_number": betweenNumberRule,
		"email":          emailRule,
		"url":            urlRule,
		"equals":         equalsRule,
		"required_if":    requiredIfRule,
	}
}
