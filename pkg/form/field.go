package form

import (
	"slices"
	"sync/atomic"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/validator"
)

// Field binds a form field name to its validation rules.
// Fields are created by Controller.Register and write only their own
// payload entry.
type Field struct {
	name     string
	spec     string
	rules    []validator.Invocation
	payload  *payloadStore
	errs     *aggregator.Aggregator
	detached atomic.Bool
}

func (f *Field) Name() string { return f.name }

// Spec returns the rule specification the field was registered with.
func (f *Field) Spec() string { return f.spec }

// Rules returns a copy of the parsed rules.
func (f *Field) Rules() []validator.Invocation {
	out := make([]validator.Invocation, len(f.rules))
	for i, r := range f.rules {
		out[i] = validator.Invocation{Name: r.Name, Args: slices.Clone(r.Args)}
	}
	return out
}

// Set stores the field value in the payload.
func (f *Field) Set(value string) error {
	if f.detached.Load() {
		return ErrFieldDetached
	}
	f.payload.set(f.name, value)
	return nil
}

// Clear removes the field value, making it absent.
func (f *Field) Clear() error {
	if f.detached.Load() {
		return ErrFieldDetached
	}
	f.payload.unset(f.name)
	return nil
}

// Value returns the current value and whether it is present.
func (f *Field) Value() (string, bool) {
	return f.payload.get(f.name)
}

// Errors returns the messages currently reported for this field, both from
// local validation and from the endpoint.
func (f *Field) Errors() []string {
	return f.errs.Field(f.name)
}

func (f *Field) HasErrors() bool {
	return len(f.Errors()) > 0
}

// validate evaluates the field rules against all values and records
// failures. It reports whether the field is valid.
func (f *Field) validate(reg *validator.Registry, all Payload) (bool, error) {
	v := validator.Absent
	if s, ok := all.Lookup(f.name); ok {
		v = validator.Present(s)
	}

	failures, err := reg.Evaluate(v, all, f.rules)
	if err != nil {
		return false, err
	}
	for _, fl := range failures {
		f.errs.Add(f.name, fl.Rule, fl.Args)
	}
	return len(failures) == 0, nil
}
