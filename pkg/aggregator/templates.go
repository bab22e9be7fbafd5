package aggregator

import (
	"errors"
	"io"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	firstPlaceholder  = "%1%"
	secondPlaceholder = "%2%"
)

// Templates maps a rule name to its message template.
type Templates map[string]string

// DefaultTemplates returns the stock English messages for every builtin rule.
func DefaultTemplates() Templates {
	return Templates{
		"required":       "Required field.",
		"number":         "Value must be numeric.",
		"email":          "Email value is invalid.",
		"url":            "URL value is invalid.",
		"min":            "Value must have at least %1% character(s).",
		"min_number":     "Value must be at least %1%.",
		"max":            "Value must have no more than %1% character(s).",
		"max_number":     "Value must be no more than %1%.",
		"between":        "Value must have between %1% to %2% characters.",
		"between_number": "Value must be between %1% to %2%.",
		"equals":         "Value must match %1%.",
		"required_if":    "Required field when %1% is provided.",
	}
}

// With returns a copy of t overlaid with overrides.
func (t Templates) With(overrides Templates) Templates {
	out := maps.Clone(t)
	if out == nil {
		out = make(Templates, len(overrides))
	}
	maps.Copy(out, overrides)
	return out
}

// Render formats the message for rule. The first occurrence of each
// placeholder is replaced when the matching argument exists. A rule without
// a template renders as its own name.
func (t Templates) Render(rule string, args []string) string {
	msg, ok := t[rule]
	if !ok {
		return rule
	}
	if len(args) > 0 {
		msg = strings.Replace(msg, firstPlaceholder, args[0], 1)
	}
	if len(args) > 1 {
		msg = strings.Replace(msg, secondPlaceholder, args[1], 1)
	}
	return msg
}

// LoadTemplates decodes a YAML mapping of rule name to template.
//
//	required: "This field is required."
//	min: "At least %1% characters."
func LoadTemplates(r io.Reader) (Templates, error) {
	var t Templates
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTemplates
		}
		return nil, errors.Join(ErrParseTemplates, err)
	}
	if len(t) == 0 {
		return nil, ErrEmptyTemplates
	}
	return t, nil
}
