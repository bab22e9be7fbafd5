package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/form"
)

// Definition is a form described in YAML.
//
//	action: https://example.com/signup
//	method: post
//	timeout: 5000 # milliseconds
//	credentials: "true"
//	response_format: json
//	templates:
//	  required: "Please fill in this field."
//	fields:
//	  - name: email
//	    rules: required|email
//	values:
//	  source: cli
type Definition struct {
	Action         string            `yaml:"action"`
	Method         string            `yaml:"method"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutMillis  int               `yaml:"timeout"`
	Credentials    any               `yaml:"credentials"`
	EmulateHTTP    any               `yaml:"emulate_http"`
	EmulateJSON    any               `yaml:"emulate_json"`
	ResponseFormat string            `yaml:"response_format"`
	Templates      map[string]string `yaml:"templates"`

	Fields []FieldDefinition `yaml:"fields"`
	// Values are submitted without validation.
	Values map[string]string `yaml:"values"`
}

// FieldDefinition declares one bound field.
type FieldDefinition struct {
	Name  string  `yaml:"name"`
	Rules string  `yaml:"rules"`
	Value *string `yaml:"value"`
}

// ParseDefinition decodes a YAML definition.
func ParseDefinition(r io.Reader) (*Definition, error) {
	var d Definition
	if err := yaml.NewDecoder(r).Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrReadDefinition, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDefinition reads a YAML definition file.
func LoadDefinition(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrReadDefinition, err)
	}
	defer f.Close()
	return ParseDefinition(f)
}

func (d *Definition) validate() error {
	if d.TimeoutMillis < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for i, f := range d.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidDefinition, i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: field %s declared twice", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// FormConfig converts the definition into a controller configuration.
func (d *Definition) FormConfig() (form.Config, error) {
	var toggles [3]form.Toggle
	for i, raw := range []any{d.Credentials, d.EmulateHTTP, d.EmulateJSON} {
		t, err := form.ToggleFrom(raw)
		if err != nil {
			return form.Config{}, errors.Join(ErrInvalidDefinition, err)
		}
		toggles[i] = t
	}

	format, err := form.ParseResponseFormat(d.ResponseFormat)
	if err != nil {
		return form.Config{}, errors.Join(ErrInvalidDefinition, err)
	}

	return form.Config{
		Action:         d.Action,
		Method:         d.Method,
		Headers:        d.Headers,
		Timeout:        time.Duration(d.TimeoutMillis) * time.Millisecond,
		Credentials:    toggles[0],
		EmulateHTTP:    toggles[1],
		EmulateJSON:    toggles[2],
		ResponseFormat: format,
		ErrorTemplates: aggregator.Templates(d.Templates),
	}, nil
}

// Apply registers the declared fields on ctl and stores initial values.
func (d *Definition) Apply(ctl *form.Controller) error {
	for name, v := range d.Values {
		ctl.Set(name, v)
	}
	for _, fd := range d.Fields {
		f, err := ctl.Register(fd.Name, fd.Rules)
		if err != nil {
			return err
		}
		if fd.Value != nil {
			if err := f.Set(*fd.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
