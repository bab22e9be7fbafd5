package aggregator

import "errors"

var (
	// ErrParseTemplates is returned when a template catalog cannot be decoded.
	ErrParseTemplates = errors.New("aggregator: failed to parse templates")

	// ErrEmptyTemplates is returned when a template catalog holds no entries.
	ErrEmptyTemplates = errors.New("aggregator: template catalog is empty")
)
