package aggregator

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrorMap maps a field name to its ordered messages.
type ErrorMap map[string][]string

// Error implements the error interface.
func (m ErrorMap) Error() string {
	if len(m) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, field := range m.Fields() {
		if msgs := m[field]; len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msgs[0]))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field.
func (m ErrorMap) Add(field, message string) {
	m[field] = append(m[field], message)
}

// Get returns the first message for field, or "".
func (m ErrorMap) Get(field string) string {
	if msgs := m[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (m ErrorMap) Has(field string) bool {
	return len(m[field]) > 0
}

// IsEmpty reports whether no field carries a message.
func (m ErrorMap) IsEmpty() bool {
	for _, msgs := range m {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Fields returns field names with at least one message, sorted.
func (m ErrorMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for field, msgs := range m {
		if len(msgs) > 0 {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)
	return fields
}

// Clone returns a deep copy.
func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return nil
	}
	out := make(ErrorMap, len(m))
	for field, msgs := range maps.All(m) {
		out[field] = slices.Clone(msgs)
	}
	return out
}
