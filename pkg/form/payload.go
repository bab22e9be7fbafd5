package form

import (
	"maps"
	"sync"
)

// Payload maps field names to the values that will be submitted.
type Payload map[string]string

// Lookup implements validator.Values.
func (p Payload) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Clone returns a copy that is never nil.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	maps.Copy(out, p)
	return out
}

// payloadStore is the payload shared between a controller and its fields.
type payloadStore struct {
	mu     sync.RWMutex
	values Payload
}

func newPayloadStore() *payloadStore {
	return &payloadStore{values: make(Payload)}
}

func (s *payloadStore) get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Lookup(name)
}

func (s *payloadStore) set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

func (s *payloadStore) unset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

func (s *payloadStore) snapshot() Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}
