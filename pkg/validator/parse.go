package validator

import (
	"container/list"
	"slices"
	"strings"
	"sync"
)

const (
	ruleSeparator = "|"
	argSeparator  = ":"
)

// Parse splits a rule specification into ordered invocations.
// Empty tokens are skipped, so "" and "|" both yield no rules.
// Rule names are not checked here.
func Parse(spec string) []Invocation {
	var out []Invocation
	for token := range strings.SplitSeq(spec, ruleSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		parts := strings.Split(token, argSeparator)
		inv := Invocation{Name: parts[0]}
		if len(parts) > 1 {
			inv.Args = parts[1:]
		}
		out = append(out, inv)
	}
	return out
}

// ParseCached is Parse backed by a process-wide LRU keyed by the
// specification string. The returned slice is a copy and may be modified.
func ParseCached(spec string) []Invocation {
	if rules, ok := specs.get(spec); ok {
		return cloneInvocations(rules)
	}
	rules := Parse(spec)
	specs.put(spec, rules)
	return cloneInvocations(rules)
}

func cloneInvocations(in []Invocation) []Invocation {
	if in == nil {
		return nil
	}
	out := make([]Invocation, len(in))
	for i, inv := range in {
		out[i] = Invocation{Name: inv.Name, Args: slices.Clone(inv.Args)}
	}
	return out
}

const specCacheSize = 512

var specs = newSpecCache(specCacheSize)

type specEntry struct {
	spec  string
	rules []Invocation
}

// specCache is a fixed-size LRU of parsed specifications.
type specCache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
	mu       sync.Mutex
}

func newSpecCache(capacity int) *specCache {
	return &specCache{
		capacity: max(capacity, 1),
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *specCache) get(spec string) ([]Invocation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[spec]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*specEntry).rules, true
	}
	return nil, false
}

func (c *specCache) put(spec string, rules []Invocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[spec]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*specEntry).rules = rules
		return
	}

	c.items[spec] = c.order.PushFront(&specEntry{spec: spec, rules: rules})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*specEntry).spec)
	}
}

func (c *specCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
