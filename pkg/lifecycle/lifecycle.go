package lifecycle

import (
	"fmt"
	"sync"
)

// State is a submission lifecycle state.
type State string

const (
	Idle       State = "idle"
	Validating State = "validating"
	Rejected   State = "rejected"
	Submitting State = "submitting"
	Succeeded  State = "succeeded"
	Failed     State = "failed"
	Redirected State = "redirected"
)

// Loading reports whether a request is in flight.
func (s State) Loading() bool {
	return s == Submitting
}

// Event triggers a transition.
type Event string

const (
	Validate Event = "validate"
	Reject   Event = "reject"
	Settle   Event = "settle"
	Abort    Event = "abort"
	Dispatch Event = "dispatch"
	Resolve  Event = "resolve"
	Fail     Event = "fail"
	Complete Event = "complete"
	Redirect Event = "redirect"
)

// Transition moves the machine from one state to another on an event.
type Transition struct {
	From  State
	To    State
	Event Event
}

// Transitions returns the submission lifecycle table.
func Transitions() []Transition {
	return []Transition{
		{From: Idle, To: Validating, Event: Validate},
		{From: Redirected, To: Validating, Event: Validate},
		{From: Validating, To: Rejected, Event: Reject},
		{From: Rejected, To: Idle, Event: Settle},
		{From: Validating, To: Idle, Event: Abort},
		{From: Validating, To: Submitting, Event: Dispatch},
		{From: Submitting, To: Succeeded, Event: Resolve},
		{From: Submitting, To: Failed, Event: Fail},
		{From: Succeeded, To: Idle, Event: Complete},
		{From: Failed, To: Idle, Event: Complete},
		{From: Succeeded, To: Redirected, Event: Redirect},
	}
}

// Listener observes committed transitions.
type Listener func(from, to State, event Event)

// Option configures a Machine.
type Option func(*Machine)

// WithListener registers a transition listener.
func WithListener(l Listener) Option {
	return func(m *Machine) {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
}

// Machine is a table-driven state machine. Lookups are [from][event]to.
type Machine struct {
	initial   State
	current   State
	table     map[State]map[Event]State
	listeners []Listener
	mu        sync.RWMutex
}

// New creates a machine in Idle with the submission lifecycle table.
func New(opts ...Option) *Machine {
	m, err := NewMachine(Idle, Transitions(), opts...)
	if err != nil {
		panic(fmt.Sprintf("lifecycle: invalid builtin table: %v", err))
	}
	return m
}

// NewMachine creates a machine with a custom table.
func NewMachine(initial State, transitions []Transition, opts ...Option) (*Machine, error) {
	if initial == "" {
		return nil, fmt.Errorf("%w: initial state is empty", ErrInvalidTransition)
	}

	m := &Machine{
		initial: initial,
		current: initial,
		table:   make(map[State]map[Event]State),
	}
	for i, t := range transitions {
		if t.From == "" || t.To == "" || t.Event == "" {
			return nil, fmt.Errorf("transition[%d] %s->%s on %s: %w", i, t.From, t.To, t.Event, ErrInvalidTransition)
		}
		if _, ok := m.table[t.From]; !ok {
			m.table[t.From] = make(map[Event]State)
		}
		m.table[t.From][t.Event] = t.To
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CanFire reports whether the current state accepts event.
func (m *Machine) CanFire(event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.table[m.current][event]
	return ok
}

// Fire applies event and returns the new state.
func (m *Machine) Fire(event Event) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current
	to, ok := m.table[from][event]
	if !ok {
		return from, &ErrNoTransition{State: from, Event: event}
	}

	m.current = to
	for _, l := range m.listeners {
		l(from, to, event)
	}
	return to, nil
}

// Reset returns the machine to its initial state without notifying listeners.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
