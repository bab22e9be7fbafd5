package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a transition definition is incomplete.
var ErrInvalidTransition = errors.New("lifecycle: transition needs from, to and event")

// ErrNoTransition indicates that the current state does not accept an event.
type ErrNoTransition struct {
	State State
	Event Event
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("lifecycle: no transition from state '%s' for event '%s'", e.State, e.Event)
}

// IsNoTransition reports whether err is an ErrNoTransition.
func IsNoTransition(err error) bool {
	var e *ErrNoTransition
	return errors.As(err, &e)
}
