package form

import (
	"time"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/lifecycle"
)

// Kind identifies a lifecycle signal.
type Kind string

const (
	// KindInvalid carries local validation failures, or errors reported by
	// the endpoint in a successful response (Server is then true).
	KindInvalid Kind = "invalid"
	// KindSuccess carries the decoded response.
	KindSuccess Kind = "success"
	// KindError carries the transport failure.
	KindError Kind = "error"
	// KindComplete ends every attempt that reached the transport, unless
	// the endpoint requested a redirect.
	KindComplete Kind = "complete"
	// KindState reports a lifecycle transition.
	KindState Kind = "state"
)

// Signal is an outward notification about submission progress.
type Signal struct {
	Kind         Kind
	SubmissionID string

	Errors aggregator.ErrorMap
	Server bool

	Response *ResponseState
	Err      error
	Duration time.Duration

	From  lifecycle.State
	To    lifecycle.State
	Event lifecycle.Event
}
