package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/async"
	"github.com/dmitrymomot/vform/pkg/lifecycle"
	"github.com/dmitrymomot/vform/pkg/logger"
	"github.com/dmitrymomot/vform/pkg/signal"
	"github.com/dmitrymomot/vform/pkg/transport"
	"github.com/dmitrymomot/vform/pkg/validator"
)

// Status is the terminal result of one Submit call.
type Status string

const (
	StatusRejected   Status = "rejected"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusRedirected Status = "redirected"
)

// Outcome summarises a finished submission attempt.
type Outcome struct {
	ID     string
	Status Status
	// Errors are the local validation errors for StatusRejected, or the
	// endpoint-reported errors otherwise.
	Errors   aggregator.ErrorMap
	Response ResponseState
	Err      error
	Duration time.Duration
}

// State is a snapshot of the controller.
type State struct {
	Lifecycle lifecycle.State
	IsLoading bool
	Response  ResponseState
	Errors    aggregator.ErrorMap
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNavigator sets the redirect handler. Without one, redirects only
// change the lifecycle state.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		if n != nil {
			c.navigator = n
		}
	}
}

// WithRegistry replaces the built-in rule registry.
func WithRegistry(r *validator.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithSignalBuffer sets the per-subscriber channel size of the signal hub.
func WithSignalBuffer(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.signalBuffer = n
		}
	}
}

// WithIDGenerator overrides the submission id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller owns a form payload, its field bindings and the submission
// lifecycle. At most one submission is in flight at a time.
type Controller struct {
	mu sync.Mutex

	cfg       Config
	transport transport.Transport
	navigator Navigator
	registry  *validator.Registry
	logger    *slog.Logger
	newID     func() string

	machine      *lifecycle.Machine
	hub          *signal.Hub[Signal]
	signalBuffer int
	errs         *aggregator.Aggregator
	payload      *payloadStore
	fields       map[string]*Field
	order        []string
	response     ResponseState

	// pending collects signals raised under mu; they are emitted after
	// mu is released.
	pending []Signal
	current string
}

// New creates a controller submitting through t.
func New(cfg Config, t transport.Transport, opts ...Option) (*Controller, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	norm, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:          norm,
		transport:    t,
		navigator:    noopNavigator{},
		registry:     validator.Default(),
		logger:       slog.New(slog.DiscardHandler),
		newID:        uuid.NewString,
		signalBuffer: 16,
		payload:      newPayloadStore(),
		fields:       make(map[string]*Field),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With(logger.Component("form"))
	c.errs = aggregator.New(aggregator.DefaultTemplates().With(norm.ErrorTemplates))
	c.hub = signal.NewHub[Signal](c.signalBuffer)
	c.machine = lifecycle.New(lifecycle.WithListener(c.onTransition))
	return c, nil
}

// onTransition runs with mu held.
func (c *Controller) onTransition(from, to lifecycle.State, ev lifecycle.Event) {
	c.pending = append(c.pending, Signal{
		Kind:         KindState,
		SubmissionID: c.current,
		From:         from,
		To:           to,
		Event:        ev,
	})
}

// Register binds a field to a rule specification such as "required|email".
// Rule names the registry does not know are logged and ignored.
func (c *Controller) Register(name, rules string) (*Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFieldName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.fields[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateField, name)
	}

	f := &Field{
		name:    name,
		spec:    rules,
		rules:   validator.ParseCached(rules),
		payload: c.payload,
		errs:    c.errs,
	}
	for _, inv := range f.rules {
		if _, ok := c.registry.Lookup(inv.Name); !ok {
			c.logger.Warn("unknown rule ignored", logger.Field(name), logger.Rule(inv.Name))
		}
	}
	c.fields[name] = f
	c.order = append(c.order, name)
	return f, nil
}

// Unregister removes a field binding and its payload entry.
func (c *Controller) Unregister(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.detached.Store(true)
	delete(c.fields, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	c.payload.unset(name)
	return nil
}

// Field returns a registered binding.
func (c *Controller) Field(name string) (*Field, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.fields[name]
	return f, ok
}

// Fields returns the registered field names in registration order.
func (c *Controller) Fields() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// Set stores a payload value that has no field binding, such as a hidden
// input. Values of bound fields are validated like any other.
func (c *Controller) Set(name, value string) {
	c.payload.set(name, value)
}

// Payload returns a copy of the values that would be submitted.
func (c *Controller) Payload() Payload {
	return c.payload.snapshot()
}

// Errors returns the aggregated errors of the current or last attempt.
func (c *Controller) Errors() aggregator.ErrorMap {
	return c.errs.Errors()
}

// State returns a snapshot of the lifecycle and last response.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.machine.Current()
	return State{
		Lifecycle: cur,
		IsLoading: cur.Loading(),
		Response:  c.response,
		Errors:    c.errs.Errors(),
	}
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, _ := c.cfg.normalized()
	return cfg
}

// Reconfigure replaces the configuration between submissions.
func (c *Controller) Reconfigure(cfg Config) error {
	norm, err := cfg.normalized()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.machine.CanFire(lifecycle.Validate) {
		return fmt.Errorf("%w: state %s", ErrSubmissionInProgress, c.machine.Current())
	}
	c.cfg = norm
	c.errs.SetTemplates(aggregator.DefaultTemplates().With(norm.ErrorTemplates))
	return nil
}

// Signals exposes the signal hub for subscriptions.
func (c *Controller) Signals() *signal.Hub[Signal] {
	return c.hub
}

// On registers fn for signals of one kind and returns its remover.
func (c *Controller) On(kind Kind, fn func(ctx context.Context, s Signal)) (remove func()) {
	return c.hub.Handle(func(ctx context.Context, s Signal) {
		if s.Kind == kind {
			fn(ctx, s)
		}
	})
}

// Close releases signal subscribers. In-flight submissions still settle.
func (c *Controller) Close() error {
	return c.hub.Close()
}

// Submit validates every field and, when all pass, sends the payload.
//
// Validation failures resolve the returned future immediately with
// StatusRejected and emit KindInvalid. Otherwise the request runs in the
// background; the future resolves once the attempt has settled and its
// error is the transport or decode failure, if any. A rule configuration
// error aborts the attempt and is returned directly.
func (c *Controller) Submit(ctx context.Context) (*async.Future[Outcome], error) {
	c.mu.Lock()
	if _, err := c.machine.Fire(lifecycle.Validate); err != nil {
		state := c.machine.Current()
		c.mu.Unlock()
		c.logger.WarnContext(ctx, "submission rejected", logger.State(string(state)))
		return nil, fmt.Errorf("%w: state %s", ErrSubmissionInProgress, state)
	}

	id := c.newID()
	c.current = id
	ctx = logger.ContextWithSubmissionID(ctx, id)
	// The Validate transition was recorded before the id was known.
	c.pending[len(c.pending)-1].SubmissionID = id

	c.response = ResponseState{}
	c.errs.Reset()

	valid, err := c.validateLocked()
	if err != nil {
		c.fire(lifecycle.Abort)
		c.unlockAndEmit(ctx)
		c.logger.ErrorContext(ctx, "invalid rule configuration", logger.Error(err))
		return nil, err
	}

	if !valid {
		errs := c.errs.Errors()
		c.fire(lifecycle.Reject)
		c.pending = append(c.pending, Signal{Kind: KindInvalid, SubmissionID: id, Errors: errs})
		c.fire(lifecycle.Settle)
		c.unlockAndEmit(ctx)
		c.logger.DebugContext(ctx, "validation failed", slog.Int("fields", len(errs)))
		return async.Resolved(Outcome{ID: id, Status: StatusRejected, Errors: errs}, nil), nil
	}

	c.fire(lifecycle.Dispatch)
	opts := RequestOptions(c.cfg, c.payload.snapshot())
	opts.RequestID = id
	format := c.cfg.ResponseFormat
	c.unlockAndEmit(ctx)

	c.logger.InfoContext(ctx, "submitting form", logger.Method(opts.Method), logger.URL(opts.URL))
	start := time.Now()

	// Settling must run even if the caller gives up on ctx.
	return async.Go(context.WithoutCancel(ctx), opts, func(ctx context.Context, opts transport.Options) (Outcome, error) {
		resp, err := c.transport.Send(ctx, opts)
		out := c.settle(ctx, id, format, resp, err, time.Since(start))
		return out, out.Err
	}), nil
}

// validateLocked runs every field in registration order without stopping
// at the first invalid one.
func (c *Controller) validateLocked() (bool, error) {
	all := c.payload.snapshot()
	valid := true
	for _, name := range c.order {
		ok, err := c.fields[name].validate(c.registry, all)
		if err != nil {
			return false, fmt.Errorf("field %s: %w", name, err)
		}
		valid = valid && ok
	}
	return valid, nil
}

func (c *Controller) settle(ctx context.Context, id string, format ResponseFormat, resp *transport.Response, sendErr error, elapsed time.Duration) Outcome {
	state, err := ResponseState{}, sendErr
	if err == nil {
		state, err = decodeResponse(format, resp)
	}

	out := Outcome{ID: id, Duration: elapsed}

	c.mu.Lock()
	if err != nil {
		failed := ResponseState{Err: err}
		var se *transport.StatusError
		if errors.As(err, &se) && se.Response != nil {
			failed.Status = se.Response.Status
		} else if resp != nil {
			failed.Status = resp.Status
		}
		c.response = failed
		c.fire(lifecycle.Fail)
		c.pending = append(c.pending, Signal{Kind: KindError, SubmissionID: id, Response: &failed, Err: err, Duration: elapsed})
		c.unlockAndEmit(ctx)

		c.logger.ErrorContext(ctx, "submission failed",
			logger.Status(failed.Status), logger.Duration(elapsed), logger.Error(err))
		out.Status, out.Response, out.Err = StatusFailed, failed, err
		c.complete(ctx, id, elapsed)
		return out
	}

	c.response = state
	c.errs.Merge(state.Errors)
	c.fire(lifecycle.Resolve)
	c.pending = append(c.pending, Signal{Kind: KindSuccess, SubmissionID: id, Response: &state, Duration: elapsed})
	if state.HasErrors() {
		c.pending = append(c.pending, Signal{Kind: KindInvalid, SubmissionID: id, Errors: state.Errors.Clone(), Server: true})
	}
	c.unlockAndEmit(ctx)

	c.logger.InfoContext(ctx, "submission succeeded",
		logger.Status(state.Status), logger.Duration(elapsed))
	out.Status, out.Response, out.Errors = StatusSucceeded, state, state.Errors

	if state.RedirectTo == "" {
		c.complete(ctx, id, elapsed)
		return out
	}

	c.mu.Lock()
	c.fire(lifecycle.Redirect)
	c.unlockAndEmit(ctx)

	out.Status = StatusRedirected
	if err := c.navigator.Navigate(ctx, state.RedirectTo); err != nil {
		c.logger.ErrorContext(ctx, "redirect failed", logger.URL(state.RedirectTo), logger.Error(err))
	}
	return out
}

func (c *Controller) complete(ctx context.Context, id string, elapsed time.Duration) {
	c.mu.Lock()
	c.fire(lifecycle.Complete)
	c.pending = append(c.pending, Signal{Kind: KindComplete, SubmissionID: id, Duration: elapsed})
	c.unlockAndEmit(ctx)
}

// fire applies a transition the table is known to allow.
func (c *Controller) fire(ev lifecycle.Event) {
	if _, err := c.machine.Fire(ev); err != nil {
		c.logger.Error("unexpected lifecycle transition", logger.Event(string(ev)), logger.Error(err))
	}
}

// unlockAndEmit releases mu and emits the signals raised while it was held.
func (c *Controller) unlockAndEmit(ctx context.Context) {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, s := range pending {
		if s.Kind == KindState {
			c.logger.DebugContext(ctx, "lifecycle transition",
				logger.Transition(string(s.From), string(s.To)), logger.Event(string(s.Event)))
		}
		if err := c.hub.Emit(ctx, s); err != nil && !errors.Is(err, signal.ErrHubClosed) {
			c.logger.ErrorContext(ctx, "signal emit failed", logger.Error(err))
		}
	}
}
