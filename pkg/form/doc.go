// Package form coordinates a declaratively validated form submission.
//
// A Controller owns the payload, the field bindings created by Register and
// the submission lifecycle. Each field carries a rule specification such as
// "required|min:3" which is evaluated by the validator registry on every
// Submit. When any field fails, the attempt is rejected without touching the
// transport. Otherwise the payload is sent through a transport.Transport in
// the background and the response is decoded according to
// Config.ResponseFormat.
//
// # Architecture
//
// The controller composes the lower-level packages:
//   - validator: parses rule specifications and evaluates them per field
//   - aggregator: renders failures through message templates and keeps the
//     per-field error map, including sanitised endpoint errors
//   - lifecycle: the state machine behind State().Lifecycle
//   - signal: the hub that fans out Signal values
//   - async: the Future returned by Submit
//   - transport: delivery of the request built by RequestOptions
//
// Fields never own the payload; each one writes only its own key through
// Set and Clear. Values for names without a binding, such as hidden inputs,
// are stored with Controller.Set and submitted without validation.
//
// A submission moves through the lifecycle as follows:
//
//	idle ──validate──▶ validating ──reject──▶ rejected ──settle──▶ idle
//	                      │  └──abort (broken rule configuration)──▶ idle
//	                      └──dispatch──▶ submitting ──resolve──▶ succeeded ──complete──▶ idle
//	                                         │                      └──redirect──▶ redirected
//	                                         └──fail──▶ failed ──complete──▶ idle
//
// Only idle and redirected accept a new Submit or Reconfigure; any other
// state returns ErrSubmissionInProgress. State().IsLoading is true only
// while submitting.
//
// # Usage
//
//	ctl, err := form.New(form.Config{Action: "/signup"}, transport.NewHTTP(),
//	    form.WithLogger(log),
//	    form.WithNavigator(nav),
//	)
//	email, _ := ctl.Register("email", "required|email")
//	_ = email.Set("a@b.com")
//
//	ctl.On(form.KindInvalid, func(ctx context.Context, s form.Signal) {
//	    for field, msgs := range s.Errors {
//	        render(field, msgs)
//	    }
//	})
//
//	fut, err := ctl.Submit(ctx)
//	if err != nil {
//	    return err // in flight or broken rule configuration
//	}
//	out, err := fut.Await()
//	switch out.Status {
//	case form.StatusRejected, form.StatusSucceeded, form.StatusRedirected, form.StatusFailed:
//	}
//
// # Signals
//
// Progress is reported through a signal.Hub of Signal values:
//
//   - KindInvalid when local validation fails, or when a successful
//     response carries field errors (Signal.Server is then set)
//   - KindSuccess and KindError when the transport settles
//   - KindComplete after success or error, unless a redirect was requested
//   - KindState for every lifecycle transition
//
// Signals are emitted after the controller lock is released, so handlers may
// call back into the controller. Within one attempt they arrive in
// transition order.
//
// # Request mapping
//
// RequestOptions builds the transport request. The method defaults to POST;
// POST, PUT and PATCH carry the payload as a body, any other method as query
// parameters. Timeout and the Credentials, EmulateHTTP and EmulateJSON
// toggles are passed only when set, leaving the transport defaults in place
// otherwise.
//
// # Response conventions
//
// Decoded JSON or MessagePack objects are inspected for the keys "errors",
// "redirect", "message" and "error". Errors given as a list or a single
// string are stored under FormErrorsKey. Endpoint messages are stripped of
// markup before they reach the error map.
//
// # Error Handling
//
// Submit returns an error only when no attempt could be made:
// ErrSubmissionInProgress, or a *validator.ConfigError wrapped with the
// field name. Transport failures, non-2xx responses (*transport.StatusError)
// and undecodable bodies (ErrDecodeResponse) are reported through
// KindError, ResponseState.Err and the future's error; the controller always
// returns to idle afterwards.
package form
