// Package transport defines how a form submission reaches its endpoint and
// provides the net/http implementation.
//
// The form controller only knows the Transport interface:
//
//	type Transport interface {
//	    Send(ctx context.Context, opts Options) (*Response, error)
//	}
//
// Options mirror the form configuration. Optional settings are pointers and
// nil means "use the transport default".
//
// # HTTP
//
// HTTP sends Body as JSON, or as application/x-www-form-urlencoded when
// EmulateJSON is true. Params are merged into the query string. With
// EmulateHTTP, PUT, PATCH and DELETE are sent as POST carrying the real
// verb in X-HTTP-Method-Override. Credentials toggles the cookie jar.
//
//	t := transport.NewHTTP(transport.WithBaseURL("https://api.example.com"))
//	resp, err := t.Send(ctx, transport.Options{URL: "/contact", Method: "POST", Body: body})
//
// Any non-2xx status is a failure returned as *StatusError. A request that
// exceeds its timeout fails with ErrTimeout. Requests are never retried.
package transport
