package transport

import (
	"context"
	"net/http"
	"time"
)

// Options describe one request.
type Options struct {
	URL     string
	Method  string
	Headers map[string]string

	// Nil means the transport default.
	Timeout     *time.Duration
	Credentials *bool
	EmulateHTTP *bool
	EmulateJSON *bool

	// At most one of Body and Params is set by the form controller.
	Body   map[string]string
	Params map[string]string

	// RequestID correlates the request with a submission attempt.
	RequestID string
}

// Response is a successful transport result.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// ContentType returns the response Content-Type header.
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// Transport delivers a request and returns the endpoint's response.
type Transport interface {
	Send(ctx context.Context, opts Options) (*Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, opts Options) (*Response, error)

func (f Func) Send(ctx context.Context, opts Options) (*Response, error) {
	return f(ctx, opts)
}
