package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	defaultUserAgent   = "vform/1.0"
	defaultAccept      = "application/json, text/plain, */*"
	defaultMaxBodySize = 1 << 20

	headerMethodOverride = "X-HTTP-Method-Override"
	headerRequestID      = "X-Request-ID"

	contentTypeJSON = "application/json;charset=utf-8"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// HTTP delivers submissions over net/http.
// Zero value is not usable; use NewHTTP.
type HTTP struct {
	client    *http.Client
	jar       http.CookieJar
	baseURL   string
	userAgent string
	maxBody   int64
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithClient replaces the underlying client. Nil is ignored.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithCookieJar sets the jar used for requests with credentials.
func WithCookieJar(jar http.CookieJar) HTTPOption {
	return func(h *HTTP) {
		if jar != nil {
			h.jar = jar
		}
	}
}

// WithBaseURL resolves relative form actions against base.
func WithBaseURL(base string) HTTPOption {
	return func(h *HTTP) {
		h.baseURL = base
	}
}

func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) {
		if ua != "" {
			h.userAgent = ua
		}
	}
}

// WithTimeout sets the client timeout used when a request has none.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			c := *h.client
			c.Timeout = d
			h.client = &c
		}
	}
}

// WithMaxBodySize limits how many response bytes are read.
func WithMaxBodySize(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewHTTP creates an HTTP transport with a pooled client.
func NewHTTP(opts ...HTTPOption) *HTTP {
	jar, _ := cookiejar.New(nil)
	h := &HTTP{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		jar:       jar,
		userAgent: defaultUserAgent,
		maxBody:   defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send performs one request. It never retries.
func (h *HTTP) Send(ctx context.Context, opts Options) (*Response, error) {
	target, err := h.resolve(opts.URL)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	if len(opts.Params) > 0 {
		q := target.Query()
		for k, v := range opts.Params {
			q.Set(k, v)
		}
		target.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	override := ""
	if enabled(opts.EmulateHTTP) {
		switch method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			override = method
			method = http.MethodPost
		}
	}

	if opts.Timeout != nil && *opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req.Header.Set("Accept", defaultAccept)
	req.Header.Set("User-Agent", h.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if override != "" {
		req.Header.Set(headerMethodOverride, override)
	}
	if opts.RequestID != "" {
		req.Header.Set(headerRequestID, opts.RequestID)
	}
	for k, v := range opts.Headers {
		if k != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := h.clientFor(opts.Credentials).Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody+1))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}
	tooLarge := int64(len(data)) > h.maxBody
	if tooLarge {
		data = data[:h.maxBody]
	}

	out := &Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   data,
	}
	// Error bodies are informational; they are kept truncated.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Response: out}
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, h.maxBody)
	}
	return out, nil
}

func (h *HTTP) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !ref.IsAbs() && h.baseURL != "" {
		base, err := url.Parse(h.baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: base: %w", ErrInvalidURL, err)
		}
		ref = base.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported, got %q", ErrInvalidURL, raw)
	}
	if ref.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return ref, nil
}

func (h *HTTP) clientFor(credentials *bool) *http.Client {
	if credentials == nil {
		return h.client
	}
	c := *h.client
	if *credentials {
		if c.Jar == nil {
			c.Jar = h.jar
		}
	} else {
		c.Jar = nil
	}
	return &c
}

func encodeBody(opts Options) (io.Reader, string, error) {
	if opts.Body == nil {
		return nil, "", nil
	}
	if enabled(opts.EmulateJSON) {
		values := make(url.Values, len(opts.Body))
		for k, v := range opts.Body {
			values.Set(k, v)
		}
		return strings.NewReader(values.Encode()), contentTypeForm, nil
	}
	data, err := json.Marshal(opts.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrEncodeBody, err)
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

func enabled(b *bool) bool {
	return b != nil && *b
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
