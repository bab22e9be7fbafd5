package form

import (
	"maps"
	"net/http"
	"strings"

	"github.com/dmitrymomot/vform/pkg/transport"
)

// RequestOptions builds the transport request for cfg and payload.
// Body-carrying methods send the payload as Body, all others as Params.
func RequestOptions(cfg Config, payload Payload) transport.Options {
	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodPost
	}

	opts := transport.Options{
		URL:         cfg.Action,
		Method:      method,
		Headers:     maps.Clone(cfg.Headers),
		Credentials: cfg.Credentials.ptr(),
		EmulateHTTP: cfg.EmulateHTTP.ptr(),
		EmulateJSON: cfg.EmulateJSON.ptr(),
	}
	if cfg.Timeout > 0 {
		d := cfg.Timeout
		opts.Timeout = &d
	}

	values := map[string]string(payload.Clone())
	if cfg.SendsBody() {
		opts.Body = values
	} else {
		opts.Params = values
	}
	return opts
}
