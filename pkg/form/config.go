package form

import (
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/vform/pkg/aggregator"
)

// ResponseFormat selects how a successful response body is decoded.
type ResponseFormat string

const (
	// FormatRaw passes the body through as a string.
	FormatRaw ResponseFormat = "raw"
	// FormatJSON decodes the body as JSON.
	FormatJSON ResponseFormat = "json"
	// FormatBlob keeps the body as bytes along with its content type.
	FormatBlob ResponseFormat = "blob"
	// FormatMsgPack decodes the body as MessagePack.
	FormatMsgPack ResponseFormat = "msgpack"
)

// ParseResponseFormat accepts a format name case-insensitively.
// The empty string selects FormatJSON.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch f := ResponseFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatRaw, FormatJSON, FormatBlob, FormatMsgPack:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidResponseFormat, s)
	}
}

// Toggle is an optional boolean. The zero Toggle is unset, which means
// "leave it to the transport".
type Toggle struct {
	value bool
	set   bool
}

// Bool returns a set Toggle.
func Bool(b bool) Toggle {
	return Toggle{value: b, set: true}
}

// BoolString normalises the literal strings "true" and "false".
// Anything other than "true" is false.
func BoolString(s string) Toggle {
	return Bool(s == "true")
}

// ToggleFrom builds a Toggle from a decoded configuration value: nil,
// a bool, or a string.
func ToggleFrom(v any) (Toggle, error) {
	switch t := v.(type) {
	case nil:
		return Toggle{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return BoolString(t), nil
	case Toggle:
		return t, nil
	default:
		return Toggle{}, fmt.Errorf("%w: %T", ErrInvalidToggle, v)
	}
}

// IsSet reports whether the toggle was configured.
func (t Toggle) IsSet() bool { return t.set }

// Value returns the configured value; false when unset.
func (t Toggle) Value() bool { return t.value }

func (t Toggle) ptr() *bool {
	if !t.set {
		return nil
	}
	v := t.value
	return &v
}

func (t Toggle) String() string {
	if !t.set {
		return "unset"
	}
	if t.value {
		return "true"
	}
	return "false"
}

// Config describes where and how a form is submitted.
type Config struct {
	Action string
	// Method is case-insensitive; empty means POST.
	Method  string
	Headers map[string]string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration

	Credentials Toggle
	EmulateHTTP Toggle
	EmulateJSON Toggle

	// ResponseFormat of "" means FormatJSON.
	ResponseFormat ResponseFormat

	// ErrorTemplates override DefaultTemplates per rule name.
	ErrorTemplates aggregator.Templates
}

func (c Config) normalized() (Config, error) {
	out := c
	out.Method = strings.TrimSpace(out.Method)
	if out.Method == "" {
		out.Method = http.MethodPost
	}
	format, err := ParseResponseFormat(string(out.ResponseFormat))
	if err != nil {
		return Config{}, err
	}
	out.ResponseFormat = format
	out.Headers = maps.Clone(c.Headers)
	out.ErrorTemplates = maps.Clone(c.ErrorTemplates)
	return out, nil
}

// SendsBody reports whether the method carries the payload as a request
// body rather than query parameters.
func (c Config) SendsBody() bool {
	switch strings.ToUpper(strings.TrimSpace(c.Method)) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, "":
		return true
	default:
		return false
	}
}
