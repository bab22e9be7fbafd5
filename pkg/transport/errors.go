package transport

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidURL       = errors.New("transport: invalid url")
	ErrEncodeBody       = errors.New("transport: failed to encode request body")
	ErrRequestFailed    = errors.New("transport: request failed")
	ErrTimeout          = errors.New("transport: request timeout")
	ErrUnexpectedStatus = errors.New("transport: unexpected status")
	ErrResponseTooLarge = errors.New("transport: response body too large")
)

// StatusError is returned for responses outside the 2xx range.
// It keeps the response so callers can inspect the body.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	if e.Response == nil {
		return ErrUnexpectedStatus.Error()
	}
	msg := fmt.Sprintf("transport: endpoint returned status %d", e.Response.Status)
	if len(e.Response.Body) > 0 {
		msg += ": " + truncate(strings.ReplaceAll(string(e.Response.Body), "\n", " "), maxErrorBody)
	}
	return msg
}

const maxErrorBody = 200

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
