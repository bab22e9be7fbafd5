package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/transport"
)

// FormErrorsKey holds endpoint errors that are not tied to a field.
const FormErrorsKey = "_form"

// Blob is a FormatBlob response body.
type Blob struct {
	ContentType string
	Data        []byte
}

// ResponseState describes the most recent submission outcome.
// It is reset at the start of every attempt.
type ResponseState struct {
	// Status is the HTTP status when one was received.
	Status int
	// Raw is the decoded body: string, Blob, or the JSON/MessagePack value.
	Raw any
	// Data is Raw when it decoded to an object.
	Data map[string]any

	// Errors are the field errors reported by the endpoint.
	Errors     aggregator.ErrorMap
	RedirectTo string
	Message    string
	// ServerError is set when the endpoint flagged the request as failed
	// in an otherwise successful response.
	ServerError bool

	// Err is the transport or decode failure.
	Err error
}

func (r ResponseState) HasMessage() bool { return r.Message != "" }

// HasError reports a transport failure or an endpoint-flagged error.
func (r ResponseState) HasError() bool { return r.Err != nil || r.ServerError }

func (r ResponseState) HasErrors() bool { return !r.Errors.IsEmpty() }

func decodeResponse(format ResponseFormat, resp *transport.Response) (ResponseState, error) {
	if resp == nil {
		return ResponseState{}, fmt.Errorf("%w: empty response", ErrDecodeResponse)
	}
	state := ResponseState{Status: resp.Status}

	switch format {
	case FormatRaw:
		state.Raw = string(resp.Body)
		return state, nil
	case FormatBlob:
		state.Raw = Blob{ContentType: resp.ContentType(), Data: bytes.Clone(resp.Body)}
		return state, nil
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return state, nil
	}

	var v any
	var err error
	if format == FormatMsgPack {
		err = msgpack.Unmarshal(resp.Body, &v)
	} else {
		err = json.Unmarshal(resp.Body, &v)
	}
	if err != nil {
		return ResponseState{Status: resp.Status}, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	state.Raw = v
	if data, ok := v.(map[string]any); ok {
		state.Data = data
		interpret(&state, data)
	}
	return state, nil
}

// interpret reads the conventional errors, redirect, message and error keys.
func interpret(state *ResponseState, data map[string]any) {
	state.Errors = extractErrors(data["errors"])
	if s, ok := data["redirect"].(string); ok {
		state.RedirectTo = s
	}
	if msg, ok := data["message"]; ok && msg != nil {
		if s, ok := msg.(string); ok {
			state.Message = s
		} else {
			state.Message = fmt.Sprint(msg)
		}
	}
	state.ServerError = truthy(data["error"])
}

func extractErrors(v any) aggregator.ErrorMap {
	errs := make(aggregator.ErrorMap)
	switch e := v.(type) {
	case map[string]any:
		for field, msgs := range e {
			for _, msg := range messages(msgs) {
				errs.Add(field, msg)
			}
		}
	case []any, string:
		for _, msg := range messages(e) {
			errs.Add(FormErrorsKey, msg)
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func messages(v any) []string {
	switch m := v.(type) {
	case string:
		return []string{m}
	case []any:
		out := make([]string, 0, len(m))
		for _, item := range m {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}
