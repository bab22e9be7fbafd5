package form

import "errors"

var (
	// ErrSubmissionInProgress is returned by Submit and Reconfigure while an
	// attempt is validating or waiting on the transport.
	ErrSubmissionInProgress = errors.New("form: submission already in progress")

	ErrNilTransport   = errors.New("form: transport is required")
	ErrEmptyFieldName = errors.New("form: field name is required")
	ErrDuplicateField = errors.New("form: field already registered")
	ErrUnknownField   = errors.New("form: field is not registered")
	ErrFieldDetached  = errors.New("form: field has been unregistered")

	ErrInvalidToggle         = errors.New("form: invalid boolean option")
	ErrInvalidResponseFormat = errors.New("form: invalid response format")

	// ErrDecodeResponse wraps a successful response whose body does not
	// match the configured response format.
	ErrDecodeResponse = errors.New("form: failed to decode response")
)
