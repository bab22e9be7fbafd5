package validator

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel wrapped by every ConfigError.
var ErrConfig = errors.New("validator: invalid rule configuration")

// ConfigError describes a rule invocation that cannot be evaluated.
type ConfigError struct {
	Rule   string
	Args   []string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("validator: rule %q: %s", e.Rule, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func newArgCountError(rule string, args []string, want int) *ConfigError {
	return &ConfigError{
		Rule:   rule,
		Args:   args,
		Reason: fmt.Sprintf("expects at least %d argument(s), got %d", want, len(args)),
	}
}

func newBadArgError(rule string, args []string, pos int, what string) *ConfigError {
	return &ConfigError{
		Rule:   rule,
		Args:   args,
		Reason: fmt.Sprintf("argument %d (%q) is not a valid %s", pos+1, args[pos], what),
	}
}

// IsConfigError reports whether err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
