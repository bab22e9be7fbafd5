package validator

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber reports the numeric value of s. Surrounding whitespace is
// ignored; NaN and infinities are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberArg(rule string, args []string, pos int) (float64, error) {
	f, ok := parseNumber(args[pos])
	if !ok {
		return 0, newBadArgError(rule, args, pos, "number")
	}
	return f, nil
}

var numberRule = Rule{
	Check: func(_ string, in Input) (bool, error) {
		if in.Value.Empty() {
			return true, nil
		}
		_, ok := parseNumber(in.Value.Text)
		return ok, nil
	},
}

// Numeric bounds only apply to values that parse as numbers; anything else
// is the number rule's concern.

var minNumberRule = Rule{
	MinArgs: 1,
	Check: func(rule string, in Input) (bool, error) {
		lo, err := numberArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		f, ok := parseNumber(in.Value.Text)
		return !in.Value.Present || !ok || f >= lo, nil
	},
}

var maxNumberRule = Rule{
	MinArgs: 1,
	Check: func(rule string, in Input) (bool, error) {
		hi, err := numberArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		f, ok := parseNumber(in.Value.Text)
		return !in.Value.Present || !ok || f <= hi, nil
	},
}

var betweenNumberRule = Rule{
	MinArgs: 2,
	Check: func(rule string, in Input) (bool, error) {
		lo, err := numberArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		hi, err := numberArg(rule, in.Args, 1)
		if err != nil {
			return false, err
		}
		f, ok := parseNumber(in.Value.Text)
		return !in.Value.Present || !ok || (f >= lo && f <= hi), nil
	},
}
