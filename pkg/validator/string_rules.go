package validator

import (
	"strconv"
	"strings"
)

var requiredRule = Rule{
	Check: func(_ string, in Input) (bool, error) {
		return !in.Value.Empty(), nil
	},
}

var minLenRule = Rule{
	MinArgs: 1,
	Check: func(rule string, in Input) (bool, error) {
		n, err := intArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		return in.Value.Empty() || in.Value.Len() >= n, nil
	},
}

var maxLenRule = Rule{
	MinArgs: 1,
	Check: func(rule string, in Input) (bool, error) {
		n, err := intArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		return in.Value.Empty() || in.Value.Len() <= n, nil
	},
}

var betweenLenRule = Rule{
	MinArgs: 2,
	Check: func(rule string, in Input) (bool, error) {
		lo, err := intArg(rule, in.Args, 0)
		if err != nil {
			return false, err
		}
		hi, err := intArg(rule, in.Args, 1)
		if err != nil {
			return false, err
		}
		if in.Value.Empty() {
			return true, nil
		}
		n := in.Value.Len()
		return n >= lo && n <= hi, nil
	},
}

func intArg(rule string, args []string, pos int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args[pos]))
	if err != nil {
		return 0, newBadArgError(rule, args, pos, "length")
	}
	return n, nil
}
