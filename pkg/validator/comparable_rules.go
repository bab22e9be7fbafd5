package validator

// equals compares against another field of the same form; an absent
// counterpart never equals a present value.
var equalsRule = Rule{
	MinArgs: 1,
	Check: func(_ string, in Input) (bool, error) {
		if !in.Value.Present {
			return true, nil
		}
		other := lookup(in.All, in.Args[0])
		return other.Present && other.Text == in.Value.Text, nil
	},
}

var requiredIfRule = Rule{
	MinArgs: 1,
	Check: func(_ string, in Input) (bool, error) {
		if lookup(in.All, in.Args[0]).Empty() {
			return true, nil
		}
		return !in.Value.Empty(), nil
	},
}
