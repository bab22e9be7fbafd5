package validator

import "regexp"

var (
	// Local part is a dot-separated atom list or a quoted string; domain is a
	// bracketed IPv4 literal or labels ending in an alphabetic TLD.
	emailRegex = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

	urlRegex = regexp.MustCompile(`(?i)^(https?://|www\.)[^\s/$.?#][^\s]*$`)
)

var emailRule = Rule{
	Check: func(_ string, in Input) (bool, error) {
		return in.Value.Empty() || emailRegex.MatchString(in.Value.Text), nil
	},
}

var urlRule = Rule{
	Check: func(_ string, in Input) (bool, error) {
		return in.Value.Empty() || urlRegex.MatchString(in.Value.Text), nil
	},
}
