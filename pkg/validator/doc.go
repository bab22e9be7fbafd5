// Package validator parses rule-specification strings and evaluates the
// resulting rule invocations against form field values.
//
// A rule specification is the compact string form used in form definitions:
// rules are separated by '|' and arguments by ':'. Surrounding whitespace is
// trimmed and empty segments are skipped, so "required||min:3" and
// " required | min:3 " parse the same way.
//
// # Architecture
//
// Parsing and evaluation are separate steps. Parse turns a specification
// into ordered Invocation values; ParseCached does the same through a small
// process-wide LRU, since forms re-register the same specifications over and
// over. A Registry maps rule names to Rule entries and evaluates invocations
// against a Value.
//
// Core building blocks:
//   - Invocation: a rule name with its positional string arguments
//   - Value: an optional field value; absent and empty are distinct
//   - Values: read access to the other fields, for cross-field rules
//   - Rule: the minimum argument count plus a Check function
//   - Registry: the rule table, safe for concurrent use
//   - Failure: a rule that did not hold, with the arguments it was given
//
// Rules are grouped by family: string_rules.go (required, min, max,
// between), numeric_rules.go (number, min_number, max_number,
// between_number), format_rules.go (email, url) and comparable_rules.go
// (equals, required_if).
//
// # Usage
//
//	invocations := validator.Parse("required|between:3:5")
//	// [{required []} {between [3 5]}]
//
//	values := validator.Map{"password": "secret", "confirm": "secrte"}
//	failures, err := validator.Evaluate(
//	    validator.Present(values["confirm"]),
//	    values,
//	    validator.Parse("required|equals:password"),
//	)
//	if err != nil {
//	    // malformed rule specification, e.g. "min" without a bound
//	}
//	for _, f := range failures {
//	    fmt.Println(f.Rule, f.Args) // equals [password]
//	}
//
// Custom rules are added per registry:
//
//	reg := validator.NewRegistry(
//	    validator.WithRule("slug", validator.Rule{
//	        Check: func(_ string, in validator.Input) (bool, error) {
//	            return in.Value.Empty() || slugRe.MatchString(in.Value.Text), nil
//	        },
//	    }),
//	    validator.WithUnknownRuleHook(func(name string) {
//	        log.Printf("unknown rule %q", name)
//	    }),
//	)
//
// # Evaluation semantics
//
// Evaluation never short-circuits: every invocation is checked and any number
// of failures may be reported for one field in one pass, in declaration order.
// Format, length and numeric rules pass on an empty value, so "min:3" alone
// accepts an empty field; combine it with required. equals skips only
// absent values; a present empty value must still match. Lengths are counted in characters
// (runes), not bytes. Numeric rules parse the trimmed text as a float and
// reject NaN and infinities. Unknown rule names are ignored.
//
// # Error Handling
//
// A rule invoked with fewer arguments than it needs, or with a bound that is
// not a number, yields a *ConfigError wrapping ErrConfig. It is not a
// validation failure: it signals a broken form definition and must be
// surfaced to the developer. Evaluation stops at the first such error and
// discards the failures collected so far. Use IsConfigError or errors.As to
// detect it.
package validator
