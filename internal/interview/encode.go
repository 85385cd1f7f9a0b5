package interview

import (
	"strconv"
	"strings"
	"unicode"
)

// Rule is one step of answer encoding. Rules run top-down as a pipeline:
// every rule whose Applies reports true replaces the value produced so far,
// so a later rule overrides an earlier one for the same answer.
type Rule struct {
	Name    string
	Applies func(q QuestionSpec, raw string) bool
	Encode  func(raw string) Value
}

// DefaultRules returns the encoding rules the prediction endpoint expects:
//
//  1. gender: "Male" -> 1 (integer), "Female" -> "2", anything else unchanged
//  2. "Yes" -> "2", "No" -> "1" on any question
//  3. age: base-10 integer parse, NaN when nothing parses
//
// The mixed integer/string gender encoding is what the deployed endpoint
// has always received. normalizeGender emits "1" as a string instead.
func DefaultRules(normalizeGender bool) []Rule {
	return []Rule{
		{
			Name:    "gender",
			Applies: func(q QuestionSpec, _ string) bool { return q.Key == KeyGender },
			Encode: func(raw string) Value {
				switch raw {
				case "Male":
					if normalizeGender {
						return StringValue("1")
					}
					return IntValue(1)
				case "Female":
					return StringValue("2")
				default:
					return StringValue(raw)
				}
			},
		},
		{
			Name:    "yes-no",
			Applies: func(_ QuestionSpec, raw string) bool { return raw == "Yes" || raw == "No" },
			Encode: func(raw string) Value {
				if raw == "Yes" {
					return StringValue("2")
				}
				return StringValue("1")
			},
		},
		{
			Name:    "age",
			Applies: func(q QuestionSpec, _ string) bool { return q.Key == KeyAge },
			Encode:  ParseInt,
		},
	}
}

// Encode runs raw through rules for question q. Without any applicable
// rule the raw string passes through unchanged.
func Encode(rules []Rule, q QuestionSpec, raw string) Value {
	v := StringValue(raw)
	for _, r := range rules {
		if r.Applies(q, raw) {
			v = r.Encode(raw)
		}
	}
	return v
}

// ParseInt parses the leading base-10 integer of s: leading whitespace
// and an optional sign are accepted and anything after the digits is
// ignored, so "45", " 45" and "45 years" all yield 45. Input with no
// leading digits, or that overflows int, yields NaN.
func ParseInt(s string) Value {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return NaNValue()
	}

	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return NaNValue()
	}
	return IntValue(n)
}
