package paramtype

import (
	"fmt"
	"strings"
)

// Choice accepts one of a fixed set of strings.
//
// With CaseSensitive off, input is matched against the lower-cased choices and
// the first matching choice is returned, so choices that differ only by case
// are conflated: "case" given to ["CASE", "Case", "case"] yields "CASE".
type Choice struct {
	Choices       []string
	CaseSensitive bool
}

func (c Choice) Name() string {
	return "[" + strings.Join(c.Choices, "|") + "]"
}

func (c Choice) Convert(value string) (any, error) {
	if c.CaseSensitive {
		for _, choice := range c.Choices {
			if choice == value {
				return choice, nil
			}
		}
	} else {
		normed := strings.ToLower(value)
		for _, choice := range c.Choices {
			if strings.ToLower(choice) == normed {
				return choice, nil
			}
		}
	}
	return nil, fail(value, "'%s' is not %s.", value, c.describe())
}

func (c Choice) describe() string {
	quoted := make([]string, len(c.Choices))
	for i, choice := range c.Choices {
		quoted[i] = fmt.Sprintf("'%s'", choice)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "one of " + strings.Join(quoted, ", ")
}

func (c Choice) Complete(incomplete string) []Completion {
	var out []Completion
	for _, choice := range c.Choices {
		if c.CaseSensitive && strings.HasPrefix(choice, incomplete) ||
			!c.CaseSensitive && strings.HasPrefix(strings.ToLower(choice), strings.ToLower(incomplete)) {
			out = append(out, Completion{Value: choice})
		}
	}
	return out
}
