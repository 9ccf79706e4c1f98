// Package paramtype holds the low-level parameter types. Each one turns a
// single raw command-line string into a Go value and knows how to describe
// itself in help output.
package paramtype

import (
	"fmt"
)

// ParamType converts a raw string taken from the command line, the
// environment, a config file or a prompt.
type ParamType interface {
	// Name is the placeholder shown in help output, e.g. "INTEGER".
	Name() string
	Convert(value string) (any, error)
}

// Completer is implemented by types that can suggest values for shell completion.
type Completer interface {
	Complete(incomplete string) []Completion
}

// RangeDescriber is implemented by bounded types; the description is appended
// to the help text, e.g. "1<=x<=5".
type RangeDescriber interface {
	DescribeRange() string
}

// Completion is one shell completion suggestion.
type Completion struct {
	Value string
	Help  string
}

// ConversionError reports a raw value that a type rejected. It carries no
// parameter name; callers attach that when reporting it to the user.
type ConversionError struct {
	Value string
	Msg   string
}

func (e *ConversionError) Error() string {
	return e.Msg
}

func fail(value string, format string, args ...any) error {
	return &ConversionError{Value: value, Msg: fmt.Sprintf(format, args...)}
}
