package typemap

import (
	"fmt"
	"reflect"
)

// UnsupportedTypeError is returned at build time for types that cannot be
// used as parameters.
type UnsupportedTypeError struct {
	Param  string
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("type not yet supported for parameter %q: %s (%s)", e.Param, e.Type, e.Reason)
	}
	return fmt.Sprintf("type not yet supported for parameter %q: %s", e.Param, e.Type)
}

// InvalidBoundError is returned when a min or max bound does not fit the parameter type.
type InvalidBoundError struct {
	Param string
	Bound string
	Value any
}

func (e *InvalidBoundError) Error() string {
	return fmt.Sprintf("invalid %s bound %v for parameter %q", e.Bound, e.Value, e.Param)
}
