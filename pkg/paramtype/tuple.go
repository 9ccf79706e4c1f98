package paramtype

import "strings"

// Tuple2 is a fixed two-slot parameter value.
type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

// Tuple3 is a fixed three-slot parameter value.
type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

// Tuple4 is a fixed four-slot parameter value.
type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

func (Tuple2[A, B]) isTuple()       {}
func (Tuple3[A, B, C]) isTuple()    {}
func (Tuple4[A, B, C, D]) isTuple() {}

func (t Tuple2[A, B]) Values() []any       { return []any{t.V1, t.V2} }
func (t Tuple3[A, B, C]) Values() []any    { return []any{t.V1, t.V2, t.V3} }
func (t Tuple4[A, B, C, D]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4} }

// TupleValue is implemented by the TupleN types. Struct fields V1..Vn hold the slots.
type TupleValue interface {
	isTuple()
	Values() []any
}

// TupleType converts a fixed number of raw values, one type per slot.
type TupleType struct {
	Types []ParamType
}

func (t TupleType) Name() string {
	names := make([]string, len(t.Types))
	for i, typ := range t.Types {
		names[i] = typ.Name()
	}
	return "<" + strings.Join(names, " ") + ">"
}

func (t TupleType) Arity() int {
	return len(t.Types)
}

func (t TupleType) Convert(value string) (any, error) {
	return t.ConvertSlots([]string{value})
}

// ConvertSlots converts values slot by slot. The result has one entry per slot.
func (t TupleType) ConvertSlots(values []string) ([]any, error) {
	if len(values) != len(t.Types) {
		return nil, fail(strings.Join(values, " "), "%d values are required, but %d were given.", len(t.Types), len(values))
	}
	out := make([]any, len(values))
	for i, v := range values {
		converted, err := t.Types[i].Convert(v)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}
