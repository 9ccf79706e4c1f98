package typemap

import (
	"fmt"
	"reflect"

	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
)

var stringType = reflect.TypeOf("")

// namedStringConvertor converts plain strings to a named string type such as
// paramtype.Path.
func namedStringConvertor(t reflect.Type) Convertor {
	if t == stringType || t.Kind() != reflect.String {
		return nil
	}
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		rv := reflect.ValueOf(v)
		if rv.Type() == t || rv.Kind() != reflect.String {
			return v, nil
		}
		return rv.Convert(t).Interface(), nil
	}
}

// enumConvertor maps a matched choice back to its enum member.
func enumConvertor(t reflect.Type, members []paramtype.EnumMember, byName bool) Convertor {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		rv := reflect.ValueOf(v)
		if rv.Type() == t {
			return v, nil
		}
		if rv.Kind() != reflect.String {
			return nil, fmt.Errorf("%v is not a valid %s", v, t.Name())
		}
		s := rv.String()
		for _, m := range members {
			key := m.ValueString()
			if byName {
				key = m.Name
			}
			if key == s {
				return m.Value, nil
			}
		}
		return nil, fmt.Errorf("'%s' is not a valid %s", s, t.Name())
	}
}

// listConvertor applies elem to every item. An empty list collapses to nil
// unless the parameter has a non-empty default.
func listConvertor(elem Convertor, def any) Convertor {
	collapse := def == nil || param.IsUnset(def)
	if !collapse {
		rv := reflect.ValueOf(def)
		collapse = (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0
	}
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			rv = reflect.ValueOf([]any{v})
		}
		if rv.Len() == 0 && collapse {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			item := rv.Index(i).Interface()
			if elem != nil {
				converted, err := elem(item)
				if err != nil {
					return nil, err
				}
				item = converted
			}
			out[i] = item
		}
		return out, nil
	}
}

// tupleConvertor applies each slot's convertor to that slot, in order.
func tupleConvertor(slots []Convertor) Convertor {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		values, err := tupleValues(v)
		if err != nil {
			return nil, err
		}
		if len(values) != len(slots) {
			return nil, fmt.Errorf("%d values are required, but %d were given", len(slots), len(values))
		}
		out := make([]any, len(values))
		for i, item := range values {
			if slots[i] != nil && item != nil {
				converted, err := slots[i](item)
				if err != nil {
					return nil, err
				}
				item = converted
			}
			out[i] = item
		}
		return out, nil
	}
}

func tupleValues(v any) ([]any, error) {
	switch tv := v.(type) {
	case []any:
		return tv, nil
	case paramtype.TupleValue:
		return tv.Values(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a tuple, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
