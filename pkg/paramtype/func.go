package paramtype

import (
	"encoding"
	"reflect"
	"strings"
)

// Func wraps a developer supplied parser.
type Func struct {
	TypeName string
	Fn       func(string) (any, error)
}

func (f Func) Name() string {
	if f.TypeName == "" {
		return "TEXT"
	}
	return strings.ToUpper(f.TypeName)
}

func (f Func) Convert(value string) (any, error) {
	v, err := f.Fn(value)
	if err != nil {
		return nil, fail(value, "%s", err)
	}
	return v, nil
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// IsTextUnmarshaler reports whether values of t (or *t) can parse themselves from text.
func IsTextUnmarshaler(t reflect.Type) bool {
	return t.Implements(textUnmarshalerType) || reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// TextUnmarshaler converts using the type's own UnmarshalText method.
type TextUnmarshaler struct {
	Type reflect.Type
}

func (t TextUnmarshaler) Name() string {
	return strings.ToUpper(t.Type.Name())
}

func (t TextUnmarshaler) Convert(value string) (any, error) {
	if t.Type.Kind() == reflect.Pointer {
		ptr := reflect.New(t.Type.Elem())
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return nil, fail(value, "'%s' is not a valid %s: %s", value, strings.ToLower(t.Name()), err)
		}
		return ptr.Interface(), nil
	}
	ptr := reflect.New(t.Type)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
		return nil, fail(value, "'%s' is not a valid %s: %s", value, strings.ToLower(t.Name()), err)
	}
	return ptr.Elem().Interface(), nil
}
