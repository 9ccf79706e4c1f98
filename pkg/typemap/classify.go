// Package typemap maps the Go type of a parameter to a paramtype.ParamType
// and the convertor that turns parsed values into that Go type.
package typemap

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
	"github.com/replicate/sigcli/pkg/util/console"
)

// Convertor turns a parsed value into the value handed to the command. nil
// passes through unchanged, and values that are already converted are
// returned as they are.
type Convertor func(any) (any, error)

// Resolved is the result of classifying a parameter's type.
type Resolved struct {
	// Type converts one raw value. For lists it is the element type; for
	// tuples it is a paramtype.TupleType.
	Type      paramtype.ParamType
	Convertor Convertor
	IsList    bool
	IsTuple   bool
	Arity     int
	IsBool    bool
	Nullable  bool
	// Target is the declared Go type.
	Target reflect.Type
	// Elem is Target without pointers and, for lists, the element type.
	Elem reflect.Type
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	pathType     = reflect.TypeOf(paramtype.Path(""))
	enumType     = reflect.TypeOf((*paramtype.Enum)(nil)).Elem()
	tupleType    = reflect.TypeOf((*paramtype.TupleValue)(nil)).Elem()

	fileModes = map[reflect.Type]string{
		reflect.TypeOf(paramtype.FileTextRead{}):    "r",
		reflect.TypeOf(paramtype.FileTextWrite{}):   "w",
		reflect.TypeOf(paramtype.FileBinaryRead{}):  "rb",
		reflect.TypeOf(paramtype.FileBinaryWrite{}): "wb",
		reflect.TypeOf(&paramtype.File{}):           "r",
	}
)

func unwrapPointer(t reflect.Type) (reflect.Type, bool) {
	nullable := false
	for t.Kind() == reflect.Pointer && !isScalarPointer(t) {
		nullable = true
		t = t.Elem()
	}
	return t, nullable
}

// isScalarPointer reports pointer types that are values in their own right.
func isScalarPointer(t reflect.Type) bool {
	_, ok := fileModes[t]
	return ok
}

// isLeaf reports types that convert from a single raw value even though
// their kind is a slice, array or struct.
func isLeaf(t reflect.Type) bool {
	switch t {
	case timeType, durationType, uuidType, decimalType, pathType:
		return true
	}
	if _, ok := fileModes[t]; ok {
		return true
	}
	return t.Implements(enumType) || paramtype.IsTextUnmarshaler(t)
}

func isTuple(t reflect.Type) bool {
	if isLeaf(t) {
		return false
	}
	return t.Kind() == reflect.Struct && t.Implements(tupleType) || t.Kind() == reflect.Array
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && !isLeaf(t)
}

func isContainer(t reflect.Type) bool {
	return isList(t) || isTuple(t)
}

// Classify maps meta's type to a parameter type and convertor. All
// unsupported types are reported here, before any command runs.
func Classify(meta param.ParamMeta, info param.ParameterInfo) (*Resolved, error) {
	base := info.Base()
	r := &Resolved{Target: meta.Type}
	t, nullable := unwrapPointer(meta.Type)
	r.Nullable = nullable

	if t.Kind() == reflect.Interface {
		return nil, &UnsupportedTypeError{Param: meta.Name, Type: meta.Type, Reason: "interface types with more than one implementation are ambiguous"}
	}

	c := classifier{meta: meta, info: base}
	switch {
	case isList(t):
		elem, _ := unwrapPointer(t.Elem())
		if isContainer(elem) {
			return nil, &UnsupportedTypeError{Param: meta.Name, Type: meta.Type, Reason: "lists of lists or tuples are not supported"}
		}
		pt, conv, err := c.scalar(elem)
		if err != nil {
			return nil, err
		}
		r.IsList = true
		r.Elem = t.Elem()
		r.Type = pt
		r.Convertor = listConvertor(conv, base.Default)

	case isTuple(t):
		slots := tupleSlots(t)
		types := make([]paramtype.ParamType, len(slots))
		convs := make([]Convertor, len(slots))
		for i, slot := range slots {
			st, _ := unwrapPointer(slot)
			if isContainer(st) {
				return nil, &UnsupportedTypeError{Param: meta.Name, Type: meta.Type, Reason: "tuple slots must not be lists or tuples"}
			}
			pt, conv, err := c.scalar(st)
			if err != nil {
				return nil, err
			}
			types[i], convs[i] = pt, conv
		}
		r.IsTuple = true
		r.Arity = len(slots)
		r.Elem = t
		r.Type = paramtype.TupleType{Types: types}
		r.Convertor = tupleConvertor(convs)

	default:
		pt, conv, err := c.scalar(t)
		if err != nil {
			return nil, err
		}
		r.Elem = t
		r.Type = pt
		r.Convertor = conv
		r.IsBool = t.Kind() == reflect.Bool && base.ParamType == nil && base.Parser == nil
	}
	console.Debugf("Parameter %s: %s as %s", meta.Name, meta.Type, r.Type.Name())
	return r, nil
}

func tupleSlots(t reflect.Type) []reflect.Type {
	if t.Kind() == reflect.Array {
		out := make([]reflect.Type, t.Len())
		for i := range out {
			out[i] = t.Elem()
		}
		return out
	}
	out := make([]reflect.Type, t.NumField())
	for i := range out {
		out[i] = t.Field(i).Type
	}
	return out
}

type classifier struct {
	meta param.ParamMeta
	info *param.Info
}

// scalar classifies a non-container type. The convertor is nil when the
// parameter type already produces a value of the right type.
func (c classifier) scalar(t reflect.Type) (paramtype.ParamType, Convertor, error) {
	info := c.info
	if info.ParamType != nil {
		return info.ParamType, nil, nil
	}
	if info.Parser != nil {
		name := info.ParserName
		if name == "" {
			name = t.Name()
		}
		return paramtype.Func{TypeName: name, Fn: info.Parser}, nil, nil
	}
	t, _ = unwrapPointer(t)

	if len(c.meta.Choices) > 0 {
		if t.Kind() != reflect.String {
			return nil, nil, &UnsupportedTypeError{Param: c.meta.Name, Type: t, Reason: "choices require a string type"}
		}
		return paramtype.Choice{Choices: c.meta.Choices, CaseSensitive: info.CaseSensitive}, namedStringConvertor(t), nil
	}

	switch t {
	case timeType:
		return paramtype.DateTime{Formats: info.Formats}, nil, nil
	case durationType:
		return paramtype.Duration, nil, nil
	case uuidType:
		return paramtype.UUID, nil, nil
	case decimalType:
		return c.decimal()
	}
	if mode, ok := fileModes[t]; ok {
		return c.file(t, mode), nil, nil
	}
	if t == pathType || t.Kind() == reflect.String && info.HasPathOptions() {
		return paramtype.PathType{
			Exists:      info.Exists,
			FileOkay:    info.FileOkay,
			DirOkay:     info.DirOkay,
			Readable:    info.Readable,
			Writable:    info.Writable,
			ResolvePath: info.ResolvePath,
			AllowDash:   info.AllowDash,
			ExpandUser:  info.ExpandUser,
		}, namedStringConvertor(t), nil
	}
	if t.Implements(enumType) {
		return c.enum(t)
	}
	if paramtype.IsTextUnmarshaler(t) {
		return paramtype.TextUnmarshaler{Type: t}, nil, nil
	}

	switch t.Kind() {
	case reflect.String:
		return paramtype.String, namedStringConvertor(t), nil
	case reflect.Bool:
		return paramtype.Bool, nil, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.integer(t, false)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return c.integer(t, true)
	case reflect.Float32, reflect.Float64:
		return c.float(t)
	}
	return nil, nil, &UnsupportedTypeError{Param: c.meta.Name, Type: t}
}

func (c classifier) integer(t reflect.Type, unsigned bool) (paramtype.ParamType, Convertor, error) {
	it := paramtype.IntType{Bits: t.Bits(), Unsigned: unsigned}
	if c.info.Min == nil && c.info.Max == nil {
		return it, nil, nil
	}
	lo, err := intBound(c.meta.Name, "min", c.info.Min)
	if err != nil {
		return nil, nil, err
	}
	hi, err := intBound(c.meta.Name, "max", c.info.Max)
	if err != nil {
		return nil, nil, err
	}
	return paramtype.IntRange{IntType: it, Min: lo, Max: hi, Clamp: c.info.Clamp}, nil, nil
}

func (c classifier) float(t reflect.Type) (paramtype.ParamType, Convertor, error) {
	ft := paramtype.FloatType{Bits: t.Bits()}
	if c.info.Min == nil && c.info.Max == nil {
		return ft, nil, nil
	}
	lo, err := floatBound(c.meta.Name, "min", c.info.Min)
	if err != nil {
		return nil, nil, err
	}
	hi, err := floatBound(c.meta.Name, "max", c.info.Max)
	if err != nil {
		return nil, nil, err
	}
	return paramtype.FloatRange{FloatType: ft, Min: lo, Max: hi, Clamp: c.info.Clamp}, nil, nil
}

func (c classifier) decimal() (paramtype.ParamType, Convertor, error) {
	dt := paramtype.DecimalType{Clamp: c.info.Clamp}
	for _, b := range []struct {
		name string
		v    any
		dst  **decimal.Decimal
	}{{"min", c.info.Min, &dt.Min}, {"max", c.info.Max, &dt.Max}} {
		if b.v == nil {
			continue
		}
		d, err := decimal.NewFromString(fmt.Sprint(b.v))
		if err != nil {
			return nil, nil, &InvalidBoundError{Param: c.meta.Name, Bound: b.name, Value: b.v}
		}
		*b.dst = &d
	}
	return dt, nil, nil
}

func (c classifier) file(t reflect.Type, mode string) paramtype.ParamType {
	ft := paramtype.FileType{
		Mode:     mode,
		Encoding: c.info.Encoding,
		Errors:   c.info.Errors,
		Lazy:     c.info.Lazy,
		Atomic:   c.info.Atomic,
	}
	if c.info.Mode != "" {
		ft.Mode = c.info.Mode
	}
	switch t {
	case reflect.TypeOf(paramtype.FileTextRead{}):
		ft.Wrap = func(f *paramtype.File) any { return paramtype.FileTextRead{File: f} }
	case reflect.TypeOf(paramtype.FileTextWrite{}):
		ft.Wrap = func(f *paramtype.File) any { return paramtype.FileTextWrite{File: f} }
	case reflect.TypeOf(paramtype.FileBinaryRead{}):
		ft.Wrap = func(f *paramtype.File) any { return paramtype.FileBinaryRead{File: f} }
	case reflect.TypeOf(paramtype.FileBinaryWrite{}):
		ft.Wrap = func(f *paramtype.File) any { return paramtype.FileBinaryWrite{File: f} }
	}
	return ft
}

func (c classifier) enum(t reflect.Type) (paramtype.ParamType, Convertor, error) {
	e := reflect.Zero(t).Interface().(paramtype.Enum)
	members := e.EnumMembers()
	if len(members) == 0 {
		return nil, nil, &UnsupportedTypeError{Param: c.meta.Name, Type: t, Reason: "enum has no members"}
	}
	choices := paramtype.EnumValues(e)
	if c.info.EnumByName {
		choices = paramtype.EnumNames(e)
	}
	return paramtype.Choice{Choices: choices, CaseSensitive: c.info.CaseSensitive},
		enumConvertor(t, members, c.info.EnumByName), nil
}

func intBound(name, bound string, v any) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	var n int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = int64(rv.Uint())
	case reflect.String:
		parsed, err := strconv.ParseInt(rv.String(), 10, 64)
		if err != nil {
			return nil, &InvalidBoundError{Param: name, Bound: bound, Value: v}
		}
		n = parsed
	default:
		return nil, &InvalidBoundError{Param: name, Bound: bound, Value: v}
	}
	return &n, nil
}

func floatBound(name, bound string, v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	var f float64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return nil, &InvalidBoundError{Param: name, Bound: bound, Value: v}
		}
		f = parsed
	default:
		return nil, &InvalidBoundError{Param: name, Bound: bound, Value: v}
	}
	return &f, nil
}
