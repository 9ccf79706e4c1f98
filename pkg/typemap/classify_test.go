package typemap

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-version"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
)

type caseEnum string

func (caseEnum) EnumMembers() []paramtype.EnumMember {
	return []paramtype.EnumMember{
		{Name: "UPPER", Value: caseEnum("CASE")},
		{Name: "TITLE", Value: caseEnum("Case")},
		{Name: "LOWER", Value: caseEnum("case")},
	}
}

type shape int

func (shape) EnumMembers() []paramtype.EnumMember {
	return []paramtype.EnumMember{{Name: "circle", Value: shape(1)}, {Name: "square", Value: shape(2)}}
}

func metaOf[T any](name string) param.ParamMeta {
	return param.ParamMeta{Name: name, Type: reflect.TypeOf((*T)(nil)).Elem(), Default: param.Empty}
}

func classify[T any](t *testing.T, settings ...param.Setting) *Resolved {
	t.Helper()
	r, err := Classify(metaOf[T]("p"), param.Option(param.Required, settings...))
	require.NoError(t, err)
	return r
}

// convert runs the whole pipeline the command layer runs for one raw value.
func convert(t *testing.T, r *Resolved, raw ...string) (any, error) {
	t.Helper()
	var v any
	switch {
	case r.IsTuple:
		slots, err := r.Type.(paramtype.TupleType).ConvertSlots(raw)
		if err != nil {
			return nil, err
		}
		v = slots
	case r.IsList:
		items := make([]any, len(raw))
		for i, s := range raw {
			item, err := r.Type.Convert(s)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		v = items
	default:
		item, err := r.Type.Convert(raw[0])
		if err != nil {
			return nil, err
		}
		v = item
	}
	if r.Convertor != nil {
		converted, err := r.Convertor(v)
		if err != nil {
			return nil, err
		}
		v = converted
	}
	out, err := Coerce(v, r.Target)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func TestClassifyPrimitives(t *testing.T) {
	require.Equal(t, "TEXT", classify[string](t).Type.Name())
	require.Equal(t, "INTEGER", classify[int8](t).Type.Name())
	require.Equal(t, "FLOAT", classify[float32](t).Type.Name())
	require.Equal(t, "UUID", classify[uuid.UUID](t).Type.Name())
	require.Equal(t, "DURATION", classify[time.Duration](t).Type.Name())
	require.Equal(t, "DECIMAL", classify[decimal.Decimal](t).Type.Name())
	require.Equal(t, "FILENAME", classify[paramtype.FileTextRead](t).Type.Name())

	b := classify[bool](t)
	require.True(t, b.IsBool)

	v, err := convert(t, classify[int8](t), "12")
	require.NoError(t, err)
	require.Equal(t, int8(12), v)

	_, err = convert(t, classify[int8](t), "300")
	require.Error(t, err)
}

func TestClassifyPointerIsNullable(t *testing.T) {
	r := classify[*int](t)
	require.True(t, r.Nullable)
	v, err := convert(t, r, "7")
	require.NoError(t, err)
	require.Equal(t, 7, *(v.(*int)))

	out, err := Coerce(nil, r.Target)
	require.NoError(t, err)
	require.True(t, out.IsNil())
}

func TestClassifyRanges(t *testing.T) {
	r := classify[int](t, param.Min(1), param.Max("5"), param.Clamp())
	require.Equal(t, "INTEGER RANGE", r.Type.Name())
	v, err := convert(t, r, "9")
	require.NoError(t, err)
	require.Equal(t, 5, v)

	r = classify[float64](t, param.Max(1.5))
	_, err = convert(t, r, "2")
	require.EqualError(t, err, "2 is not in the range x<=1.5.")

	r = classify[decimal.Decimal](t, param.Min("0.01"))
	require.Equal(t, "DECIMAL RANGE", r.Type.Name())

	v, err = convert(t, classify[int8](t, param.Min(0), param.Max(10), param.Clamp()), "1000")
	require.NoError(t, err)
	require.Equal(t, int8(10), v)

	_, err = convert(t, classify[uint64](t, param.Max(10)), "18446744073709551615")
	require.EqualError(t, err, "18446744073709551615 is not in the range x<=10.")

	_, err = Classify(metaOf[int]("p"), param.Option(param.Required, param.Min("lots")))
	var bound *InvalidBoundError
	require.True(t, errors.As(err, &bound))
	require.Equal(t, "min", bound.Bound)
}

func TestClassifyTuple(t *testing.T) {
	r := classify[paramtype.Tuple3[string, int, bool]](t)
	require.True(t, r.IsTuple)
	require.Equal(t, 3, r.Arity)

	v, err := convert(t, r, "Harry", "100", "true")
	require.NoError(t, err)
	require.Equal(t, paramtype.Tuple3[string, int, bool]{V1: "Harry", V2: 100, V3: true}, v)

	arr := classify[[2]float64](t)
	require.Equal(t, 2, arr.Arity)
	v, err = convert(t, arr, "1.5", "2")
	require.NoError(t, err)
	require.Equal(t, [2]float64{1.5, 2}, v)
}

func TestClassifyTupleSlotConvertorsKeepOrder(t *testing.T) {
	r := classify[paramtype.Tuple3[shape, paramtype.Path, shape]](t, param.EnumByName())
	v, err := convert(t, r, "square", "/nonexistent/x", "circle")
	require.NoError(t, err)
	require.Equal(t, paramtype.Tuple3[shape, paramtype.Path, shape]{V1: 2, V2: "/nonexistent/x", V3: 1}, v)

	native := paramtype.Tuple3[shape, paramtype.Path, shape]{V1: 1, V2: "a", V3: 2}
	again, err := r.Convertor(native)
	require.NoError(t, err)
	require.Equal(t, []any{shape(1), paramtype.Path("a"), shape(2)}, again)
}

func TestClassifyListCollapsesToNil(t *testing.T) {
	for _, def := range []any{nil, []string{}, param.Required} {
		r, err := Classify(metaOf[[]string]("names"), param.Option(def))
		require.NoError(t, err)
		require.True(t, r.IsList)
		v, err := r.Convertor([]any{})
		require.NoError(t, err)
		require.Nil(t, v)

		out, err := Coerce(v, r.Target)
		require.NoError(t, err)
		require.True(t, out.IsNil())
	}

	r, err := Classify(metaOf[[]string]("names"), param.Option([]string{"a"}))
	require.NoError(t, err)
	v, err := r.Convertor([]any{})
	require.NoError(t, err)
	require.Equal(t, []any{}, v)
}

func TestClassifyListOfPaths(t *testing.T) {
	r := classify[[]paramtype.Path](t)
	v, err := convert(t, r, "a", "b")
	require.NoError(t, err)
	require.Equal(t, []paramtype.Path{"a", "b"}, v)

	again, err := r.Convertor([]paramtype.Path{"c"})
	require.NoError(t, err)
	require.Equal(t, []any{paramtype.Path("c")}, again)
}

func TestClassifyPathOptionsOnString(t *testing.T) {
	r := classify[string](t, param.DirOkay(false))
	require.Equal(t, "FILE", r.Type.Name())
	require.Nil(t, r.Convertor)
}

func TestClassifyEnumCaseRules(t *testing.T) {
	r := classify[caseEnum](t)
	require.Equal(t, "[CASE|Case|case]", r.Type.Name())
	for _, in := range []string{"CASE", "Case", "case"} {
		v, err := convert(t, r, in)
		require.NoError(t, err)
		require.Equal(t, caseEnum(in), v)
	}
	_, err := convert(t, r, "cASE")
	require.Error(t, err)

	// Case-insensitive matching returns the first member that matches, so
	// members that differ only by case collapse into the first one.
	r = classify[caseEnum](t, param.CaseSensitive(false))
	for _, in := range []string{"CASE", "Case", "case", "cASE"} {
		v, err := convert(t, r, in)
		require.NoError(t, err)
		require.Equal(t, caseEnum("CASE"), v)
	}
}

func TestClassifyEnumByName(t *testing.T) {
	r := classify[shape](t, param.EnumByName())
	require.Equal(t, "[circle|square]", r.Type.Name())
	v, err := convert(t, r, "square")
	require.NoError(t, err)
	require.Equal(t, shape(2), v)

	r = classify[shape](t)
	v, err = convert(t, r, "1")
	require.NoError(t, err)
	require.Equal(t, shape(1), v)
}

func TestClassifyChoices(t *testing.T) {
	meta := metaOf[string]("level")
	meta.Choices = []string{"debug", "info"}
	r, err := Classify(meta, param.Option(param.Required))
	require.NoError(t, err)
	_, err = convert(t, r, "warn")
	require.EqualError(t, err, "'warn' is not one of 'debug', 'info'.")

	meta = metaOf[int]("level")
	meta.Choices = []string{"1"}
	_, err = Classify(meta, param.Option(param.Required))
	var unsupported *UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
}

func TestClassifyParserAndParamType(t *testing.T) {
	r := classify[*version.Version](t, param.Parser(version.NewVersion))
	require.Equal(t, "VERSION", r.Type.Name())
	v, err := convert(t, r, "1.2.0")
	require.NoError(t, err)
	require.Equal(t, "1.2.0", v.(*version.Version).String())

	custom := paramtype.Choice{Choices: []string{"x"}}
	r = classify[string](t, param.WithParamType(custom))
	require.Equal(t, custom, r.Type)
	require.Nil(t, r.Convertor)
	require.False(t, r.IsBool)
}

func TestClassifyTextUnmarshalerAndTime(t *testing.T) {
	r := classify[netip.Addr](t)
	v, err := convert(t, r, "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, netip.MustParseAddr("127.0.0.1"), v)

	r = classify[time.Time](t, param.Formats("2006/01/02"))
	v, err = convert(t, r, "2024/05/06")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), v)
}

func TestClassifyUnsupported(t *testing.T) {
	for name, meta := range map[string]param.ParamMeta{
		"nested list":    metaOf[[][]string]("p"),
		"list of tuples": metaOf[[]paramtype.Tuple2[string, int]]("p"),
		"tuple of lists": metaOf[paramtype.Tuple2[[]string, int]]("p"),
		"union":          metaOf[error]("p"),
		"map":            metaOf[map[string]string]("p"),
		"func":           metaOf[func()]("p"),
	} {
		_, err := Classify(meta, param.Option(param.Required))
		var unsupported *UnsupportedTypeError
		require.True(t, errors.As(err, &unsupported), name)
		require.Equal(t, "p", unsupported.Param)
	}
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(int64(5), reflect.TypeOf(uint16(0)))
	require.NoError(t, err)
	require.Equal(t, uint16(5), v.Interface())

	_, err = Coerce(int64(-1), reflect.TypeOf(uint(0)))
	require.Error(t, err)

	v, err = Coerce("x", reflect.TypeOf((*any)(nil)).Elem())
	require.NoError(t, err)
	require.Equal(t, "x", v.Interface())

	v, err = Coerce([]any{int64(1), nil}, reflect.TypeOf([]*int{}))
	require.NoError(t, err)
	out := v.Interface().([]*int)
	require.Equal(t, 1, *out[0])
	require.Nil(t, out[1])

	_, err = Coerce("x", reflect.TypeOf(0))
	require.EqualError(t, err, "cannot use x (string) as int")
}
