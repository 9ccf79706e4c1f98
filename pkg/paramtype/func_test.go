package paramtype

import (
	"errors"
	"net/netip"
	"reflect"
	"strings"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"
)

func TestFuncParser(t *testing.T) {
	f := Func{TypeName: "version", Fn: func(s string) (any, error) {
		return version.NewVersion(s)
	}}
	require.Equal(t, "VERSION", f.Name())

	v, err := f.Convert("1.2.3")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", v.(*version.Version).String())

	_, err = f.Convert("not a version")
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, "not a version", convErr.Value)
}

func TestFuncDefaultName(t *testing.T) {
	f := Func{Fn: func(s string) (any, error) { return strings.ToUpper(s), nil }}
	require.Equal(t, "TEXT", f.Name())
	v, err := f.Convert("abc")
	require.NoError(t, err)
	require.Equal(t, "ABC", v)
}

func TestTextUnmarshaler(t *testing.T) {
	typ := reflect.TypeOf(netip.Addr{})
	require.True(t, IsTextUnmarshaler(typ))
	require.False(t, IsTextUnmarshaler(reflect.TypeOf(0)))

	tu := TextUnmarshaler{Type: typ}
	require.Equal(t, "ADDR", tu.Name())
	v, err := tu.Convert("10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, netip.MustParseAddr("10.0.0.1"), v)

	_, err = tu.Convert("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "'nope' is not a valid addr")
}
