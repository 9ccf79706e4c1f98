package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapCallbackUntypedByCount(t *testing.T) {
	ctx := NewContext(nil, "app")
	p := &Parameter{Name: "name"}

	var got []any
	one, err := WrapCallback(func(v any) any { got = []any{v}; return v })
	require.NoError(t, err)
	_, err = one(ctx, p, "a")
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, got)

	two, err := WrapCallback(func(c, v any) any { got = []any{c, v}; return v })
	require.NoError(t, err)
	_, err = two(ctx, p, "b")
	require.NoError(t, err)
	require.Equal(t, []any{ctx, "b"}, got)

	three, err := WrapCallback(func(c, param, v any) any { got = []any{c, param, v}; return v })
	require.NoError(t, err)
	_, err = three(ctx, p, "c")
	require.NoError(t, err)
	require.Equal(t, []any{ctx, p, "c"}, got)
}

func TestWrapCallbackTooManyParameters(t *testing.T) {
	called := false
	cb, err := WrapCallback(func(a, b, c, d any) any { called = true; return a })
	require.NoError(t, err)

	_, err = cb(NewContext(nil, "app"), &Parameter{}, "x")
	var tooMany *TooManyCallbackParametersError
	require.True(t, errors.As(err, &tooMany))
	require.Equal(t, "Too many CLI parameter callback function parameters", err.Error())
	require.False(t, called)

	cb, err = WrapCallback(func(a string, b int) string { return a })
	require.NoError(t, err)
	_, err = cb(NewContext(nil, "app"), &Parameter{}, "x")
	require.True(t, errors.As(err, &tooMany))
}

func TestWrapCallbackTypedBinding(t *testing.T) {
	ctx := NewContext(nil, "app")
	p := &Parameter{Name: "count"}

	cb, err := WrapCallback(func(param *Parameter, n int, c *Context) (int, error) {
		require.Same(t, p, param)
		require.Same(t, ctx, c)
		if n > 10 {
			return 0, fmt.Errorf("too big")
		}
		return n * 2, nil
	})
	require.NoError(t, err)

	out, err := cb(ctx, p, 4)
	require.NoError(t, err)
	require.Equal(t, 8, out)

	_, err = cb(ctx, p, 11)
	require.EqualError(t, err, "too big")
}

func TestWrapCallbackReturnShapes(t *testing.T) {
	ctx := NewContext(nil, "app")
	p := &Parameter{}

	for _, tt := range []struct {
		name    string
		fn      any
		want    any
		wantErr string
	}{
		{name: "nothing", fn: func(s string) {}, want: "in"},
		{name: "error only", fn: func(s string) error { return nil }, want: "in"},
		{name: "error only failing", fn: func(s string) error { return errors.New("nope") }, wantErr: "nope"},
		{name: "value", fn: func(s string) string { return s + "!" }, want: "in!"},
		{name: "value and error", fn: func(s string) (string, error) { return "out", nil }, want: "out"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cb, err := WrapCallback(tt.fn)
			require.NoError(t, err)
			out, err := cb(ctx, p, "in")
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestWrapCallbackInvalid(t *testing.T) {
	var invalid *InvalidCallbackError
	for _, fn := range []any{
		"not a function",
		func(s string) (string, string) { return s, s },
		func(s string) (string, error, error) { return s, nil, nil },
	} {
		_, err := WrapCallback(fn)
		require.True(t, errors.As(err, &invalid), "%T", fn)
	}
}

func TestWrapCallbackCoercesValue(t *testing.T) {
	cb, err := WrapCallback(func(n int8) int8 { return n + 1 })
	require.NoError(t, err)
	out, err := cb(NewContext(nil, "app"), &Parameter{}, int64(3))
	require.NoError(t, err)
	require.Equal(t, int8(4), out)
}
