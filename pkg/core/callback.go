package core

import (
	"fmt"
	"reflect"

	"github.com/replicate/sigcli/pkg/typemap"
)

// CallbackFunc validates or replaces a parameter's value after conversion.
type CallbackFunc func(ctx *Context, p *Parameter, value any) (any, error)

// TooManyCallbackParametersError is returned when a callback is invoked
// whose parameters cannot all be bound.
type TooManyCallbackParametersError struct {
	Count int
}

func (e *TooManyCallbackParametersError) Error() string {
	return "Too many CLI parameter callback function parameters"
}

// InvalidCallbackError reports a callback that is not a function or returns
// something other than nothing, an error, a value, or a value and an error.
type InvalidCallbackError struct {
	Type reflect.Type
}

func (e *InvalidCallbackError) Error() string {
	return fmt.Sprintf("invalid parameter callback %s: must return nothing, error, T or (T, error)", e.Type)
}

var (
	contextType   = reflect.TypeOf((*Context)(nil))
	parameterType = reflect.TypeOf((*Parameter)(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	anyType       = reflect.TypeOf((*any)(nil)).Elem()
)

type argSlot int

const (
	slotValue argSlot = iota
	slotContext
	slotParam
)

// WrapCallback adapts fn to a CallbackFunc. Parameters of type *Context and
// *Parameter are bound by type and the remaining one receives the value. If
// every parameter is declared as any they are bound by count instead:
// (value), (ctx, value) or (ctx, param, value). Binding problems are
// reported when the callback is invoked.
func WrapCallback(fn any) (CallbackFunc, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, &InvalidCallbackError{Type: reflect.TypeOf(fn)}
	}
	t := v.Type()
	returnsValue, returnsError := false, false
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			returnsError = true
		} else {
			returnsValue = true
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, &InvalidCallbackError{Type: t}
		}
		returnsValue, returnsError = true, true
	default:
		return nil, &InvalidCallbackError{Type: t}
	}

	slots, bindErr := callbackSlots(t)

	return func(ctx *Context, p *Parameter, value any) (any, error) {
		if bindErr != nil {
			return nil, bindErr
		}
		args := make([]reflect.Value, len(slots))
		for i, slot := range slots {
			switch slot {
			case slotContext:
				args[i] = reflect.ValueOf(ctx)
			case slotParam:
				args[i] = reflect.ValueOf(p)
			default:
				arg, err := typemap.Coerce(value, t.In(i))
				if err != nil {
					return nil, err
				}
				args[i] = arg
			}
		}
		out := v.Call(args)
		if returnsError {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return nil, err
			}
		}
		if returnsValue {
			return out[0].Interface(), nil
		}
		return value, nil
	}, nil
}

func callbackSlots(t reflect.Type) ([]argSlot, error) {
	n := t.NumIn()
	untyped := n > 0
	for i := 0; i < n; i++ {
		if t.In(i) != anyType {
			untyped = false
		}
	}

	if untyped {
		switch n {
		case 1:
			return []argSlot{slotValue}, nil
		case 2:
			return []argSlot{slotContext, slotValue}, nil
		case 3:
			return []argSlot{slotContext, slotParam, slotValue}, nil
		}
		return nil, &TooManyCallbackParametersError{Count: n}
	}

	slots := make([]argSlot, n)
	values := 0
	for i := 0; i < n; i++ {
		switch t.In(i) {
		case contextType:
			slots[i] = slotContext
		case parameterType:
			slots[i] = slotParam
		default:
			slots[i] = slotValue
			values++
		}
	}
	if values > 1 {
		return nil, &TooManyCallbackParametersError{Count: n}
	}
	return slots, nil
}
