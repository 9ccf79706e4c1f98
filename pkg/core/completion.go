package core

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/replicate/sigcli/pkg/paramtype"
)

// CompletionFunc suggests values for a parameter while the user types.
type CompletionFunc func(ctx *Context, p *Parameter, args []string, incomplete string) iter.Seq[paramtype.Completion]

// InvalidAutocompletionParametersError names the parameters of an
// autocompletion function that could not be bound.
type InvalidAutocompletionParametersError struct {
	Params []string
}

func (e *InvalidAutocompletionParametersError) Error() string {
	return "Invalid autocompletion callback parameters: " + strings.Join(e.Params, ", ")
}

// InvalidAutocompletionReturnError reports an autocompletion function whose
// result cannot be read as suggestions.
type InvalidAutocompletionReturnError struct {
	Type reflect.Type
}

func (e *InvalidAutocompletionReturnError) Error() string {
	return fmt.Sprintf("invalid autocompletion function %s: must return []string, [][2]string, []paramtype.Completion or an iter.Seq of them", e.Type)
}

type completionSlot int

const (
	completeContext completionSlot = iota
	completeArgs
	completeParam
	completeIncomplete
)

var (
	stringType      = reflect.TypeOf("")
	stringsType     = reflect.TypeOf([]string{})
	completionsType = reflect.TypeOf([]paramtype.Completion{})
	pairsType       = reflect.TypeOf([][2]string{})
	seqStringType   = reflect.TypeOf(iter.Seq[string](nil))
	seqPairType     = reflect.TypeOf(iter.Seq2[string, string](nil))
	seqCompType     = reflect.TypeOf(iter.Seq[paramtype.Completion](nil))
)

// WrapCompletion adapts fn to a CompletionFunc. fn may take any of
// *Context, []string (the arguments typed so far), *Parameter and string
// (the incomplete word) in any order, or a single struct whose fields are
// bound by type and then by name (Ctx, Args, Param, Incomplete). The first
// string field receives the incomplete word.
func WrapCompletion(fn any) (CompletionFunc, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, &InvalidAutocompletionReturnError{Type: reflect.TypeOf(fn)}
	}
	t := v.Type()
	if t.NumOut() != 1 {
		return nil, &InvalidAutocompletionReturnError{Type: t}
	}
	toSeq, err := completionReader(t.Out(0))
	if err != nil {
		return nil, err
	}

	var build func(values map[completionSlot]reflect.Value) []reflect.Value
	if t.NumIn() == 1 && t.In(0).Kind() == reflect.Struct {
		st := t.In(0)
		slots := make([]completionSlot, st.NumField())
		var unbound []string
		incompleteBound := false
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			slot, ok := slotByType(f.Type)
			if !ok && f.Type == stringType && !incompleteBound {
				slot, ok = completeIncomplete, true
				incompleteBound = true
			}
			if !ok && f.IsExported() {
				slot, ok = slotByName(strcase.ToSnake(f.Name), f.Type)
			}
			if !ok || !f.IsExported() {
				unbound = append(unbound, strcase.ToSnake(f.Name))
				continue
			}
			slots[i] = slot
		}
		if len(unbound) > 0 {
			return nil, &InvalidAutocompletionParametersError{Params: unbound}
		}
		build = func(values map[completionSlot]reflect.Value) []reflect.Value {
			arg := reflect.New(st).Elem()
			for i, slot := range slots {
				arg.Field(i).Set(values[slot])
			}
			return []reflect.Value{arg}
		}
	} else {
		slots := make([]completionSlot, t.NumIn())
		var unbound []string
		incompleteBound := false
		for i := 0; i < t.NumIn(); i++ {
			in := t.In(i)
			slot, ok := slotByType(in)
			if !ok && (in == stringType || in == anyType) && !incompleteBound {
				slot, ok = completeIncomplete, true
				incompleteBound = true
			}
			if !ok {
				unbound = append(unbound, fmt.Sprintf("#%d (%s)", i+1, in))
				continue
			}
			slots[i] = slot
		}
		if len(unbound) > 0 {
			return nil, &InvalidAutocompletionParametersError{Params: unbound}
		}
		build = func(values map[completionSlot]reflect.Value) []reflect.Value {
			args := make([]reflect.Value, len(slots))
			for i, slot := range slots {
				args[i] = values[slot].Convert(t.In(i))
			}
			return args
		}
	}

	return func(ctx *Context, p *Parameter, args []string, incomplete string) iter.Seq[paramtype.Completion] {
		values := map[completionSlot]reflect.Value{
			completeContext:    reflect.ValueOf(ctx),
			completeArgs:       reflect.ValueOf(args),
			completeParam:      reflect.ValueOf(p),
			completeIncomplete: reflect.ValueOf(incomplete),
		}
		if args == nil {
			values[completeArgs] = reflect.ValueOf([]string{})
		}
		out := v.Call(build(values))
		return toSeq(out[0])
	}, nil
}

func slotByType(t reflect.Type) (completionSlot, bool) {
	switch t {
	case contextType:
		return completeContext, true
	case stringsType:
		return completeArgs, true
	case parameterType:
		return completeParam, true
	}
	return 0, false
}

var slotTypes = map[string]struct {
	slot completionSlot
	typ  reflect.Type
}{
	"ctx":        {completeContext, contextType},
	"args":       {completeArgs, stringsType},
	"param":      {completeParam, parameterType},
	"incomplete": {completeIncomplete, stringType},
}

// slotByName binds a field named ctx, args, param or incomplete whose type
// can hold the value passed in that slot.
func slotByName(name string, t reflect.Type) (completionSlot, bool) {
	st, ok := slotTypes[name]
	if !ok || !st.typ.AssignableTo(t) {
		return 0, false
	}
	return st.slot, true
}

// completionReader returns a function that lazily turns fn's result into
// completions.
func completionReader(t reflect.Type) (func(reflect.Value) iter.Seq[paramtype.Completion], error) {
	switch {
	case t == stringsType:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			items := rv.Interface().([]string)
			return func(yield func(paramtype.Completion) bool) {
				for _, s := range items {
					if !yield(paramtype.Completion{Value: s}) {
						return
					}
				}
			}
		}, nil
	case t == completionsType:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			items := rv.Interface().([]paramtype.Completion)
			return func(yield func(paramtype.Completion) bool) {
				for _, c := range items {
					if !yield(c) {
						return
					}
				}
			}
		}, nil
	case t == pairsType:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			items := rv.Interface().([][2]string)
			return func(yield func(paramtype.Completion) bool) {
				for _, pair := range items {
					if !yield(paramtype.Completion{Value: pair[0], Help: pair[1]}) {
						return
					}
				}
			}
		}, nil
	case t.ConvertibleTo(seqCompType) && t.Kind() == reflect.Func:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			if rv.IsNil() {
				return func(func(paramtype.Completion) bool) {}
			}
			return rv.Convert(seqCompType).Interface().(iter.Seq[paramtype.Completion])
		}, nil
	case t.ConvertibleTo(seqStringType) && t.Kind() == reflect.Func:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			if rv.IsNil() {
				return func(func(paramtype.Completion) bool) {}
			}
			seq := rv.Convert(seqStringType).Interface().(iter.Seq[string])
			return func(yield func(paramtype.Completion) bool) {
				for s := range seq {
					if !yield(paramtype.Completion{Value: s}) {
						return
					}
				}
			}
		}, nil
	case t.ConvertibleTo(seqPairType) && t.Kind() == reflect.Func:
		return func(rv reflect.Value) iter.Seq[paramtype.Completion] {
			if rv.IsNil() {
				return func(func(paramtype.Completion) bool) {}
			}
			seq := rv.Convert(seqPairType).Interface().(iter.Seq2[string, string])
			return func(yield func(paramtype.Completion) bool) {
				for value, help := range seq {
					if !yield(paramtype.Completion{Value: value, Help: help}) {
						return
					}
				}
			}
		}, nil
	}
	return nil, &InvalidAutocompletionReturnError{Type: t}
}
