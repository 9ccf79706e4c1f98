package param

import (
	"reflect"
	"strings"

	"github.com/replicate/sigcli/pkg/paramtype"
)

// Registry maps the names used in struct tags (type, callback,
// autocompletion, parser, param_type, default_factory) to Go values.
type Registry struct {
	types       map[string]reflect.Type
	callbacks   map[string]any
	completions map[string]any
	parsers     map[string]func(string) (any, error)
	paramTypes  map[string]paramtype.ParamType
	factories   map[string]func() any
}

func NewRegistry() *Registry {
	return &Registry{
		types:       map[string]reflect.Type{},
		callbacks:   map[string]any{},
		completions: map[string]any{},
		parsers:     map[string]func(string) (any, error){},
		paramTypes:  map[string]paramtype.ParamType{},
		factories:   map[string]func() any{},
	}
}

// RegisterType makes T available to type tags under name.
func RegisterType[T any](r *Registry, name string) {
	r.types[name] = reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterParser makes fn available to parser tags under name.
func RegisterParser[T any](r *Registry, name string, fn func(string) (T, error)) {
	r.parsers[name] = wrapParser(fn)
}

// RegisterFactory makes fn available to default_factory tags under name.
func RegisterFactory[T any](r *Registry, name string, fn func() T) {
	r.factories[name] = wrapFactory(fn)
}

func (r *Registry) RegisterCallback(name string, fn any) {
	r.callbacks[name] = fn
}

func (r *Registry) RegisterCompletion(name string, fn any) {
	r.completions[name] = fn
}

func (r *Registry) RegisterParamType(name string, pt paramtype.ParamType) {
	r.paramTypes[name] = pt
}

// Type resolves a type expression. Names may be prefixed with "*" and "[]",
// e.g. "[]*Color".
func (r *Registry) Type(expr string) (reflect.Type, bool) {
	switch {
	case strings.HasPrefix(expr, "*"):
		t, ok := r.Type(expr[1:])
		if !ok {
			return nil, false
		}
		return reflect.PointerTo(t), true
	case strings.HasPrefix(expr, "[]"):
		t, ok := r.Type(expr[2:])
		if !ok {
			return nil, false
		}
		return reflect.SliceOf(t), true
	}
	if r != nil {
		if t, ok := r.types[expr]; ok {
			return t, true
		}
	}
	t, ok := builtinTypes[expr]
	return t, ok
}

var builtinTypes = map[string]reflect.Type{
	"string":  reflect.TypeOf(""),
	"bool":    reflect.TypeOf(false),
	"int":     reflect.TypeOf(0),
	"int64":   reflect.TypeOf(int64(0)),
	"float64": reflect.TypeOf(float64(0)),
	"Path":    reflect.TypeOf(paramtype.Path("")),
}

func lookup[V any](m map[string]V, name string) (V, bool) {
	v, ok := m[name]
	return v, ok
}

func (r *Registry) resolve(kind, name, field string) (any, error) {
	var (
		v  any
		ok bool
	)
	if r != nil {
		switch kind {
		case "callback":
			v, ok = lookup(r.callbacks, name)
		case "autocompletion":
			v, ok = lookup(r.completions, name)
		case "parser":
			v, ok = lookup(r.parsers, name)
		case "param_type":
			v, ok = lookup(r.paramTypes, name)
		case "default_factory":
			v, ok = lookup(r.factories, name)
		}
	}
	if !ok {
		return nil, &UnresolvedNameError{Kind: kind, Name: name, Field: field}
	}
	return v, nil
}
