package param

import (
	"context"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"

	"github.com/replicate/sigcli/pkg/paramtype"
	"github.com/replicate/sigcli/pkg/util/console"
)

// ExtractOptions configures Extract.
type ExtractOptions struct {
	// Registry resolves names used in struct tags.
	Registry *Registry
	// Defaults are ordinary defaults keyed by Go field name. They take
	// precedence over the struct's Defaults() method.
	Defaults map[string]any
	// ContextType is the type of the command context. Fields and leading
	// function parameters of this type receive the live context.
	ContextType reflect.Type
}

type defaulter interface {
	Defaults() map[string]any
}

type documented interface {
	Doc() string
}

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	stdContextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	stringType     = reflect.TypeOf("")
)

// Extract inspects a command function. fn must take, in order, an optional
// context (ExtractOptions.ContextType or context.Context) and an optional
// struct or pointer to struct, and return nothing or an error.
func Extract(fn any, opts ExtractOptions) (*Signature, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, &SignatureError{Msg: fmt.Sprintf("expected a function, got %T", fn)}
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, &SignatureError{Msg: "variadic functions are not supported"}
	}
	if t.NumOut() > 1 || t.NumOut() == 1 && t.Out(0) != errorType {
		return nil, &SignatureError{Msg: "a command may only return an error"}
	}

	sig := &Signature{Func: v, Params: NewOrderedMap[string, ParamMeta]()}
	in := 0
	if t.NumIn() > 0 {
		switch {
		case opts.ContextType != nil && t.In(0) == opts.ContextType:
			sig.Leading = LeadingContext
			in++
		case t.In(0) == stdContextType:
			sig.Leading = LeadingStdContext
			in++
		}
	}
	switch t.NumIn() - in {
	case 0:
		return sig, nil
	case 1:
	default:
		return nil, &SignatureError{Msg: "parameters must be declared as fields of a single struct"}
	}

	st := t.In(in)
	if st.Kind() == reflect.Pointer {
		sig.Pointer = true
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, &SignatureError{Msg: fmt.Sprintf("expected a struct or pointer to struct, got %s", t.In(in))}
	}
	sig.Struct = st

	defaults := map[string]any{}
	sample := reflect.New(st).Interface()
	if d, ok := sample.(defaulter); ok {
		for k, v := range d.Defaults() {
			defaults[k] = v
		}
	}
	for k, v := range opts.Defaults {
		defaults[k] = v
	}
	if d, ok := sample.(documented); ok {
		sig.Doc = d.Doc()
	}

	if err := walkStruct(sig.Params, st, nil, defaults, opts); err != nil {
		return nil, err
	}
	console.Debugf("Extracted %d parameters from %s", sig.Params.Len(), st)
	return sig, nil
}

func walkStruct(params *OrderedMap[string, ParamMeta], st reflect.Type, prefix []int, defaults map[string]any, opts ExtractOptions) error {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		index := append(append([]int{}, prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if _, ok := f.Tag.Lookup(tagOption); !ok {
				if _, ok := f.Tag.Lookup(tagArgument); !ok {
					if err := walkStruct(params, f.Type, index, defaults, opts); err != nil {
						return err
					}
					continue
				}
			}
		}
		if !f.IsExported() {
			continue
		}

		ft, err := parseFieldTags(f)
		if err != nil {
			return err
		}
		if ft.skip {
			continue
		}

		meta := ParamMeta{
			Name:    ft.name,
			Field:   f.Name,
			Index:   index,
			Type:    f.Type,
			Default: Empty,
			Choices: ft.choices,
		}
		if meta.Name == "" {
			meta.Name = strcase.ToSnake(f.Name)
		}
		if _, dup := params.Get(meta.Name); dup {
			return &SignatureError{Msg: fmt.Sprintf("duplicate parameter name %q", meta.Name)}
		}
		if opts.ContextType != nil && f.Type == opts.ContextType {
			meta.IsContext = true
			params.Set(meta.Name, meta)
			continue
		}

		if ft.typeExpr != "" {
			if f.Type.Kind() != reflect.Interface {
				return &TagError{Field: f.Name, Tag: tagType, Msg: "only allowed on fields of interface type"}
			}
			resolved, ok := opts.Registry.Type(ft.typeExpr)
			if !ok {
				return &UnresolvedNameError{Kind: "type", Name: ft.typeExpr, Field: f.Name}
			}
			meta.Type = resolved
		} else if f.Type.Kind() == reflect.Interface && f.Type.NumMethod() == 0 {
			meta.Type = stringType
		}

		for kind, name := range ft.refs {
			v, err := opts.Registry.resolve(kind, name, f.Name)
			if err != nil {
				return err
			}
			for _, m := range ft.markers {
				applyRef(m.Base(), kind, v)
			}
		}
		meta.Metadata = ft.markers

		if d, ok := defaults[f.Name]; ok {
			meta.Default = d
		} else if d, ok := defaults[meta.Name]; ok {
			meta.Default = d
		}
		params.Set(meta.Name, meta)
	}
	return nil
}

func applyRef(i *Info, kind string, v any) {
	switch kind {
	case "callback":
		i.Callback = v
	case "autocompletion":
		i.Autocompletion = v
	case "parser":
		i.Parser = v.(func(string) (any, error))
	case "param_type":
		i.ParamType = v.(paramtype.ParamType)
	case "default_factory":
		i.DefaultFactory = v.(func() any)
	}
}
