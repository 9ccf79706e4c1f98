// Package schema exports command parameters as an OpenAPI document: one POST
// operation per command whose request body lists its parameters.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/paramtype"
)

// Command is one command to export.
type Command struct {
	// Path is the full command name, e.g. "greet hello".
	Path        string
	Summary     string
	Description string
	Params      []*core.Parameter
}

// Generate builds and validates the OpenAPI document for cmds.
func Generate(ctx context.Context, title, version string, cmds []Command) (*openapi3.T, error) {
	if version == "" {
		version = "0.1.0"
	}
	doc := &openapi3.T{
		OpenAPI:    "3.0.2",
		Info:       &openapi3.Info{Title: title, Version: version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}

	for _, cmd := range cmds {
		words := strings.Fields(cmd.Path)
		name := strcase.ToCamel(strings.Join(words, "_")) + "Input"
		input, err := InputSchema(cmd.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Path, err)
		}
		input.Title = name
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", input)

		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+name, input))
		op := &openapi3.Operation{
			Summary:     cmd.Summary,
			Description: cmd.Description,
			OperationID: strcase.ToSnake(strings.Join(words, "_")),
			RequestBody: &openapi3.RequestBodyRef{Value: body},
			Responses: openapi3.NewResponses(openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Successful Response"),
			})),
		}
		doc.Paths.Set("/"+strings.Join(words, "/"), &openapi3.PathItem{Post: op})
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// InputSchema is the object schema of a command's parameters. Hidden
// parameters are left out.
func InputSchema(params []*core.Parameter) (*openapi3.Schema, error) {
	obj := openapi3.NewObjectSchema()
	order := 0
	for _, p := range params {
		if p.Hidden {
			continue
		}
		prop, err := parameterSchema(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		prop.Extensions = map[string]any{
			"x-order": order,
			"x-kind":  strings.ToLower(p.Kind.String()),
		}
		if p.IsOption() {
			prop.Extensions["x-flags"] = append(slices.Clone(p.Opts), p.SecondaryOpts...)
		}
		if len(p.Envvar) > 0 {
			prop.Extensions["x-envvar"] = p.Envvar
		}
		order++
		obj.WithProperty(p.Name, prop)
		if p.Required {
			obj.Required = append(obj.Required, p.Name)
		}
	}
	return obj, nil
}

func parameterSchema(p *core.Parameter) (*openapi3.Schema, error) {
	s := typeSchema(p.Type)
	switch {
	case p.Count:
		s = openapi3.NewIntegerSchema().WithMin(0)
	case p.Resolved.IsList:
		s = openapi3.NewArraySchema().WithItems(s)
	}
	s.Title = TitleCase(p.Name)
	s.Description = p.Help
	if p.Resolved.Nullable {
		s.Nullable = true
	}

	if p.HasDefault && p.DefaultFactory == nil && p.Default != nil {
		raw := defaultValue(p)
		if text, ok := raw.(string); ok && !s.Type.Is(openapi3.TypeString) && !s.Type.Is(openapi3.TypeArray) {
			if v, err := p.Type.Convert(text); err == nil {
				raw = plain(v)
			}
		}
		def, err := jsonValue(raw)
		if err != nil {
			return nil, err
		}
		if len(s.Enum) == 0 || slices.Contains(s.Enum, def) {
			s.Default = def
		}
	}
	return s, nil
}

// typeSchema maps a parameter type to its JSON schema.
func typeSchema(t paramtype.ParamType) *openapi3.Schema {
	switch tt := t.(type) {
	case paramtype.IntRange:
		s := openapi3.NewIntegerSchema()
		if tt.Min != nil {
			s.WithMin(float64(*tt.Min))
		}
		if tt.Max != nil {
			s.WithMax(float64(*tt.Max))
		}
		return s
	case paramtype.IntType:
		return openapi3.NewIntegerSchema()
	case paramtype.FloatRange:
		s := openapi3.NewFloat64Schema()
		if tt.Min != nil {
			s.WithMin(*tt.Min)
		}
		if tt.Max != nil {
			s.WithMax(*tt.Max)
		}
		return s
	case paramtype.FloatType:
		return openapi3.NewFloat64Schema()
	case paramtype.BoolType:
		return openapi3.NewBoolSchema()
	case paramtype.Choice:
		values := make([]any, len(tt.Choices))
		for i, c := range tt.Choices {
			values[i] = c
		}
		s := openapi3.NewStringSchema().WithEnum(values...)
		s.Description = "An enumeration."
		return s
	case paramtype.UUIDType:
		return openapi3.NewStringSchema().WithFormat("uuid")
	case paramtype.DurationType:
		return openapi3.NewStringSchema().WithFormat("duration")
	case paramtype.DateTime:
		return openapi3.NewStringSchema().WithFormat("date-time")
	case paramtype.DecimalType:
		return openapi3.NewStringSchema().WithFormat("decimal")
	case paramtype.PathType:
		return openapi3.NewStringSchema().WithFormat("path")
	case paramtype.FileType:
		return openapi3.NewStringSchema().WithFormat("binary")
	case paramtype.TupleType:
		s := openapi3.NewArraySchema().
			WithMinItems(int64(tt.Arity())).
			WithMaxItems(int64(tt.Arity()))
		if len(tt.Types) > 0 {
			first := typeSchema(tt.Types[0])
			uniform := true
			for _, slot := range tt.Types[1:] {
				if reflect.TypeOf(slot) != reflect.TypeOf(tt.Types[0]) {
					uniform = false
				}
			}
			if uniform {
				s.WithItems(first)
			}
		}
		return s
	}
	return openapi3.NewStringSchema()
}

// defaultValue is the default as it would be typed on the command line:
// enum members by value or name, times in RFC 3339, everything else as is.
func defaultValue(p *core.Parameter) any {
	v := p.Default
	if e, ok := v.(paramtype.Enum); ok {
		byName := p.Info != nil && p.Info.Base().EnumByName
		for _, m := range e.EnumMembers() {
			if reflect.DeepEqual(m.Value, v) {
				if byName {
					return m.Name
				}
				return m.ValueString()
			}
		}
	}
	return plain(v)
}

func plain(v any) any {
	switch tv := v.(type) {
	case time.Time:
		return tv.Format(time.RFC3339)
	case paramtype.TupleValue:
		return plain(tv.Values())
	case fmt.Stringer:
		return tv.String()
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return tv
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return plain(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}

// jsonValue round-trips v through JSON so that it holds the types a decoded
// document would.
func jsonValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TitleCase turns "flag_name" into "Flag Name".
func TitleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
