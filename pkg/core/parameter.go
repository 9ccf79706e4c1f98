package core

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/replicate/sigcli/pkg/errors"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
	"github.com/replicate/sigcli/pkg/typemap"
	"github.com/replicate/sigcli/pkg/util/console"
)

// FlagNeedsValue is recorded for an option given without a value when it
// should be prompted for.
const FlagNeedsValue = "\x00needs-value"

// Parameter is a fully built command-line argument or option.
type Parameter struct {
	// Name is the parameter identifier, e.g. "flag_name".
	Name string
	Kind param.Kind
	// Opts are the flags that set the option, e.g. "--name", "-n".
	Opts []string
	// SecondaryOpts are the flags that turn a boolean option off.
	SecondaryOpts []string

	Type      paramtype.ParamType
	Resolved  *typemap.Resolved
	Convertor typemap.Convertor

	Required       bool
	Default        any
	HasDefault     bool
	DefaultFactory func() any

	// Multiple is set for repeatable options.
	Multiple bool
	// Nargs is the number of values per occurrence; -1 takes all remaining arguments.
	Nargs  int
	IsFlag bool
	Count  bool

	Envvar           []string
	ShowEnvvar       bool
	AllowFromAutoenv bool
	IsEager          bool
	Hidden           bool
	Help             string
	Metavar          string
	Panel            string
	ShowDefault      bool
	ShowDefaultText  string
	ShowChoices      bool

	// Prompt is the question asked when no value is given; empty for none.
	Prompt             string
	ConfirmationPrompt bool
	HideInput          bool
	PromptRequired     bool

	Callback   CallbackFunc
	Completion CompletionFunc

	Meta param.ParamMeta
	Info param.ParameterInfo
}

// IsOption reports whether p is a named option.
func (p *Parameter) IsOption() bool { return p.Kind == param.KindOption }

// ErrorHint names the parameter in error messages, e.g. "'--name' / '-n'".
func (p *Parameter) ErrorHint() string {
	if !p.IsOption() {
		return "'" + p.MakeMetavar() + "'"
	}
	quoted := make([]string, len(p.Opts))
	for i, o := range p.Opts {
		quoted[i] = "'" + o + "'"
	}
	return strings.Join(quoted, " / ")
}

// MakeMetavar is the placeholder for the parameter's value in usage text.
func (p *Parameter) MakeMetavar() string {
	mv := p.Metavar
	if mv == "" {
		if p.IsOption() {
			mv = p.Type.Name()
		} else {
			mv = strings.ToUpper(p.Name)
		}
	}
	if p.Nargs != 1 {
		mv += "..."
	}
	return mv
}

// Convert runs the convertor and returns a value of the declared Go type.
func (p *Parameter) Convert(v any) (any, error) {
	if p.Convertor != nil {
		converted, err := p.Convertor(v)
		if err != nil {
			return nil, err
		}
		v = converted
	}
	out, err := typemap.Coerce(v, p.Meta.Type)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// RawValue is what the command line supplied for a parameter.
type RawValue struct {
	Values  []string
	Present bool
}

// sourced is a value before type casting: raw strings, or a native value
// taken from a default.
type sourced struct {
	raw    []string
	native any
	isRaw  bool
	source ValueSource
}

// Resolve computes the parameter's value: command line, then environment,
// then the context's default map, then the default, then a prompt. The
// value is type cast, checked, passed through the callback and stored in
// ctx.Params.
func (p *Parameter) Resolve(ctx *Context, raw RawValue) (any, error) {
	v, err := p.consume(ctx, raw)
	if err != nil {
		return nil, err
	}
	// The command line ran out before every slot of a tuple argument was filled.
	if !p.IsOption() && p.Resolved.IsTuple && v.source == SourceCommandLine &&
		len(v.raw) > 0 && len(v.raw) < p.Nargs && !ctx.ResilientParsing {
		return nil, errors.Usage(fmt.Sprintf("Argument %s takes %d values.", p.ErrorHint(), p.Nargs))
	}

	value, err := p.typeCast(v)
	if err != nil {
		if ctx.ResilientParsing {
			console.Debugf("Ignoring %s during completion: %s", p.Name, err)
			value, v.source = nil, SourceNone
		} else {
			return nil, errors.BadParameter(p.ErrorHint(), err.Error())
		}
	}

	if p.Required && p.isMissing(value) && !ctx.ResilientParsing {
		kind := "argument"
		if p.IsOption() {
			kind = "option"
		}
		return nil, errors.MissingParameter(p.ErrorHint(), kind)
	}

	native, err := p.Convert(value)
	if err != nil {
		if !ctx.ResilientParsing {
			return nil, errors.BadParameter(p.ErrorHint(), err.Error())
		}
		native = reflect.Zero(p.Meta.Type).Interface()
	}

	if p.Callback != nil && !ctx.ResilientParsing {
		result, err := p.Callback(ctx, p, native)
		if err != nil {
			return nil, err
		}
		if native, err = p.Convert(result); err != nil {
			return nil, errors.BadParameter(p.ErrorHint(), err.Error())
		}
	}

	ctx.Params[p.Name] = native
	ctx.sources[p.Name] = v.source
	return native, nil
}

func (p *Parameter) isMissing(v any) bool {
	if v == nil {
		return true
	}
	if p.Nargs != 1 || p.Multiple {
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0 {
			return true
		}
	}
	return false
}

func (p *Parameter) consume(ctx *Context, raw RawValue) (sourced, error) {
	needsPrompt := false
	if raw.Present {
		if len(raw.Values) == 1 && raw.Values[0] == FlagNeedsValue {
			needsPrompt = true
		} else {
			return sourced{raw: raw.Values, isRaw: true, source: SourceCommandLine}, nil
		}
	}

	v := sourced{}
	if !needsPrompt {
		if env, ok := p.resolveEnvvar(ctx); ok {
			return sourced{raw: p.splitEnvvar(env), isRaw: true, source: SourceEnvironment}, nil
		}
		if d, ok := ctx.DefaultMap[p.Name]; ok {
			return fromValue(d, SourceDefaultMap), nil
		}
		if d, ok := p.defaultValue(); ok {
			v = fromValue(d, SourceDefault)
		}
	}

	if p.Prompt != "" && !ctx.ResilientParsing && (needsPrompt || p.Required || p.PromptRequired) {
		answer, err := p.prompt(ctx, v)
		if err != nil {
			return sourced{}, err
		}
		return sourced{raw: []string{answer}, isRaw: true, source: SourcePrompt}, nil
	}
	return v, nil
}

// defaultValue returns the default, calling the factory if there is one.
func (p *Parameter) defaultValue() (any, bool) {
	if p.DefaultFactory != nil {
		return p.DefaultFactory(), true
	}
	if !p.HasDefault {
		return nil, false
	}
	return p.Default, true
}

func fromValue(v any, source ValueSource) sourced {
	switch tv := v.(type) {
	case string:
		return sourced{raw: []string{tv}, isRaw: true, source: source}
	case []string:
		return sourced{raw: tv, isRaw: true, source: source}
	case []any:
		strs := make([]string, len(tv))
		for i, item := range tv {
			s, ok := item.(string)
			if !ok {
				return sourced{native: v, source: source}
			}
			strs[i] = s
		}
		return sourced{raw: strs, isRaw: true, source: source}
	}
	return sourced{native: v, source: source}
}

func (p *Parameter) resolveEnvvar(ctx *Context) (string, bool) {
	for _, name := range p.Envvar {
		if v, ok := ctx.lookupEnv(name); ok && v != "" {
			return v, true
		}
	}
	if p.IsOption() && p.AllowFromAutoenv && ctx.AutoEnvvarPrefix != "" {
		name := strings.ToUpper(ctx.AutoEnvvarPrefix + "_" + p.Name)
		if v, ok := ctx.lookupEnv(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// AutoEnvvar is the environment variable read for the option under prefix.
func (p *Parameter) AutoEnvvar(prefix string) string {
	if !p.IsOption() || !p.AllowFromAutoenv || prefix == "" {
		return ""
	}
	return strings.ToUpper(prefix + "_" + p.Name)
}

// splitEnvvar splits environment values for parameters that take several
// values: paths on the path list separator, everything else on whitespace.
func (p *Parameter) splitEnvvar(v string) []string {
	if p.Nargs == 1 && !p.Multiple {
		return []string{v}
	}
	if _, ok := p.Type.(paramtype.PathType); ok {
		var out []string
		for _, part := range strings.Split(v, string(os.PathListSeparator)) {
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return strings.Fields(v)
}

// typeCast converts raw strings with the parameter type. Native values are
// returned as they are.
func (p *Parameter) typeCast(v sourced) (any, error) {
	if !v.isRaw {
		return v.native, nil
	}
	switch {
	case p.Resolved.IsTuple:
		if len(v.raw) == 0 {
			return nil, nil
		}
		tt, ok := p.Type.(paramtype.TupleType)
		if !ok {
			return p.convertEach(v.raw)
		}
		return tt.ConvertSlots(v.raw)
	case p.Multiple || p.Nargs == -1:
		return p.convertEach(v.raw)
	}
	if len(v.raw) == 0 {
		return nil, nil
	}
	return p.Type.Convert(v.raw[len(v.raw)-1])
}

func (p *Parameter) convertEach(raw []string) ([]any, error) {
	out := make([]any, len(raw))
	for i, s := range raw {
		item, err := p.Type.Convert(s)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func (p *Parameter) prompt(ctx *Context, def sourced) (string, error) {
	if p.IsFlag {
		defaultValue := false
		if b, ok := def.native.(bool); ok {
			defaultValue = b
		} else if def.isRaw && len(def.raw) > 0 {
			if b, err := paramtype.Bool.Convert(def.raw[0]); err == nil {
				defaultValue = b.(bool)
			}
		}
		yes, err := console.InteractiveBool{
			Prompt:  p.Prompt,
			Default: defaultValue,
			In:      ctx.input(),
			Out:     ctx.output(),
		}.Read()
		if err != nil {
			return "", promptError(err)
		}
		if yes {
			return "true", nil
		}
		return "false", nil
	}

	question := p.Prompt
	if choice, ok := p.Type.(paramtype.Choice); ok && p.ShowChoices {
		question += " [" + strings.Join(choice.Choices, ", ") + "]"
	}
	shown := displayDefault(def)
	interactive := console.Interactive{
		Prompt:    question,
		Default:   shown,
		Required:  shown == "",
		HideInput: p.HideInput,
		In:        ctx.input(),
		Out:       ctx.output(),
		Validate: func(s string) error {
			_, err := p.typeCast(sourced{raw: []string{s}, isRaw: true})
			return err
		},
	}
	if p.ConfirmationPrompt {
		interactive.ConfirmPrompt = "Repeat for confirmation"
	}
	answer, err := interactive.Read()
	if err != nil {
		return "", promptError(err)
	}
	return answer, nil
}

func promptError(err error) error {
	if err == console.ErrNoInput {
		return errors.Abort()
	}
	return err
}

func displayDefault(v sourced) string {
	if v.isRaw {
		return strings.Join(v.raw, " ")
	}
	if v.native == nil {
		return ""
	}
	return formatValue(v.native)
}
