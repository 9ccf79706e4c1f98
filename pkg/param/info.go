package param

import (
	"github.com/replicate/sigcli/pkg/paramtype"
)

// ParameterInfo is the declared command-line behavior of a parameter. It is
// implemented by *ArgumentInfo and *OptionInfo.
type ParameterInfo interface {
	Kind() Kind
	Base() *Info
	clone() ParameterInfo
}

// Info holds the settings shared by arguments and options.
type Info struct {
	// Default is the declared default, Required or Empty.
	Default        any
	DefaultFactory func() any

	// ParamType replaces type classification entirely.
	ParamType paramtype.ParamType
	// Parser converts raw values itself.
	Parser func(string) (any, error)
	// ParserName labels the parser's type in help output.
	ParserName string

	// Callback validates or transforms the converted value. See core.WrapCallback.
	Callback any
	// Autocompletion suggests values. See core.WrapCompletion.
	Autocompletion any

	IsEager bool
	Envvar  []string

	ShowEnvvar      bool
	ShowDefault     bool
	ShowDefaultText string
	Hidden          bool
	Panel           string
	Metavar         string
	Help            string

	// Min and Max hold numbers (or their string form from tags).
	Min   any
	Max   any
	Clamp bool

	Formats []string

	Mode     string
	Encoding string
	Errors   string
	Lazy     *bool
	Atomic   bool

	Exists      bool
	FileOkay    bool
	DirOkay     bool
	Writable    bool
	Readable    bool
	ResolvePath bool
	AllowDash   bool
	ExpandUser  bool
	pathSet     bool

	CaseSensitive bool
	EnumByName    bool
}

func newInfo(def any) Info {
	return Info{
		Default:       def,
		ShowEnvvar:    true,
		ShowDefault:   true,
		FileOkay:      true,
		DirOkay:       true,
		Readable:      true,
		CaseSensitive: true,
	}
}

func (i *Info) Base() *Info { return i }

// HasPathOptions reports whether any path constraint was set explicitly.
func (i *Info) HasPathOptions() bool { return i.pathSet }

// HasDefaultFactory reports whether the default is computed at invocation time.
func (i *Info) HasDefaultFactory() bool { return i.DefaultFactory != nil }

// ArgumentInfo declares a positional argument.
type ArgumentInfo struct {
	Info
}

func (*ArgumentInfo) Kind() Kind { return KindArgument }

func (a *ArgumentInfo) clone() ParameterInfo {
	c := *a
	return &c
}

// OptionInfo declares a named option.
type OptionInfo struct {
	Info

	// ParamDecls are flag declarations such as "--name", "-n" or "--force/--no-force".
	ParamDecls []string

	Prompt             bool
	PromptText         string
	ConfirmationPrompt bool
	PromptRequired     bool
	HideInput          bool
	Count              bool
	ShowChoices        bool
	AllowFromAutoenv   bool
}

func (*OptionInfo) Kind() Kind { return KindOption }

func (o *OptionInfo) clone() ParameterInfo {
	c := *o
	return &c
}

func newOptionInfo(def any) *OptionInfo {
	return &OptionInfo{
		Info:             newInfo(def),
		PromptRequired:   true,
		ShowChoices:      true,
		AllowFromAutoenv: true,
	}
}

func newArgumentInfo(def any) *ArgumentInfo {
	return &ArgumentInfo{Info: newInfo(def)}
}

// Setting configures a marker.
type Setting func(ParameterInfo)

// Option declares a named option. Pass Required as def for a required option.
func Option(def any, settings ...Setting) *OptionInfo {
	o := newOptionInfo(def)
	for _, s := range settings {
		s(o)
	}
	return o
}

// Argument declares a positional argument. Pass Required as def for a
// required argument.
func Argument(def any, settings ...Setting) *ArgumentInfo {
	a := newArgumentInfo(def)
	for _, s := range settings {
		s(a)
	}
	return a
}

func onInfo(fn func(*Info)) Setting {
	return func(p ParameterInfo) { fn(p.Base()) }
}

func onOption(fn func(*OptionInfo)) Setting {
	return func(p ParameterInfo) {
		if o, ok := p.(*OptionInfo); ok {
			fn(o)
		}
	}
}

func Help(text string) Setting { return onInfo(func(i *Info) { i.Help = text }) }

// Flags sets the option's declarations, e.g. Flags("--name", "-n").
func Flags(decls ...string) Setting {
	return onOption(func(o *OptionInfo) { o.ParamDecls = decls })
}

func Envvar(names ...string) Setting { return onInfo(func(i *Info) { i.Envvar = names }) }
func ShowEnvvar(show bool) Setting { return onInfo(func(i *Info) { i.ShowEnvvar = show }) }
func Min(v any) Setting { return onInfo(func(i *Info) { i.Min = v }) }
func Max(v any) Setting { return onInfo(func(i *Info) { i.Max = v }) }
func Clamp() Setting { return onInfo(func(i *Info) { i.Clamp = true }) }
func IsEager() Setting { return onInfo(func(i *Info) { i.IsEager = true }) }
func Hidden() Setting { return onInfo(func(i *Info) { i.Hidden = true }) }
func Panel(name string) Setting { return onInfo(func(i *Info) { i.Panel = name }) }
func Metavar(name string) Setting { return onInfo(func(i *Info) { i.Metavar = name }) }

// Formats sets the accepted time layouts, tried in order.
func Formats(layouts ...string) Setting { return onInfo(func(i *Info) { i.Formats = layouts }) }

// ShowDefault hides the default in help when show is false.
func ShowDefault(show bool) Setting { return onInfo(func(i *Info) { i.ShowDefault = show }) }

// ShowDefaultText replaces the displayed default.
func ShowDefaultText(text string) Setting {
	return onInfo(func(i *Info) { i.ShowDefault = true; i.ShowDefaultText = text })
}

func Callback(fn any) Setting { return onInfo(func(i *Info) { i.Callback = fn }) }
func Autocompletion(fn any) Setting { return onInfo(func(i *Info) { i.Autocompletion = fn }) }

func WithParamType(pt paramtype.ParamType) Setting {
	return onInfo(func(i *Info) { i.ParamType = pt })
}

// Parser sets a function that converts raw values to T.
func Parser[T any](fn func(string) (T, error)) Setting {
	return onInfo(func(i *Info) { i.Parser = wrapParser(fn) })
}

// DefaultFactory computes the default each time the parameter is omitted.
func DefaultFactory[T any](fn func() T) Setting {
	return onInfo(func(i *Info) { i.DefaultFactory = wrapFactory(fn) })
}

func wrapParser[T any](fn func(string) (T, error)) func(string) (any, error) {
	return func(s string) (any, error) {
		v, err := fn(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func wrapFactory[T any](fn func() T) func() any {
	return func() any { return fn() }
}

func Mode(mode string) Setting { return onInfo(func(i *Info) { i.Mode = mode }) }
func Encoding(enc string) Setting { return onInfo(func(i *Info) { i.Encoding = enc }) }
func Errors(policy string) Setting { return onInfo(func(i *Info) { i.Errors = policy }) }
func Lazy(lazy bool) Setting { return onInfo(func(i *Info) { i.Lazy = &lazy }) }
func Atomic() Setting { return onInfo(func(i *Info) { i.Atomic = true }) }

func onPath(fn func(*Info)) Setting {
	return onInfo(func(i *Info) { fn(i); i.pathSet = true })
}

func Exists() Setting { return onPath(func(i *Info) { i.Exists = true }) }
func FileOkay(ok bool) Setting { return onPath(func(i *Info) { i.FileOkay = ok }) }
func DirOkay(ok bool) Setting { return onPath(func(i *Info) { i.DirOkay = ok }) }
func Writable() Setting { return onPath(func(i *Info) { i.Writable = true }) }
func Readable(ok bool) Setting { return onPath(func(i *Info) { i.Readable = ok }) }
func ResolvePath() Setting { return onPath(func(i *Info) { i.ResolvePath = true }) }
func AllowDash() Setting { return onPath(func(i *Info) { i.AllowDash = true }) }
func ExpandUser() Setting { return onPath(func(i *Info) { i.ExpandUser = true }) }
func CaseSensitive(ok bool) Setting { return onInfo(func(i *Info) { i.CaseSensitive = ok }) }
func EnumByName() Setting { return onInfo(func(i *Info) { i.EnumByName = true }) }

// Prompt asks for the value when it was not given. The question is derived
// from the parameter name.
func Prompt() Setting { return onOption(func(o *OptionInfo) { o.Prompt = true }) }

// PromptText asks for the value with the given question.
func PromptText(text string) Setting {
	return onOption(func(o *OptionInfo) { o.Prompt = true; o.PromptText = text })
}

func ConfirmationPrompt() Setting { return onOption(func(o *OptionInfo) { o.ConfirmationPrompt = true }) }
func HideInput() Setting { return onOption(func(o *OptionInfo) { o.HideInput = true }) }

// PromptRequired false only prompts when the option is given without a value.
func PromptRequired(required bool) Setting {
	return onOption(func(o *OptionInfo) { o.PromptRequired = required })
}

// Count makes an integer option count its occurrences.
func Count() Setting { return onOption(func(o *OptionInfo) { o.Count = true }) }
func ShowChoices(show bool) Setting { return onOption(func(o *OptionInfo) { o.ShowChoices = show }) }
func AllowFromAutoenv(ok bool) Setting { return onOption(func(o *OptionInfo) { o.AllowFromAutoenv = ok }) }
