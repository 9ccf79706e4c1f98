package core

import (
	"reflect"
	"strings"

	"github.com/replicate/sigcli/pkg/docstring"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/typemap"
	"github.com/replicate/sigcli/pkg/util/console"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// DocHelp returns help for a parameter that has none of its own.
	DocHelp func(name string) string
}

// Build reconciles meta's declarations, classifies its type and assembles the
// parameter. Every configuration error is reported here.
func Build(meta param.ParamMeta, opts BuildOptions) (*Parameter, error) {
	info, err := param.Reconcile(meta)
	if err != nil {
		return nil, err
	}
	res, err := typemap.Classify(meta, info)
	if err != nil {
		return nil, err
	}
	base := info.Base()

	p := &Parameter{
		Name:            meta.Name,
		Kind:            info.Kind(),
		Type:            res.Type,
		Resolved:        res,
		Convertor:       res.Convertor,
		DefaultFactory:  base.DefaultFactory,
		Nargs:           1,
		Envvar:          base.Envvar,
		ShowEnvvar:      base.ShowEnvvar,
		IsEager:         base.IsEager,
		Hidden:          base.Hidden,
		Help:            base.Help,
		Metavar:         base.Metavar,
		Panel:           base.Panel,
		ShowDefault:     base.ShowDefault,
		ShowDefaultText: base.ShowDefaultText,
		Meta:            meta,
		Info:            info,
	}
	if base.Default == param.Required {
		p.Required = base.DefaultFactory == nil
	} else {
		p.Default, p.HasDefault = base.Default, true
	}
	if p.Help == "" && opts.DocHelp != nil {
		p.Help = opts.DocHelp(meta.Name)
	}

	if opt, ok := info.(*param.OptionInfo); ok {
		buildOption(p, opt, res)
	} else {
		switch {
		case res.IsList:
			p.Nargs = -1
		case res.IsTuple:
			p.Nargs = res.Arity
		}
	}

	if base.Callback != nil {
		if p.Callback, err = WrapCallback(base.Callback); err != nil {
			return nil, err
		}
	}
	if base.Autocompletion != nil {
		if p.Completion, err = WrapCompletion(base.Autocompletion); err != nil {
			return nil, err
		}
	}
	console.Debugf("Built %s %s", p.Kind, p.Name)
	return p, nil
}

func buildOption(p *Parameter, opt *param.OptionInfo, res *typemap.Resolved) {
	p.ShowChoices = opt.ShowChoices
	p.AllowFromAutoenv = opt.AllowFromAutoenv
	p.PromptRequired = opt.PromptRequired
	p.ConfirmationPrompt = opt.ConfirmationPrompt
	p.HideInput = opt.HideInput
	p.Count = opt.Count
	p.IsFlag = res.IsBool && !opt.Count
	p.Multiple = res.IsList
	if res.IsTuple {
		p.Nargs = res.Arity
	}

	decls := opt.ParamDecls
	if len(decls) == 0 {
		name := strings.ReplaceAll(p.Name, "_", "-")
		if p.IsFlag {
			decls = []string{"--" + name + "/--no-" + name}
		} else {
			decls = []string{"--" + name}
		}
	}
	for _, decl := range decls {
		if !strings.HasPrefix(decl, "-") {
			continue
		}
		if first, second, ok := strings.Cut(decl, "/"); ok && p.IsFlag {
			if first = strings.TrimSpace(first); first != "" {
				p.Opts = append(p.Opts, first)
			}
			if second = strings.TrimSpace(second); second != "" {
				p.SecondaryOpts = append(p.SecondaryOpts, second)
			}
			continue
		}
		p.Opts = append(p.Opts, decl)
	}

	if p.IsFlag && !p.HasDefault && !p.Required {
		p.Default, p.HasDefault = false, true
	}
	if p.Count {
		if !p.HasDefault || p.Default == nil {
			p.Default, p.HasDefault, p.Required = 0, true, false
		}
	}

	if opt.Prompt {
		p.Prompt = opt.PromptText
		if p.Prompt == "" {
			words := strings.ReplaceAll(p.Name, "_", " ")
			p.Prompt = strings.ToUpper(words[:1]) + words[1:]
		}
	}
}

// Command is a compiled command function.
type Command struct {
	Signature *param.Signature
	Params    []*Parameter
	// Help is the summary of the parameter struct's documentation.
	Help        string
	Description string
}

// CompileOptions configures Compile.
type CompileOptions struct {
	Registry *param.Registry
	// Defaults override the parameter struct's Defaults(), keyed by field name.
	Defaults map[string]any
}

// Compile extracts and builds every parameter of fn.
func Compile(fn any, opts CompileOptions) (*Command, error) {
	sig, err := param.Extract(fn, param.ExtractOptions{
		Registry:    opts.Registry,
		Defaults:    opts.Defaults,
		ContextType: contextType,
	})
	if err != nil {
		return nil, err
	}
	doc := docstring.Parse(sig.Doc)
	cmd := &Command{Signature: sig, Help: doc.Summary, Description: doc.Description}
	buildOpts := BuildOptions{DocHelp: doc.Help}
	for _, meta := range sig.Params.Values() {
		if meta.IsContext {
			continue
		}
		p, err := Build(meta, buildOpts)
		if err != nil {
			return nil, err
		}
		cmd.Params = append(cmd.Params, p)
	}
	return cmd, nil
}

// Invoke calls the command function with the resolved values in ctx.Params.
func (c *Command) Invoke(ctx *Context) error {
	sig := c.Signature
	var args []reflect.Value
	switch sig.Leading {
	case param.LeadingContext:
		args = append(args, reflect.ValueOf(ctx))
	case param.LeadingStdContext:
		args = append(args, reflect.ValueOf(ctx.Context()))
	}
	if sig.Struct != nil {
		sv := reflect.New(sig.Struct)
		for _, meta := range sig.Params.Values() {
			field := sv.Elem().FieldByIndex(meta.Index)
			if meta.IsContext {
				field.Set(reflect.ValueOf(ctx))
				continue
			}
			v, ok := ctx.Params[meta.Name]
			if !ok || v == nil {
				continue
			}
			field.Set(reflect.ValueOf(v))
		}
		if sig.Pointer {
			args = append(args, sv)
		} else {
			args = append(args, sv.Elem())
		}
	}
	out := sig.Func.Call(args)
	if len(out) == 1 {
		if err, _ := out[0].Interface().(error); err != nil {
			return err
		}
	}
	return nil
}
