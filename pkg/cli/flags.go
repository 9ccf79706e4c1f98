package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/replicate/sigcli/pkg/core"
)

const (
	// countIncrement is recorded for every occurrence of a counting option.
	countIncrement = "+1"
	// tupleSeparator joins the values of a multi-value option into one argv
	// token so pflag sees a single value.
	tupleSeparator = "\x1f"
)

// rawFlag is a pflag.Value that records the strings given on the command
// line. Conversion happens later, in core.Parameter.Resolve.
type rawFlag struct {
	values  []string
	present bool
	isCount bool
	count   int
	arity   int
}

func (f *rawFlag) String() string { return strings.Join(f.values, " ") }

func (f *rawFlag) Type() string { return "string" }

func (f *rawFlag) Set(s string) error {
	f.present = true
	switch {
	case f.isCount:
		if s == countIncrement {
			f.count++
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("'%s' is not a valid integer", s)
		}
		f.count = n
	case f.arity > 1 && s != core.FlagNeedsValue:
		f.values = strings.Split(s, tupleSeparator)
	default:
		f.values = append(f.values, s)
	}
	return nil
}

func (f *rawFlag) raw() core.RawValue {
	if f == nil || !f.present {
		return core.RawValue{}
	}
	if f.isCount {
		return core.RawValue{Values: []string{strconv.Itoa(f.count)}, Present: true}
	}
	return core.RawValue{Values: f.values, Present: true}
}

// addParams registers n's options as flags and records its parameters.
func (r *runner) addParams(n *node) error {
	n.params = n.compiled.Params
	n.flags = map[string]*rawFlag{}
	fs := n.cmd.Flags()
	variadic := 0
	for _, p := range n.params {
		if !p.IsOption() {
			if p.Nargs < 0 {
				variadic++
			}
			continue
		}
		v := &rawFlag{isCount: p.Count}
		if p.Resolved.IsTuple {
			v.arity = p.Nargs
		}
		if err := registerFlag(fs, p, v); err != nil {
			return err
		}
		n.flags[p.Name] = v
	}
	if variadic > 1 {
		return fmt.Errorf("only one argument can take an unlimited number of values")
	}
	return r.registerCompletions(n)
}

type flagNames struct {
	long  []string
	short []string
}

func splitOpts(opts []string) (flagNames, error) {
	var names flagNames
	for _, o := range opts {
		switch {
		case strings.HasPrefix(o, "--") && len(o) > 2:
			names.long = append(names.long, o[2:])
		case strings.HasPrefix(o, "-") && len(o) == 2:
			names.short = append(names.short, o[1:])
		default:
			return names, fmt.Errorf("option %q: short options must be a single character", o)
		}
	}
	return names, nil
}

func registerFlag(fs *pflag.FlagSet, p *core.Parameter, v *rawFlag) error {
	primary, err := splitOpts(p.Opts)
	if err != nil {
		return err
	}
	secondary, err := splitOpts(p.SecondaryOpts)
	if err != nil {
		return err
	}
	if len(primary.short) > 1 || len(secondary.short) > 1 {
		return fmt.Errorf("option %s: only one short flag is supported", p.Name)
	}
	if len(secondary.short) > 0 && len(secondary.long) == 0 {
		return fmt.Errorf("option %s: a short secondary flag needs a long one", p.Name)
	}

	noOpt := ""
	switch {
	case p.IsFlag:
		noOpt = "true"
	case p.Count:
		noOpt = countIncrement
	}

	name := flagName(p)
	short := ""
	if len(primary.short) > 0 {
		short = primary.short[0]
	}
	if err := add(fs, v, name, short, p.Help, noOpt, p.Hidden); err != nil {
		return err
	}
	for i := 1; i < len(primary.long); i++ {
		if err := add(fs, v, primary.long[i], "", "", noOpt, true); err != nil {
			return err
		}
	}

	for i, long := range secondary.long {
		short := ""
		if i == 0 && len(secondary.short) > 0 {
			short = secondary.short[0]
		}
		if err := add(fs, v, long, short, "", "false", true); err != nil {
			return err
		}
	}
	return nil
}

func add(fs *pflag.FlagSet, v *rawFlag, name, short, usage, noOpt string, hidden bool) error {
	if fs.Lookup(name) != nil {
		return fmt.Errorf("option --%s is declared twice", name)
	}
	if short != "" && fs.ShorthandLookup(short) != nil {
		return fmt.Errorf("option -%s is declared twice", short)
	}
	f := fs.VarPF(v, name, short, usage)
	f.NoOptDefVal = noOpt
	f.Hidden = hidden
	return nil
}

// expandArgs rewrites args for the command they select: the values following
// a multi-value option are joined into one token, and a prompting option
// given without a value is marked so that Resolve prompts for it.
func (r *runner) expandArgs(root *cobra.Command, args []string) []string {
	if len(args) > 0 && strings.HasPrefix(args[0], cobra.ShellCompRequestCmd) {
		return args
	}
	target, _, err := root.Find(args)
	if err != nil {
		return args
	}
	arity := map[string]int{}
	prompts := map[string]bool{}
	for n := r.nodes[target]; n != nil; n = n.parent {
		for _, p := range n.params {
			if !p.IsOption() {
				continue
			}
			for _, o := range p.Opts {
				if p.Resolved.IsTuple && p.Nargs > 1 {
					arity[o] = p.Nargs
				}
				if p.Prompt != "" && !p.IsFlag && !p.Count {
					prompts[o] = true
				}
			}
		}
	}
	if len(arity) == 0 && len(prompts) == 0 {
		return args
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if n, ok := arity[arg]; ok {
			end := min(i+1+n, len(args))
			out = append(out, arg)
			if end > i+1 {
				out = append(out, strings.Join(args[i+1:end], tupleSeparator))
			}
			i = end - 1
			continue
		}
		if prompts[arg] && (i+1 == len(args) || looksLikeOption(args[i+1])) {
			out = append(out, arg+"="+core.FlagNeedsValue)
			continue
		}
		out = append(out, arg)
	}
	return out
}

func looksLikeOption(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// unpack distributes positional arguments over n's arguments by their
// number of values. One argument may take an unlimited number of values;
// the arguments after it are filled from the end.
func (n *node) unpack(args []string) (map[string]core.RawValue, []string, error) {
	var params []*core.Parameter
	for _, p := range n.params {
		if !p.IsOption() {
			params = append(params, p)
		}
	}
	values := make(map[string]core.RawValue, len(params))

	rest := args
	front, back := 0, len(params)
	// Fill from the front up to the variadic argument.
	for ; front < back; front++ {
		p := params[front]
		if p.Nargs < 0 {
			break
		}
		take := min(p.Nargs, len(rest))
		if take > 0 {
			values[p.Name] = core.RawValue{Values: rest[:take], Present: true}
		}
		rest = rest[take:]
	}
	if front == back {
		return values, rest, nil
	}
	// Fill from the back down to the variadic argument.
	for back--; back > front; back-- {
		p := params[back]
		if p.Nargs < 0 {
			return nil, nil, fmt.Errorf("only one argument can take an unlimited number of values")
		}
		take := min(p.Nargs, len(rest))
		if take > 0 {
			values[p.Name] = core.RawValue{Values: rest[len(rest)-take:], Present: true}
		}
		rest = rest[:len(rest)-take]
	}
	if len(rest) > 0 {
		values[params[front].Name] = core.RawValue{Values: rest, Present: true}
	}
	return values, nil, nil
}
