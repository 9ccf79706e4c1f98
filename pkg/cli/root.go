package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/errors"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/util/console"
)

// runner builds and runs the cobra tree for one Execute call.
type runner struct {
	app        *App
	std        context.Context
	defaultMap map[string]any
	nodes      map[*cobra.Command]*node
	root       *node
	// failed is the command whose arguments were being processed when an
	// error occurred, used for the usage line.
	failed *cobra.Command
}

// node is a cobra command and the compiled function behind it. Groups
// without a callback have no compiled function.
type node struct {
	cmd      *cobra.Command
	parent   *node
	compiled *core.Command
	params   []*core.Parameter
	flags    map[string]*rawFlag
	app      *App
	panel    string
}

func (n *node) isGroup() bool { return n.app != nil }

// ancestry lists the nodes from the root down to n.
func (n *node) ancestry() []*node {
	var chain []*node
	for x := n; x != nil; x = x.parent {
		chain = append(chain, x)
	}
	slices.Reverse(chain)
	return chain
}

func (r *runner) build() (*cobra.Command, error) {
	a := r.app
	name := a.name
	if name == "" {
		name = filepath.Base(os.Args[0])
	}
	r.nodes = map[*cobra.Command]*node{}

	var root *node
	var err error
	if a.callback == nil && len(a.groups) == 0 && len(a.commands) == 1 {
		e := *a.commands[0]
		e.help = firstNonEmpty(e.help, a.help)
		root, err = r.newCommand(nil, name, &e, a.registry)
	} else {
		root, err = r.newGroup(nil, name, a, a.registry)
	}
	if err != nil {
		return nil, err
	}

	r.root = root
	cmd := root.cmd
	if a.schemaCommand && root.isGroup() {
		cmd.AddCommand(r.newSchemaCommand(cmd))
	}
	cmd.Version = a.version
	cmd.TraverseChildren = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		r.failed = c
		return flagError(err)
	})
	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		n, ok := r.nodes[c]
		if !ok {
			defaultHelp(c, args)
			return
		}
		r.renderHelp(c.OutOrStdout(), n)
	})
	return cmd, nil
}

func (r *runner) newCommand(parent *node, name string, e *entry, registry *param.Registry) (*node, error) {
	compiled, err := core.Compile(e.fn, core.CompileOptions{Registry: registry, Defaults: e.defaults})
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", name, err)
	}
	cmd := &cobra.Command{
		Use:    name,
		Short:  firstNonEmpty(e.help, compiled.Help),
		Long:   compiled.Description,
		Hidden: e.hidden,
		Args:   cobra.ArbitraryArgs,
	}
	n := &node{cmd: cmd, parent: parent, compiled: compiled, panel: e.panel}
	if err := r.addParams(n); err != nil {
		return nil, fmt.Errorf("command %s: %w", name, err)
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		r.failed = c
		return r.invoke(n, args)
	}
	r.nodes[cmd] = n
	console.Debugf("Registered command %s with %d parameters", name, len(n.params))
	return n, nil
}

func (r *runner) newGroup(parent *node, name string, a *App, registry *param.Registry) (*node, error) {
	if a.registry != nil {
		registry = a.registry
	}
	cmd := &cobra.Command{
		Use:    name,
		Short:  a.help,
		Hidden: a.hidden,
	}
	n := &node{cmd: cmd, parent: parent, app: a, panel: a.panel}

	if a.callback != nil {
		compiled, err := core.Compile(a.callback.fn, core.CompileOptions{Registry: registry, Defaults: a.callback.defaults})
		if err != nil {
			return nil, fmt.Errorf("callback of %s: %w", name, err)
		}
		for _, p := range compiled.Params {
			if !p.IsOption() {
				return nil, fmt.Errorf("callback of %s: argument %s: callbacks only take options", name, p.Name)
			}
		}
		n.compiled = compiled
		cmd.Short = firstNonEmpty(a.help, a.callback.help, compiled.Help)
		cmd.Long = compiled.Description
		if err := r.addParams(n); err != nil {
			return nil, fmt.Errorf("callback of %s: %w", name, err)
		}
	}

	cmd.Args = func(c *cobra.Command, args []string) error {
		r.failed = c
		if len(args) > 0 {
			return errors.Usage(fmt.Sprintf("No such command '%s'.", args[0]))
		}
		return nil
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		r.failed = c
		if !a.invokeWithoutCommand || n.compiled == nil {
			return c.Help()
		}
		return r.invoke(n, args)
	}
	r.nodes[cmd] = n

	for _, e := range a.commands {
		childName := e.name
		if childName == "" {
			var err error
			if childName, err = commandName(e.fn); err != nil {
				return nil, err
			}
		}
		child, err := r.newCommand(n, childName, e, registry)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(child.cmd)
	}
	for _, g := range a.groups {
		child, err := r.newGroup(n, g.name, g.app, registry)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(child.cmd)
	}
	return n, nil
}

// invoke resolves and runs every callback from the root down to n, then n.
func (r *runner) invoke(n *node, args []string) error {
	var ctx *core.Context
	for _, x := range n.ancestry() {
		ctx = r.context(ctx, x, false)
		if x.compiled == nil {
			continue
		}
		var positional []string
		if x == n {
			positional = args
		}
		if err := r.resolve(ctx, x, positional); err != nil {
			return err
		}
		if err := x.compiled.Invoke(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) context(parent *core.Context, n *node, resilient bool) *core.Context {
	if parent != nil {
		return parent.Child(n.cmd.Name())
	}
	a := r.app
	ctx := core.NewContext(r.std, n.cmd.Name())
	ctx.DefaultMap = r.defaultMap
	ctx.AutoEnvvarPrefix = a.autoEnvvarPrefix
	ctx.Obj = a.obj
	ctx.ResilientParsing = resilient
	ctx.In, ctx.Out, ctx.Err = a.input(), a.output(), a.errOutput()
	return ctx
}

// resolve computes every parameter of n into ctx.Params, eager parameters
// first.
func (r *runner) resolve(ctx *core.Context, n *node, args []string) error {
	values, extra, err := n.unpack(args)
	if err != nil {
		return err
	}
	if len(extra) > 0 && !ctx.ResilientParsing {
		noun := "argument"
		if len(extra) > 1 {
			noun = "arguments"
		}
		return errors.Usage(fmt.Sprintf("Got unexpected extra %s (%s)", noun, strings.Join(extra, " ")))
	}

	for _, p := range processingOrder(n.params) {
		raw := values[p.Name]
		if p.IsOption() {
			raw = n.flags[p.Name].raw()
		}
		if _, err := p.Resolve(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

func processingOrder(params []*core.Parameter) []*core.Parameter {
	out := make([]*core.Parameter, 0, len(params))
	for _, p := range params {
		if p.IsEager {
			out = append(out, p)
		}
	}
	for _, p := range params {
		if !p.IsEager {
			out = append(out, p)
		}
	}
	return out
}

// report turns the result of running the tree into a Result, printing usage
// errors and aborts.
func (r *runner) report(err error) Result {
	if err == nil {
		return Result{}
	}
	// Group options are parsed while cobra looks up the subcommand, without
	// going through the flag error func.
	if errors.Code(err) == "" {
		if reworded := rewordFlagError(err); reworded != nil {
			err = reworded
		}
	}
	w := r.app.errOutput()
	code := errors.ExitCode(err)
	switch {
	case errors.Code(err) == errors.CodeExit:
		if code == 0 {
			return Result{}
		}
	case errors.IsAbort(err):
		fmt.Fprintln(w, "Aborted!")
	case errors.IsUsage(err):
		n, ok := r.nodes[r.failed]
		if !ok {
			n = r.root
		}
		if n != nil {
			fmt.Fprintln(w, "Usage: "+usageLine(n))
			fmt.Fprintf(w, "Try '%s --help' for help.\n", n.cmd.CommandPath())
		}
		fmt.Fprintf(w, "\nError: %s\n", err)
	}
	return Result{ExitCode: code, Err: err}
}

// flagError rewords pflag's parse errors.
func flagError(err error) error {
	if reworded := rewordFlagError(err); reworded != nil {
		return reworded
	}
	return errors.Usage(err.Error())
}

// rewordFlagError returns nil if err is not one of pflag's parse errors.
func rewordFlagError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		return errors.Usage("No such option: " + strings.TrimPrefix(msg, "unknown flag: "))
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		rest := strings.TrimPrefix(msg, "unknown shorthand flag: ")
		if len(rest) >= 3 && rest[0] == '\'' {
			return errors.Usage("No such option: -" + rest[1:2])
		}
		return errors.Usage("No such option: " + rest)
	case strings.HasPrefix(msg, "flag needs an argument: "):
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		if i := strings.Index(flag, " in -"); i >= 0 && strings.HasPrefix(flag, "'") {
			flag = "-" + flag[1:2]
		}
		return errors.Usage(fmt.Sprintf("Option '%s' requires an argument.", flag))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
