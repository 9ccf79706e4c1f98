package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/paramtype"
	"github.com/replicate/sigcli/pkg/util/console"
)

// registerCompletions wires n's parameters to cobra's __complete command.
func (r *runner) registerCompletions(n *node) error {
	for _, p := range n.params {
		if !p.IsOption() || p.IsFlag || p.Count {
			continue
		}
		err := n.cmd.RegisterFlagCompletionFunc(flagName(p), func(c *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return r.complete(n, p, args, toComplete)
		})
		if err != nil {
			return fmt.Errorf("Failed to register completion for %s: %w", p.Name, err)
		}
	}
	if n.isGroup() {
		return nil
	}
	n.cmd.ValidArgsFunction = func(c *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p := n.argumentAt(len(args))
		if p == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return r.complete(n, p, args, toComplete)
	}
	return nil
}

// flagName is the pflag name of an option: its first long flag, or the
// dashed parameter name if it only has a short one.
func flagName(p *core.Parameter) string {
	names, err := splitOpts(p.Opts)
	if err != nil || len(names.long) == 0 {
		return strings.ReplaceAll(p.Name, "_", "-")
	}
	return names.long[0]
}

// argumentAt returns the argument that receives the positional value at
// index i, or nil if there is none.
func (n *node) argumentAt(i int) *core.Parameter {
	seen := 0
	for _, p := range n.params {
		if p.IsOption() {
			continue
		}
		if p.Nargs < 0 {
			return p
		}
		seen += p.Nargs
		if i < seen {
			return p
		}
	}
	return nil
}

// complete suggests values for p. The parameters already given are resolved
// leniently first so that completion functions can read them from the context.
func (r *runner) complete(n *node, p *core.Parameter, args []string, incomplete string) ([]string, cobra.ShellCompDirective) {
	ctx := r.completionContext(n, args)

	if p.Completion != nil {
		var out []string
		for c := range p.Completion(ctx, p, args, incomplete) {
			out = append(out, formatCompletion(c))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	switch t := p.Type.(type) {
	case paramtype.Completer:
		var out []string
		for _, c := range t.Complete(incomplete) {
			out = append(out, formatCompletion(c))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	case paramtype.PathType:
		if t.DirectoriesOnly() {
			return nil, cobra.ShellCompDirectiveFilterDirs
		}
		return nil, cobra.ShellCompDirectiveDefault
	case paramtype.FileType:
		return nil, cobra.ShellCompDirectiveDefault
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func (r *runner) completionContext(n *node, args []string) *core.Context {
	var ctx *core.Context
	for _, x := range n.ancestry() {
		ctx = r.context(ctx, x, true)
		ctx.Args = args
		if x.compiled == nil {
			continue
		}
		var positional []string
		if x == n {
			positional = args
		}
		if err := r.resolve(ctx, x, positional); err != nil {
			console.Debugf("Ignoring %s while completing: %s", x.cmd.Name(), err)
		}
	}
	return ctx
}

func formatCompletion(c paramtype.Completion) string {
	if c.Help == "" {
		return c.Value
	}
	return c.Value + "\t" + c.Help
}
