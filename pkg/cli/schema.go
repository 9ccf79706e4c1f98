package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/replicate/sigcli/pkg/schema"
)

// WithSchemaCommand adds a hidden "schema" command that prints the OpenAPI
// document of the app. It only applies to apps with subcommands.
func WithSchemaCommand() Option { return func(a *App) { a.schemaCommand = true } }

// Schema returns the OpenAPI document describing every command of the app.
func (a *App) Schema(ctx context.Context) (*openapi3.T, error) {
	r := &runner{app: a, std: ctx}
	root, err := r.build()
	if err != nil {
		return nil, err
	}
	return r.schema(ctx, root)
}

func (r *runner) schema(ctx context.Context, root *cobra.Command) (*openapi3.T, error) {
	var cmds []schema.Command
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		n, ok := r.nodes[c]
		if !ok {
			return
		}
		if n.compiled != nil {
			cmds = append(cmds, schema.Command{
				Path:        c.CommandPath(),
				Summary:     c.Short,
				Description: c.Long,
				Params:      n.params,
			})
		}
		for _, child := range c.Commands() {
			walk(child)
		}
	}
	walk(root)
	return schema.Generate(ctx, root.Name(), r.app.version, cmds)
}

func (r *runner) newSchemaCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Print the OpenAPI schema of every command",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			doc, err := r.schema(c.Context(), root)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), string(out))
			return nil
		},
	}
}
