package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/param"
)

type helpParams struct {
	Src     string `argument:"" help:"File to read"`
	Name    string
	Secret  string
	Retries int
	Color   string `choices:"red,green,blue"`
}

func (helpParams) Doc() string {
	return "Greet someone.\n\nReads SRC and prints a greeting."
}

func (helpParams) Defaults() map[string]any {
	return map[string]any{
		"Name":    param.Option("World", param.Help("Who to greet")),
		"Secret":  param.Option("", param.Hidden()),
		"Retries": param.Option(3, param.Panel("Advanced")),
		"Color":   "red",
	}
}

func TestHelpSingleCommand(t *testing.T) {
	app := New(WithName("greet"), WithVersion("0.1.0")).Command(func(p helpParams) {})
	res, out, _ := run(t, app, "--help")
	require.NoError(t, res.Err)

	require.True(t, strings.HasPrefix(out, "Usage: greet [OPTIONS] SRC\n"))
	require.Contains(t, out, "Greet someone.")
	require.Contains(t, out, "Reads SRC and prints a greeting.")

	require.Contains(t, out, "Arguments:")
	require.Contains(t, out, "File to read")
	require.Contains(t, out, "Options:")
	require.Contains(t, out, "--name TEXT")
	require.Contains(t, out, "Who to greet")
	require.Contains(t, out, "[default: World]")
	require.Contains(t, out, "--version")
	require.Contains(t, out, "Show this message and exit.")
	require.NotContains(t, out, "--secret")

	advanced := strings.Index(out, "Advanced:")
	require.Greater(t, advanced, strings.Index(out, "Options:"))
	require.Contains(t, out[advanced:], "--retries")
}

func TestHelpSubcommand(t *testing.T) {
	app := New(WithName("app")).
		Command(hello).
		Command(goodbye, CommandHidden()).
		Command(func(p helpParams) {}, CommandName("fancy"), CommandPanel("Extras"))

	res, out, _ := run(t, app, "--help")
	require.NoError(t, res.Err)
	require.Contains(t, out, "Commands:")
	require.Contains(t, out, "hello")
	require.NotContains(t, out, "goodbye")
	extras := strings.Index(out, "Extras:")
	require.Greater(t, extras, 0)
	require.Contains(t, out[extras:], "fancy")

	res, out, _ = run(t, app, "fancy", "--help")
	require.NoError(t, res.Err)
	require.True(t, strings.HasPrefix(out, "Usage: app fancy [OPTIONS] SRC\n"))
}

func TestArgumentMetavar(t *testing.T) {
	for _, tt := range []struct {
		p    core.Parameter
		want string
	}{
		{core.Parameter{Name: "src", Nargs: 1, Required: true}, "SRC"},
		{core.Parameter{Name: "src", Nargs: 1}, "[SRC]"},
		{core.Parameter{Name: "files", Nargs: -1}, "[FILES]..."},
		{core.Parameter{Name: "point", Nargs: 2, Required: true, Metavar: "XY"}, "XY..."},
	} {
		require.Equal(t, tt.want, argumentMetavar(&tt.p))
	}
}

type deployParams struct {
	Region string
	Env    string
}

func (deployParams) Defaults() map[string]any {
	return map[string]any{
		"Region": "eu",
		"Env": param.Argument(param.Required, param.Autocompletion(func(ctx *core.Context, incomplete string) []string {
			region, _ := ctx.Params["region"].(string)
			var out []string
			for _, env := range []string{"prod", "preview", "dev"} {
				if strings.HasPrefix(env, incomplete) {
					out = append(out, region+"-"+env)
				}
			}
			return out
		})),
	}
}

func TestCompletion(t *testing.T) {
	for _, tt := range []struct {
		name string
		fn   any
		args []string
		want []string
		skip []string
	}{
		{
			name: "choice option",
			fn:   func(p helpParams) {},
			args: []string{"--color", "g"},
			want: []string{"green", ":4"},
			skip: []string{"red"},
		},
		{
			name: "argument with context",
			fn:   func(p deployParams) {},
			args: []string{"--region", "us", "p"},
			want: []string{"us-prod", "us-preview", ":4"},
			skip: []string{"us-dev"},
		},
		{
			name: "argument default context",
			fn:   func(p deployParams) {},
			args: []string{""},
			want: []string{"eu-prod", "eu-dev"},
		},
		{
			name: "no more arguments",
			fn:   func(p deployParams) {},
			args: []string{"prod", ""},
			want: []string{":4"},
			skip: []string{"prod\n"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			app := New(WithName("deploy")).Command(tt.fn)
			res, out, _ := run(t, app, append([]string{"__complete"}, tt.args...)...)
			require.NoError(t, res.Err)
			for _, w := range tt.want {
				require.Contains(t, out, w)
			}
			for _, s := range tt.skip {
				require.NotContains(t, out, s)
			}
		})
	}
}

func TestSchemaCommand(t *testing.T) {
	app := New(WithName("app"), WithVersion("2.0.0"), WithSchemaCommand()).
		Command(hello).
		Command(func(p helpParams) {}, CommandName("fancy"))

	res, out, _ := run(t, app, "schema")
	require.NoError(t, res.Err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "3.0.2", doc["openapi"])
	require.Equal(t, map[string]any{"title": "app", "version": "2.0.0"}, doc["info"])
	paths := doc["paths"].(map[string]any)
	require.Contains(t, paths, "/app/hello")
	require.Contains(t, paths, "/app/fancy")

	res, out, _ = run(t, app, "--help")
	require.NoError(t, res.Err)
	require.NotContains(t, out, "schema")
}

func TestAppSchema(t *testing.T) {
	doc, err := New(WithName("greet")).Command(greet).Schema(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc.Paths.Value("/greet"))
	input := doc.Components.Schemas["GreetInput"].Value
	require.Equal(t, "World", input.Properties["name"].Value.Default)
}

func TestGenMarkdownTree(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	app := New(WithName("app"), WithHelp("Example app")).
		Command(hello).
		Command(goodbye, CommandHelp("Say goodbye"))
	require.NoError(t, app.GenMarkdownTree(dir))

	for _, name := range []string{"app.md", "app_hello.md", "app_goodbye.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	page, err := os.ReadFile(filepath.Join(dir, "app_goodbye.md"))
	require.NoError(t, err)
	require.Contains(t, string(page), "Say goodbye")
	require.Contains(t, string(page), "--name")
}
