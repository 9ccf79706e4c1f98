// greet is a small program built with sigcli. It doubles as a manual test
// of options, arguments, prompts, completion and config files.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-version"
	"github.com/shopspring/decimal"

	"github.com/replicate/sigcli/pkg/cli"
	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/global"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
	"github.com/replicate/sigcli/pkg/util/console"
)

type language string

func (language) EnumMembers() []paramtype.EnumMember {
	return []paramtype.EnumMember{
		{Name: "EN", Value: language("en")},
		{Name: "ES", Value: language("es")},
		{Name: "FR", Value: language("fr")},
	}
}

var greetings = map[language]string{"en": "Hello", "es": "Hola", "fr": "Bonjour"}

type rootParams struct {
	Verbose bool
}

func (rootParams) Defaults() map[string]any {
	return map[string]any{
		"Verbose": param.Option(false,
			param.Help("Show debug output."),
			param.IsEager(),
			param.Callback(func(verbose bool) {
				if verbose {
					global.Verbose = true
					console.SetLevel(console.DebugLevel)
				}
			}),
		),
	}
}

type helloParams struct {
	Name  string
	Count int `option:"--count,-c" min:"1" max:"10" clamp:""`
	Shout bool
	Lang  language
}

func (helloParams) Doc() string {
	return `Greet someone.

Args:
    name: Who to greet.
    count: How many times.
    shout: Print in capitals.
    lang: Language of the greeting.`
}

func (helloParams) Defaults() map[string]any {
	return map[string]any{
		"Name":  param.Option("World", param.Envvar("GREET_NAME")),
		"Count": 1,
		"Shout": false,
		"Lang":  language("en"),
	}
}

func hello(ctx *core.Context, p helloParams) {
	msg := fmt.Sprintf("%s %s!", greetings[p.Lang], p.Name)
	if p.Shout {
		msg = strings.ToUpper(msg)
	}
	for range p.Count {
		fmt.Fprintln(ctx.Out, msg)
	}
}

type loginParams struct {
	User     string
	Password string
}

func (loginParams) Doc() string { return "Ask for credentials and print a session id." }

func (loginParams) Defaults() map[string]any {
	return map[string]any{
		"User":     param.Option(param.Required, param.Prompt()),
		"Password": param.Option(param.Required, param.Prompt(), param.HideInput(), param.ConfirmationPrompt()),
	}
}

func login(ctx *core.Context, p loginParams) {
	session := uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.User+":"+p.Password))
	console.Debugf("Derived session for %s", p.User)
	fmt.Fprintf(ctx.Out, "Logged in as %s (session %s)\n", p.User, session)
}

type checkParams struct {
	Version    *version.Version
	Constraint string
}

func (checkParams) Doc() string {
	return `Check a version against a constraint.

:param version: Version to check, e.g. 1.4.2.
:param constraint: Constraint such as ">= 1.2, < 2".`
}

func (checkParams) Defaults() map[string]any {
	return map[string]any{
		"Version":    param.Argument(param.Required, param.Parser(version.NewVersion)),
		"Constraint": ">= 1.0",
	}
}

func checkVersion(ctx *core.Context, p checkParams) error {
	c, err := version.NewConstraint(p.Constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", p.Constraint, err)
	}
	if !c.Check(p.Version) {
		fmt.Fprintf(ctx.Out, "%s does not satisfy %s\n", p.Version, c)
		return ctx.Exit(1)
	}
	fmt.Fprintf(ctx.Out, "%s satisfies %s\n", p.Version, c)
	return nil
}

type totalParams struct {
	Prices   []decimal.Decimal `argument:""`
	Discount float64
}

func (totalParams) Doc() string { return "Add up prices." }

func (totalParams) Defaults() map[string]any {
	return map[string]any{
		"Discount": param.Option(0.0, param.Min(0.0), param.Max(1.0), param.Help("Fraction taken off the sum.")),
	}
}

func total(ctx *core.Context, p totalParams) {
	sum := decimal.Zero
	for _, price := range p.Prices {
		sum = sum.Add(price)
	}
	sum = sum.Mul(decimal.NewFromFloat(1 - p.Discount))
	fmt.Fprintln(ctx.Out, sum.StringFixed(2))
}

type lsParams struct {
	Dirs []paramtype.Path
}

func (lsParams) Defaults() map[string]any {
	return map[string]any{
		"Dirs": param.Argument(nil, param.Exists(), param.FileOkay(false), param.ResolvePath()),
	}
}

func ls(ctx *core.Context, p lsParams) error {
	for _, dir := range p.Dirs {
		matches, err := filepath.Glob(filepath.Join(string(dir), "*"))
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintln(ctx.Out, m)
		}
	}
	return nil
}

type docsParams struct {
	Dir paramtype.Path
}

func (docsParams) Defaults() map[string]any {
	return map[string]any{"Dir": param.Option(paramtype.Path("./docs"), param.FileOkay(false))}
}

func newApp() *cli.App {
	app := cli.New(
		cli.WithName("greet"),
		cli.WithHelp("Examples of sigcli commands."),
		cli.WithVersion(global.Version),
		cli.WithAutoEnvvarPrefix("GREET"),
		cli.WithConfigFile(filepath.Join("~", ".config", "greet", global.ConfigFilename)),
		cli.WithSchemaCommand(),
	)
	app.Callback(func(p rootParams) {})
	app.Command(hello)
	app.Command(login)
	app.Command(checkVersion)
	app.Command(total)

	fs := cli.New(cli.WithHelp("Filesystem commands."), cli.WithPanel("Files"))
	fs.Command(ls)
	app.AddApp("fs", fs)

	app.Command(func(p docsParams) error {
		return app.GenMarkdownTree(string(p.Dir))
	}, cli.CommandName("docs"), cli.CommandHidden(), cli.CommandHelp("Write markdown pages for every command."))
	return app
}

func main() {
	newApp().Main()
}
