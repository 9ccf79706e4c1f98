// Package cli builds cobra command trees from annotated Go functions.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/replicate/sigcli/pkg/errors"
	"github.com/replicate/sigcli/pkg/global"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/util/console"
)

// App is a tree of commands. Register functions with Command, nest other
// apps with AddApp, and run it with Main or Execute.
type App struct {
	name     string
	help     string
	version  string
	registry *param.Registry

	callback             *entry
	commands             []*entry
	groups               []*group
	invokeWithoutCommand bool
	hidden               bool
	panel                string
	schemaCommand        bool

	autoEnvvarPrefix string
	configFile       string
	defaultMap       map[string]any
	obj              any

	in       io.Reader
	out, err io.Writer
}

type group struct {
	name string
	app  *App
}

// entry is a registered function before it is compiled.
type entry struct {
	fn       any
	name     string
	help     string
	hidden   bool
	panel    string
	defaults map[string]any
}

// Option configures an App.
type Option func(*App)

// WithName sets the program name shown in usage lines.
func WithName(name string) Option { return func(a *App) { a.name = name } }

// WithHelp sets the app's help text. The callback's documentation is used otherwise.
func WithHelp(help string) Option { return func(a *App) { a.help = help } }

// WithVersion adds a --version flag.
func WithVersion(version string) Option { return func(a *App) { a.version = version } }

// WithRegistry sets the registry used to resolve named types, parsers,
// callbacks and completions referenced from struct tags.
func WithRegistry(r *param.Registry) Option { return func(a *App) { a.registry = r } }

// WithAutoEnvvarPrefix lets every option be read from PREFIX_NAME.
func WithAutoEnvvarPrefix(prefix string) Option {
	return func(a *App) { a.autoEnvvarPrefix = prefix }
}

// WithConfigFile loads parameter defaults from a YAML or JSON file. A file
// that does not exist is ignored.
func WithConfigFile(path string) Option { return func(a *App) { a.configFile = path } }

// WithDefaultMap sets parameter defaults keyed by parameter name, with
// nested maps for subcommands. Values from the config file take precedence.
func WithDefaultMap(m map[string]any) Option { return func(a *App) { a.defaultMap = m } }

// WithObj sets Context.Obj for every invocation.
func WithObj(obj any) Option { return func(a *App) { a.obj = obj } }

// WithIO replaces standard input, output and error.
func WithIO(in io.Reader, out, err io.Writer) Option {
	return func(a *App) { a.in, a.out, a.err = in, out, err }
}

// WithInvokeWithoutCommand runs the callback when no subcommand is given
// instead of showing help.
func WithInvokeWithoutCommand() Option { return func(a *App) { a.invokeWithoutCommand = true } }

// WithHidden hides a nested app from its parent's help.
func WithHidden() Option { return func(a *App) { a.hidden = true } }

// WithPanel groups a nested app under a custom heading in its parent's help.
func WithPanel(panel string) Option { return func(a *App) { a.panel = panel } }

// New creates an App.
func New(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CommandOption configures a registered function.
type CommandOption func(*entry)

// CommandName overrides the command name derived from the function name.
func CommandName(name string) CommandOption { return func(e *entry) { e.name = name } }

// CommandHelp overrides the help derived from the parameter struct's Doc method.
func CommandHelp(help string) CommandOption { return func(e *entry) { e.help = help } }

// CommandHidden hides the command from help output.
func CommandHidden() CommandOption { return func(e *entry) { e.hidden = true } }

// CommandPanel groups the command under a custom heading in help output.
func CommandPanel(panel string) CommandOption { return func(e *entry) { e.panel = panel } }

// CommandDefaults sets parameter defaults keyed by Go field name. They take
// precedence over the parameter struct's Defaults method.
func CommandDefaults(defaults map[string]any) CommandOption {
	return func(e *entry) { e.defaults = defaults }
}

// Command registers fn as a subcommand. Errors in fn's parameter declarations
// are reported by Execute.
func (a *App) Command(fn any, opts ...CommandOption) *App {
	e := &entry{fn: fn}
	for _, opt := range opts {
		opt(e)
	}
	a.commands = append(a.commands, e)
	return a
}

// Callback registers fn to run before any subcommand. Its options are given
// before the subcommand name.
func (a *App) Callback(fn any, opts ...CommandOption) *App {
	e := &entry{fn: fn}
	for _, opt := range opts {
		opt(e)
	}
	a.callback = e
	return a
}

// AddApp nests sub under name.
func (a *App) AddApp(name string, sub *App) *App {
	a.groups = append(a.groups, &group{name: name, app: sub})
	return a
}

// Result is the outcome of Execute.
type Result struct {
	ExitCode int
	Err      error
}

// Run executes fn as a single command program with os.Args and exits.
func Run(fn any, opts ...Option) {
	New(opts...).Command(fn).Main()
}

// Main executes the app with os.Args and exits with the resulting status.
func (a *App) Main() {
	res := a.Execute(os.Args[1:])
	if res.Err != nil && errors.Code(res.Err) == "" {
		console.Fatalf("%s", res.Err)
	}
	os.Exit(res.ExitCode)
}

// Execute runs the app with args. Usage errors are printed to the error
// writer and give exit code 2. Configuration errors in the registered
// functions are returned with exit code 1 before anything is run.
func (a *App) Execute(args []string) Result {
	return a.ExecuteContext(context.Background(), args)
}

// ExecuteContext is Execute with a standard library context, available to
// commands that declare a context.Context parameter.
func (a *App) ExecuteContext(std context.Context, args []string) Result {
	if name := os.Getenv(global.LogLevelEnvVar); name != "" {
		level, err := console.ParseLevel(name)
		if err != nil {
			console.Warnf("Ignoring %s=%s: %s", global.LogLevelEnvVar, name, err)
		} else {
			console.SetLevel(level)
		}
	}
	if os.Getenv(global.DebugEnvVar) != "" {
		console.SetLevel(console.DebugLevel)
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		console.SetColor(false)
	}

	defaultMap, err := a.loadDefaultMap()
	if err != nil {
		return Result{ExitCode: 1, Err: err}
	}
	r := &runner{app: a, std: std, defaultMap: defaultMap}
	root, err := r.build()
	if err != nil {
		return Result{ExitCode: 1, Err: err}
	}

	root.SetArgs(r.expandArgs(root, args))
	root.SetIn(a.input())
	root.SetOut(a.output())
	root.SetErr(a.errOutput())

	err = root.ExecuteContext(std)
	return r.report(err)
}

func (a *App) input() io.Reader {
	if a.in != nil {
		return a.in
	}
	return os.Stdin
}

func (a *App) output() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

func (a *App) errOutput() io.Writer {
	if a.err != nil {
		return a.err
	}
	return os.Stderr
}

// commandName derives a command name from a function: "createUser" becomes
// "create-user". Anonymous functions need an explicit CommandName.
func commandName(fn any) (string, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "", fmt.Errorf("command must be a function, got %T", fn)
	}
	full := runtime.FuncForPC(v.Pointer()).Name()
	name := strings.TrimSuffix(full[strings.LastIndex(full, ".")+1:], "-fm")
	if name == "" || strings.HasPrefix(name, "func") && strings.Trim(name[4:], "0123456789") == "" {
		return "", fmt.Errorf("cannot derive a command name from %s; use cli.CommandName", full)
	}
	return strcase.ToKebab(name), nil
}
