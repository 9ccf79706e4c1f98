package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
)

func compile(t *testing.T, fn any) map[string]*Parameter {
	t.Helper()
	cmd, err := Compile(fn, CompileOptions{})
	require.NoError(t, err)
	out := map[string]*Parameter{}
	for _, p := range cmd.Params {
		out[p.Name] = p
	}
	return out
}

type scenarioParams struct {
	Name     string
	FlagName bool
	Count    int    `option:"--count,-c" help:"Number of greetings" min:"1" max:"5"`
	Src      string `argument:"" metavar:"SOURCE"`
	Files    []paramtype.Path
	Point    paramtype.Tuple2[int, int]
	Verbose  int
}

func (scenarioParams) Defaults() map[string]any {
	return map[string]any{
		"Name":     "World",
		"FlagName": false,
		"Files":    param.Argument(nil),
		"Point":    param.Argument(param.Required),
		"Verbose":  param.Option(nil, param.Flags("-v"), param.Count()),
	}
}

func TestBuildRoles(t *testing.T) {
	params := compile(t, func(p scenarioParams) {})

	name := params["name"]
	require.True(t, name.IsOption())
	require.Equal(t, []string{"--name"}, name.Opts)
	require.False(t, name.Required)
	require.Equal(t, "World", name.Default)

	flag := params["flag_name"]
	require.True(t, flag.IsFlag)
	require.Equal(t, []string{"--flag-name"}, flag.Opts)
	require.Equal(t, []string{"--no-flag-name"}, flag.SecondaryOpts)

	count := params["count"]
	require.Equal(t, []string{"--count", "-c"}, count.Opts)
	require.True(t, count.Required)
	require.Equal(t, "INTEGER RANGE", count.Type.Name())

	src := params["src"]
	require.False(t, src.IsOption())
	require.True(t, src.Required)
	require.Equal(t, 1, src.Nargs)

	files := params["files"]
	require.Equal(t, -1, files.Nargs)
	require.False(t, files.Required)

	point := params["point"]
	require.Equal(t, 2, point.Nargs)

	verbose := params["verbose"]
	require.True(t, verbose.Count)
	require.False(t, verbose.IsFlag)
	require.Equal(t, 0, verbose.Default)
	require.Equal(t, []string{"-v"}, verbose.Opts)
}

func TestBuildFlagWithExplicitDecls(t *testing.T) {
	type params struct {
		Force  bool `option:"--force,-f"`
		Accept bool `option:"--yes/--no"`
	}
	built := compile(t, func(p params) {})
	require.Equal(t, []string{"--force", "-f"}, built["force"].Opts)
	require.Empty(t, built["force"].SecondaryOpts)
	require.Equal(t, []string{"--yes"}, built["accept"].Opts)
	require.Equal(t, []string{"--no"}, built["accept"].SecondaryOpts)
}

func TestBuildPromptText(t *testing.T) {
	type params struct {
		UserName string `option:"" prompt:"true"`
		Password string `option:"" prompt:"Secret please" hide_input:"" confirmation_prompt:""`
	}
	built := compile(t, func(p params) {})
	require.Equal(t, "User name", built["user_name"].Prompt)
	require.Equal(t, "Secret please", built["password"].Prompt)
	require.True(t, built["password"].HideInput)
	require.True(t, built["password"].ConfirmationPrompt)
}

func TestBuildHelpRecords(t *testing.T) {
	params := compile(t, func(p scenarioParams) {})

	rec, ok := params["name"].HelpRecord(nil)
	require.True(t, ok)
	require.Equal(t, HelpRecord{Name: "--name TEXT", Help: "[default: World]"}, rec)

	rec, _ = params["flag_name"].HelpRecord(nil)
	require.Equal(t, HelpRecord{Name: "--flag-name / --no-flag-name", Help: "[default: no-flag-name]"}, rec)

	rec, _ = params["count"].HelpRecord(nil)
	require.Equal(t, "--count, -c INTEGER RANGE", rec.Name)
	require.Equal(t, "Number of greetings  [1<=x<=5; required]", rec.Help)

	rec, _ = params["src"].HelpRecord(nil)
	require.Equal(t, "SOURCE", rec.Name)
	require.Equal(t, "TEXT", params["src"].TypeName())

	rec, _ = params["verbose"].HelpRecord(nil)
	require.Equal(t, HelpRecord{Name: "-v", Help: ""}, rec)
}

func TestBuildDefaultText(t *testing.T) {
	type params struct {
		Tags    []string
		Stamp   string
		Secret  string
		Shown   string
		Envvars string
	}
	defaults := map[string]any{
		"Tags":    []string{"a", "b"},
		"Stamp":   param.Option(param.Required, param.DefaultFactory(func() string { return "now" })),
		"Secret":  param.Option("hunter2", param.ShowDefault(false)),
		"Shown":   param.Option("x", param.ShowDefaultText("something")),
		"Envvars": param.Option("", param.Envvar("A", "B")),
	}
	cmd, err := Compile(func(p params) {}, CompileOptions{Defaults: defaults})
	require.NoError(t, err)
	texts := map[string]string{}
	for _, p := range cmd.Params {
		rec, _ := p.HelpRecord(nil)
		texts[p.Name] = rec.Help
	}
	require.Equal(t, "[default: a, b]", texts["tags"])
	require.Equal(t, "[default: (dynamic)]", texts["stamp"])
	require.Equal(t, "", texts["secret"])
	require.Equal(t, "[default: something]", texts["shown"])
	require.Equal(t, "[env var: A, B]", texts["envvars"])
}

func TestBuildDocHelp(t *testing.T) {
	params := compile(t, func(p documentedParams) {})
	require.Equal(t, "Who to greet.", params["name"].Help)
	require.Equal(t, "Explicit wins", params["loud"].Help)

	cmd, err := Compile(func(p documentedParams) {}, CompileOptions{})
	require.NoError(t, err)
	require.Equal(t, "Greet someone.", cmd.Help)
}

type documentedParams struct {
	Name string `argument:""`
	Loud bool   `option:"" help:"Explicit wins"`
}

func (documentedParams) Doc() string {
	return `Greet someone.

Args:
    name: Who to greet.
    loud: Shout.
`
}

func TestBuildConfigErrorsPropagate(t *testing.T) {
	type mixed struct {
		Name string `option:""`
	}
	_, err := Compile(func(p mixed) {}, CompileOptions{Defaults: map[string]any{"Name": param.Option("x")}})
	var mixedErr *param.MixedAnnotatedAndDefaultStyleError
	require.True(t, errors.As(err, &mixedErr))

	type nested struct {
		Grid [][]int
	}
	_, err = Compile(func(p nested) {}, CompileOptions{})
	require.Error(t, err)
}
