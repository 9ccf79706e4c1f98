package schema

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/param"
	"github.com/replicate/sigcli/pkg/paramtype"
)

type color string

const (
	red   color = "red"
	green color = "green"
)

func (color) EnumMembers() []paramtype.EnumMember {
	return []paramtype.EnumMember{{Name: "RED", Value: red}, {Name: "GREEN", Value: green}}
}

type inputParams struct {
	Src     paramtype.Path `argument:""`
	Count   int            `option:"--count,-c" help:"How many" min:"1" max:"5"`
	Ratio   float64
	Force   bool
	Tags    []string
	Color   color
	Point   paramtype.Tuple2[int, int]
	Verbose int
	Token   string
}

func (inputParams) Defaults() map[string]any {
	return map[string]any{
		"Ratio":   0.5,
		"Force":   false,
		"Tags":    param.Option([]string{"a"}, param.Envvar("TAGS")),
		"Color":   green,
		"Point":   param.Option(nil),
		"Verbose": param.Option(nil, param.Flags("-v"), param.Count()),
		"Token":   param.Option("", param.Hidden()),
	}
}

func compile(t *testing.T, fn any) []*core.Parameter {
	t.Helper()
	cmd, err := core.Compile(fn, core.CompileOptions{})
	require.NoError(t, err)
	return cmd.Params
}

func TestInputSchema(t *testing.T) {
	s, err := InputSchema(compile(t, func(p inputParams) {}))
	require.NoError(t, err)

	require.Equal(t, []string{"src", "count"}, s.Required)
	require.NotContains(t, s.Properties, "token")

	src := s.Properties["src"].Value
	require.True(t, src.Type.Is(openapi3.TypeString))
	require.Equal(t, "path", src.Format)
	require.Equal(t, "Src", src.Title)
	require.Equal(t, 0, src.Extensions["x-order"])
	require.Equal(t, "argument", src.Extensions["x-kind"])

	count := s.Properties["count"].Value
	require.True(t, count.Type.Is(openapi3.TypeInteger))
	require.Equal(t, 1.0, *count.Min)
	require.Equal(t, 5.0, *count.Max)
	require.Equal(t, "How many", count.Description)
	require.Equal(t, []string{"--count", "-c"}, count.Extensions["x-flags"])

	ratio := s.Properties["ratio"].Value
	require.True(t, ratio.Type.Is(openapi3.TypeNumber))
	require.Equal(t, 0.5, ratio.Default)

	force := s.Properties["force"].Value
	require.True(t, force.Type.Is(openapi3.TypeBoolean))
	require.Equal(t, false, force.Default)
	require.Equal(t, []string{"--force", "--no-force"}, force.Extensions["x-flags"])

	tags := s.Properties["tags"].Value
	require.True(t, tags.Type.Is(openapi3.TypeArray))
	require.True(t, tags.Items.Value.Type.Is(openapi3.TypeString))
	require.Equal(t, []any{"a"}, tags.Default)
	require.Equal(t, []string{"TAGS"}, tags.Extensions["x-envvar"])

	c := s.Properties["color"].Value
	require.Equal(t, []any{"red", "green"}, c.Enum)
	require.Equal(t, "green", c.Default)
	require.Equal(t, "An enumeration.", c.Description)

	point := s.Properties["point"].Value
	require.True(t, point.Type.Is(openapi3.TypeArray))
	require.Equal(t, uint64(2), point.MinItems)
	require.Equal(t, uint64(2), *point.MaxItems)
	require.True(t, point.Items.Value.Type.Is(openapi3.TypeInteger))

	verbose := s.Properties["verbose"].Value
	require.True(t, verbose.Type.Is(openapi3.TypeInteger))
	require.Equal(t, 0.0, *verbose.Min)
	require.Equal(t, 7, verbose.Extensions["x-order"])
}

func TestGenerate(t *testing.T) {
	params := compile(t, func(p inputParams) {})
	doc, err := Generate(context.Background(), "tool", "", []Command{
		{Path: "tool copy", Summary: "Copy things", Params: params},
		{Path: "tool users add", Params: params},
	})
	require.NoError(t, err)

	require.Equal(t, "3.0.2", doc.OpenAPI)
	require.Equal(t, "0.1.0", doc.Info.Version)

	op := doc.Paths.Value("/tool/copy").Post
	require.Equal(t, "Copy things", op.Summary)
	require.Equal(t, "tool_copy", op.OperationID)
	body := op.RequestBody.Value
	require.True(t, body.Required)
	require.Equal(t, "#/components/schemas/ToolCopyInput", body.Content.Get("application/json").Schema.Ref)
	require.Equal(t, "Successful Response", *op.Responses.Status(200).Value.Description)

	require.NotNil(t, doc.Paths.Value("/tool/users/add"))
	require.Equal(t, "ToolUsersAddInput", doc.Components.Schemas["ToolUsersAddInput"].Value.Title)
}

func TestTitleCase(t *testing.T) {
	for in, want := range map[string]string{
		"name":       "Name",
		"flag_name":  "Flag Name",
		"a__b":       "A  B",
		"":           "",
		"already_Up": "Already Up",
	} {
		require.Equal(t, want, TitleCase(in))
	}
}
