package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	require.EqualError(t, BadParameter("'--count'", "'x' is not a valid integer."), "Invalid value for '--count': 'x' is not a valid integer.")
	require.EqualError(t, BadParameter("", "nope"), "Invalid value: nope")
	require.EqualError(t, MissingParameter("'NAME'", "argument"), "Missing argument 'NAME'.")
	require.EqualError(t, Abort(), "Aborted!")
	require.EqualError(t, Exit(3), "exit status 3")
}

func TestCodes(t *testing.T) {
	for _, tt := range []struct {
		name  string
		err   error
		code  string
		exit  int
		usage bool
	}{
		{"nil", nil, "", 0, false},
		{"plain", fmt.Errorf("boom"), "", 1, false},
		{"usage", Usage("bad"), CodeUsage, 2, true},
		{"bad parameter", BadParameter("'-c'", "bad"), CodeBadParameter, 2, true},
		{"missing", MissingParameter("'-c'", "option"), CodeMissingParameter, 2, true},
		{"wrapped usage", fmt.Errorf("while parsing: %w", Usage("bad")), CodeUsage, 2, true},
		{"abort", Abort(), CodeAbort, 1, false},
		{"exit", Exit(4), CodeExit, 4, false},
		{"clean exit", Exit(0), CodeExit, 0, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, Code(tt.err))
			require.Equal(t, tt.exit, ExitCode(tt.err))
			require.Equal(t, tt.usage, IsUsage(tt.err))
		})
	}
	require.True(t, IsAbort(Abort()))
	require.False(t, IsAbort(Usage("x")))
}

func TestParamHint(t *testing.T) {
	err := MissingParameter("'--name'", "option")
	uerr, ok := err.(*UsageError)
	require.True(t, ok)
	require.Equal(t, "'--name'", uerr.ParamHint)
}
