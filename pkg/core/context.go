// Package core turns extracted parameter metadata into command-line
// parameters and resolves their values at invocation time.
package core

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/replicate/sigcli/pkg/errors"
)

// ValueSource records where a parameter's value came from.
type ValueSource int

const (
	SourceNone ValueSource = iota
	SourceCommandLine
	SourceEnvironment
	SourceDefaultMap
	SourceDefault
	SourcePrompt
)

func (s ValueSource) String() string {
	switch s {
	case SourceCommandLine:
		return "COMMANDLINE"
	case SourceEnvironment:
		return "ENVIRONMENT"
	case SourceDefaultMap:
		return "DEFAULT_MAP"
	case SourceDefault:
		return "DEFAULT"
	case SourcePrompt:
		return "PROMPT"
	}
	return "NONE"
}

// Context is the state of one command invocation. Commands and helpers can
// declare a *Context parameter to receive it.
type Context struct {
	// CommandPath is the full command name, e.g. "greet hello".
	CommandPath string
	Parent      *Context
	// Params holds the values resolved so far, keyed by parameter name.
	Params map[string]any
	// Args are the raw command-line arguments, used during completion.
	Args []string
	// ResilientParsing suppresses conversion errors, prompts and callbacks.
	ResilientParsing bool
	// DefaultMap holds defaults loaded from a config file, keyed by parameter name.
	DefaultMap map[string]any
	// AutoEnvvarPrefix enables PREFIX_NAME environment variables for options.
	AutoEnvvarPrefix string
	// Obj is free for the application to use.
	Obj any

	In  io.Reader
	Out io.Writer
	Err io.Writer
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	std     context.Context
	sources map[string]ValueSource
}

// NewContext creates a context for one invocation.
func NewContext(std context.Context, commandPath string) *Context {
	if std == nil {
		std = context.Background()
	}
	return &Context{
		CommandPath: commandPath,
		Params:      map[string]any{},
		std:         std,
		sources:     map[string]ValueSource{},
	}
}

// Context returns the standard library context of the invocation.
func (c *Context) Context() context.Context {
	return c.std
}

// Child creates a context for a subcommand, inheriting settings. The auto
// envvar prefix is extended with the subcommand name.
func (c *Context) Child(name string) *Context {
	child := NewContext(c.std, c.CommandPath+" "+name)
	child.Parent = c
	child.ResilientParsing = c.ResilientParsing
	if c.AutoEnvvarPrefix != "" {
		child.AutoEnvvarPrefix = c.AutoEnvvarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	}
	child.Obj = c.Obj
	child.In, child.Out, child.Err = c.In, c.Out, c.Err
	child.LookupEnv = c.LookupEnv
	if sub, ok := c.DefaultMap[name].(map[string]any); ok {
		child.DefaultMap = sub
	}
	return child
}

// ParameterSource reports where the named parameter's value came from.
func (c *Context) ParameterSource(name string) ValueSource {
	return c.sources[name]
}

// Exit stops the command with the given status.
func (c *Context) Exit(status int) error {
	return errors.Exit(status)
}

// Abort stops the command and reports "Aborted!".
func (c *Context) Abort() error {
	return errors.Abort()
}

func (c *Context) lookupEnv(name string) (string, bool) {
	if c.LookupEnv != nil {
		return c.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

func (c *Context) input() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Context) output() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}
