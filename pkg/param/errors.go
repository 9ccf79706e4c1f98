package param

import (
	"fmt"
	"strings"
)

// Kind is the kind of a parameter marker.
type Kind int

const (
	KindArgument Kind = iota
	KindOption
)

func (k Kind) String() string {
	if k == KindOption {
		return "Option"
	}
	return "Argument"
}

type MultipleAnnotationsError struct {
	ArgumentName string
}

func (e *MultipleAnnotationsError) Error() string {
	return fmt.Sprintf("cannot specify multiple parameter markers (option, argument) for %q", e.ArgumentName)
}

type MixedAnnotatedAndDefaultStyleError struct {
	ArgumentName       string
	AnnotatedParamType Kind
	DefaultParamType   Kind
}

func (e *MixedAnnotatedAndDefaultStyleError) Error() string {
	if e.AnnotatedParamType == e.DefaultParamType {
		return fmt.Sprintf("cannot specify %s in the struct tag and in Defaults() together for %q",
			e.AnnotatedParamType, e.ArgumentName)
	}
	return fmt.Sprintf("cannot specify %s in the struct tag and %s in Defaults() together for %q",
		e.AnnotatedParamType, e.DefaultParamType, e.ArgumentName)
}

type AnnotatedParamWithDefaultValueError struct {
	ArgumentName string
	ParamType    Kind
}

func (e *AnnotatedParamWithDefaultValueError) Error() string {
	return fmt.Sprintf("%s default value cannot be set in the struct tag for %q; set it in Defaults() instead",
		e.ParamType, e.ArgumentName)
}

type DefaultFactoryAndDefaultValueError struct {
	ArgumentName string
	ParamType    Kind
}

func (e *DefaultFactoryAndDefaultValueError) Error() string {
	return fmt.Sprintf("cannot use default_factory and a default value together in %s for %q",
		e.ParamType, e.ArgumentName)
}

// UnresolvedNameError is returned when a name used in a struct tag is not
// in the command's Registry.
type UnresolvedNameError struct {
	Kind  string
	Name  string
	Field string
}

func (e *UnresolvedNameError) Error() string {
	return fmt.Sprintf("name %q is not defined (%s referenced by field %s)", e.Name, e.Kind, e.Field)
}

// OrphanTagError is returned for configuration tags on a field without an
// option or argument tag.
type OrphanTagError struct {
	Field string
	Tags  []string
}

func (e *OrphanTagError) Error() string {
	return fmt.Sprintf("field %s has tags %s but no option or argument tag", e.Field, strings.Join(e.Tags, ", "))
}

// TagError reports a malformed struct tag.
type TagError struct {
	Field string
	Tag   string
	Msg   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("field %s: invalid %s tag: %s", e.Field, e.Tag, e.Msg)
}

// SignatureError reports a command function with an unsupported shape.
type SignatureError struct {
	Msg string
}

func (e *SignatureError) Error() string {
	return "invalid command function: " + e.Msg
}
