// Package param extracts parameter metadata from command functions and
// reconciles the different ways a parameter can be declared into a single
// ParameterInfo.
package param

import (
	"reflect"
)

// OrderedMap is a generic map that preserves insertion order.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates a new empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set inserts or updates a key-value pair.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for a key and whether it exists.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// Values returns values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Entries iterates over key-value pairs in insertion order.
func (m *OrderedMap[K, V]) Entries(fn func(key K, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Sentinel marks the absence of a default.
type Sentinel string

const (
	// Required marks a parameter that must be given.
	Required Sentinel = "<required>"
	// Empty means no default was declared at all.
	Empty Sentinel = "<empty>"
)

func isUnset(v any) bool {
	return v == Required || v == Empty
}

// IsUnset reports whether v is one of the sentinels.
func IsUnset(v any) bool {
	return isUnset(v)
}

// ParamMeta describes one parameter of a command function.
type ParamMeta struct {
	// Name is the parameter identifier, e.g. "flag_name".
	Name string
	// Field is the Go struct field name, e.g. "FlagName".
	Field string
	// Index locates the field in the parameter struct (see reflect.Value.FieldByIndex).
	Index []int
	// Type is the resolved annotation.
	Type reflect.Type
	// Default is the ordinary default, or Empty.
	Default any
	// Metadata holds the markers declared in struct tags.
	Metadata []ParameterInfo
	// Choices holds literal values from a choices tag.
	Choices []string
	// IsContext marks a field that receives the invocation context.
	IsContext bool
}

// Leading describes what a command function takes before its parameter struct.
type Leading int

const (
	LeadingNone Leading = iota
	// LeadingContext is the command context type given in ExtractOptions.
	LeadingContext
	// LeadingStdContext is context.Context.
	LeadingStdContext
)

// Signature is the extracted shape of a command function.
type Signature struct {
	Func    reflect.Value
	Leading Leading
	// Struct is the parameter struct type, nil if the function takes none.
	Struct reflect.Type
	// Pointer is true when the function takes *Struct.
	Pointer bool
	Params  *OrderedMap[string, ParamMeta]
	// Doc is the text returned by the struct's Doc() method.
	Doc string
}
