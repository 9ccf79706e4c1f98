package paramtype

import "fmt"

// Enum is implemented by types whose values form a closed set. The method is
// called on the zero value, so it must not depend on the receiver.
//
//	type Color string
//
//	func (Color) EnumMembers() []paramtype.EnumMember {
//		return []paramtype.EnumMember{{"RED", Color("red")}, {"BLUE", Color("blue")}}
//	}
type Enum interface {
	EnumMembers() []EnumMember
}

type EnumMember struct {
	Name  string
	Value any
}

// ValueString is the command-line spelling of the member's value.
func (m EnumMember) ValueString() string {
	return fmt.Sprint(m.Value)
}

func EnumValues(e Enum) []string {
	members := e.EnumMembers()
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.ValueString()
	}
	return out
}

func EnumNames(e Enum) []string {
	members := e.EnumMembers()
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name
	}
	return out
}
