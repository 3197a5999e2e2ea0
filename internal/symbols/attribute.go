package symbols

import "strings"

// NamedArgument is a `Name = value` argument of an attribute application
type NamedArgument struct {
	Name  string
	Value any
}

// Attribute is one annotation attached to a symbol.
//
// Argument values are normalized by the host analyzer to one of: string,
// bool, int64, float64 or nil.
type Attribute struct {
	Name           string
	Arguments      []any
	NamedArguments []NamedArgument
	Location       Location
}

// SimpleName returns the attribute name without namespace qualifiers and
// without a trailing "Attribute" suffix, so that `[System.Runtime.CompilerServices.ScriptNameAttribute]`
// and `[ScriptName]` compare equal.
func (a Attribute) SimpleName() string {
	return SimpleAttributeName(a.Name)
}

// Named returns the value of a named argument.
func (a Attribute) Named(name string) (any, bool) {
	for _, arg := range a.NamedArguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// SimpleAttributeName normalizes an attribute name for comparison.
func SimpleAttributeName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, ".:"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > len("Attribute") && strings.HasSuffix(name, "Attribute") {
		name = strings.TrimSuffix(name, "Attribute")
	}
	return name
}
