// Package directives reads annotation directives attached to symbols.
//
// Lookups are on the symbol itself. Callers that need an inheritable
// directive walk to the containing type or assembly explicitly, or use
// Inherited.
package directives

import (
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Directive names, compared against an attribute's simple name.
const (
	ScriptAlias                   = "ScriptAlias"
	ScriptName                    = "ScriptName"
	PreserveCase                  = "PreserveCase"
	PreserveName                  = "PreserveName"
	Imported                      = "Imported"
	ScriptNamespace               = "ScriptNamespace"
	ScriptAssembly                = "ScriptAssembly"
	AlternateSignature            = "AlternateSignature"
	InlineCode                    = "InlineCode"
	NamedValues                   = "NamedValues"
	NumericValues                 = "NumericValues"
	Flags                         = "Flags"
	Mutable                       = "Mutable"
	ObjectLiteral                 = "ObjectLiteral"
	BindThisToFirstParameter      = "BindThisToFirstParameter"
	ExpandParams                  = "ExpandParams"
	InstanceMethodOnFirstArgument = "InstanceMethodOnFirstArgument"
	IntrinsicOperator             = "IntrinsicOperator"
	IntrinsicProperty             = "IntrinsicProperty"
	ScriptSkip                    = "ScriptSkip"
	DontGenerate                  = "DontGenerate"
	Reflectable                   = "Reflectable"
	NonScriptable                 = "NonScriptable"
	IgnoreNamespace               = "IgnoreNamespace"
	IgnoreGenericArguments        = "IgnoreGenericArguments"
	GlobalMethods                 = "GlobalMethods"
)

// Named arguments of the InlineCode directive
const (
	ArgGeneratedMethodName = "GeneratedMethodName"
	ArgNonExpandedFormCode = "NonExpandedFormCode"
	ArgNonVirtualCode      = "NonVirtualCode"
)

// Known lists every recognized directive name
var Known = []string{
	ScriptAlias, ScriptName, PreserveCase, PreserveName, Imported,
	ScriptNamespace, ScriptAssembly, AlternateSignature, InlineCode,
	NamedValues, NumericValues, Flags, Mutable, ObjectLiteral,
	BindThisToFirstParameter, ExpandParams, InstanceMethodOnFirstArgument,
	IntrinsicOperator, IntrinsicProperty, ScriptSkip, DontGenerate,
	Reflectable, NonScriptable, IgnoreNamespace, IgnoreGenericArguments,
	GlobalMethods,
}

// FindDirective returns the first attribute on sym whose simple name
// matches name.
func FindDirective(sym *symbols.Symbol, name string) (symbols.Attribute, bool) {
	if sym == nil {
		return symbols.Attribute{}, false
	}
	want := symbols.SimpleAttributeName(name)
	for _, attr := range sym.Attributes {
		if attr.SimpleName() == want {
			return attr, true
		}
	}
	return symbols.Attribute{}, false
}

// HasDirective reports whether sym carries the directive
func HasDirective(sym *symbols.Symbol, name string) bool {
	_, ok := FindDirective(sym, name)
	return ok
}

// GetFlagValue reads a boolean marker directive: absent is false, present
// without arguments is true, and a single boolean argument is its value.
func GetFlagValue(sym *symbols.Symbol, name string) bool {
	attr, ok := FindDirective(sym, name)
	if !ok {
		return false
	}
	if len(attr.Arguments) == 0 {
		return true
	}
	if b, ok := attr.Arguments[0].(bool); ok {
		return b
	}
	return true
}

// GetValue reads a directive argument converted to T. Without argumentName
// the first positional argument is used; with it, the named argument of
// that name. The second result is false when the directive or argument is
// missing or cannot be converted.
func GetValue[T any](sym *symbols.Symbol, name string, argumentName ...string) (T, bool) {
	var zero T
	attr, ok := FindDirective(sym, name)
	if !ok {
		return zero, false
	}

	var raw any
	if len(argumentName) > 0 && argumentName[0] != "" {
		raw, ok = attr.Named(argumentName[0])
		if !ok {
			return zero, false
		}
	} else {
		if len(attr.Arguments) == 0 {
			return zero, false
		}
		raw = attr.Arguments[0]
	}
	return convert[T](raw)
}

func convert[T any](raw any) (T, bool) {
	var zero T
	if v, ok := raw.(T); ok {
		return v, true
	}
	// integers arrive as int64; let callers ask for int
	switch any(zero).(type) {
	case int:
		if n, ok := raw.(int64); ok {
			return any(int(n)).(T), true
		}
	case float64:
		if n, ok := raw.(int64); ok {
			return any(float64(n)).(T), true
		}
	}
	return zero, false
}

// Inherited looks for a directive on sym, then on each containing type
// outward, then on the containing assembly. It returns the symbol that
// carries the directive.
func Inherited(sym *symbols.Symbol, name string) (*symbols.Symbol, symbols.Attribute, bool) {
	for cur := sym; cur != nil; cur = cur.ContainingType {
		if attr, ok := FindDirective(cur, name); ok {
			return cur, attr, true
		}
	}
	if asm := sym.ContainingAssembly(); asm != nil && asm != sym {
		if attr, ok := FindDirective(asm, name); ok {
			return asm, attr, true
		}
	}
	return nil, symbols.Attribute{}, false
}

// IsImported reports whether sym or any type containing it is marked
// Imported. Assembly-level markers do not count.
func IsImported(sym *symbols.Symbol) bool {
	for cur := sym; cur != nil; cur = cur.ContainingType {
		if GetFlagValue(cur, Imported) {
			return true
		}
	}
	return false
}

// IsKnown reports whether name is a recognized directive
func IsKnown(name string) bool {
	simple := symbols.SimpleAttributeName(name)
	for _, k := range Known {
		if k == simple {
			return true
		}
	}
	return false
}
