package testhelpers

import (
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Attr builds an attribute application with positional arguments
func Attr(name string, args ...any) symbols.Attribute {
	return symbols.Attribute{Name: name, Arguments: args}
}

// NamedAttr builds an attribute application with positional and named
// arguments
func NamedAttr(name string, args []any, named ...symbols.NamedArgument) symbols.Attribute {
	return symbols.Attribute{Name: name, Arguments: args, NamedArguments: named}
}

// Arg builds a named attribute argument
func Arg(name string, value any) symbols.NamedArgument {
	return symbols.NamedArgument{Name: name, Value: value}
}

// TypeBuilder provides isolated, fluent construction of a type symbol and
// its members
type TypeBuilder struct {
	sym *symbols.Symbol
}

func newType(asm *symbols.Symbol, kind symbols.TypeKind, ns, name string) *TypeBuilder {
	return &TypeBuilder{sym: &symbols.Symbol{
		Name:          name,
		Kind:          symbols.KindType,
		TypeKind:      kind,
		Accessibility: symbols.AccessibilityPublic,
		Namespace:     ns,
		Assembly:      asm,
	}}
}

// Class starts a class declared in asm
func Class(asm *symbols.Symbol, ns, name string) *TypeBuilder {
	return newType(asm, symbols.TypeKindClass, ns, name)
}

// Interface starts an interface declared in asm
func Interface(asm *symbols.Symbol, ns, name string) *TypeBuilder {
	return newType(asm, symbols.TypeKindInterface, ns, name)
}

// Struct starts a struct declared in asm
func Struct(asm *symbols.Symbol, ns, name string) *TypeBuilder {
	return newType(asm, symbols.TypeKindStruct, ns, name)
}

// Enum starts an enum declared in asm
func Enum(asm *symbols.Symbol, ns, name string) *TypeBuilder {
	return newType(asm, symbols.TypeKindEnum, ns, name)
}

// Delegate starts a delegate type declared in asm
func Delegate(asm *symbols.Symbol, ns, name string) *TypeBuilder {
	return newType(asm, symbols.TypeKindDelegate, ns, name)
}

// Attr attaches a directive to the type
func (b *TypeBuilder) Attr(attrs ...symbols.Attribute) *TypeBuilder {
	b.sym.Attributes = append(b.sym.Attributes, attrs...)
	return b
}

// Generic sets the type parameter names
func (b *TypeBuilder) Generic(params ...string) *TypeBuilder {
	b.sym.TypeArguments = params
	return b
}

// Nested declares a nested type and returns its builder
func (b *TypeBuilder) Nested(kind symbols.TypeKind, name string) *TypeBuilder {
	nested := newType(nil, kind, "", name)
	b.add(nested.sym)
	return nested
}

// Build returns the type symbol
func (b *TypeBuilder) Build() *symbols.Symbol {
	return b.sym
}

func (b *TypeBuilder) add(m *symbols.Symbol) *symbols.Symbol {
	m.ContainingType = b.sym
	m.DeclarationOrder = len(b.sym.Members)
	b.sym.Members = append(b.sym.Members, m)
	return m
}

// MemberOption customizes a member symbol
type MemberOption func(*symbols.Symbol)

// WithAttrs attaches directives to the member
func WithAttrs(attrs ...symbols.Attribute) MemberOption {
	return func(s *symbols.Symbol) {
		s.Attributes = append(s.Attributes, attrs...)
	}
}

// Static marks the member static
func Static() MemberOption {
	return func(s *symbols.Symbol) { s.IsStatic = true }
}

// Private sets private accessibility
func Private() MemberOption {
	return func(s *symbols.Symbol) { s.Accessibility = symbols.AccessibilityPrivate }
}

// Params sets the parameter types of a method
func Params(typeNames ...string) MemberOption {
	return func(s *symbols.Symbol) {
		s.Parameters = make([]symbols.Parameter, len(typeNames))
		for i, tn := range typeNames {
			s.Parameters[i] = symbols.Parameter{Name: paramName(i), TypeName: tn}
		}
	}
}

// Extension marks a static method as an extension method
func Extension() MemberOption {
	return func(s *symbols.Symbol) {
		s.IsStatic = true
		s.IsExtensionMethod = true
		if len(s.Parameters) > 0 {
			s.Parameters[0].IsThis = true
		}
	}
}

// Constant sets the constant value of a field
func Constant(v string) MemberOption {
	return func(s *symbols.Symbol) { s.ConstantValue = v }
}

func paramName(i int) string {
	return string(rune('a' + i%26))
}

func (b *TypeBuilder) member(name string, kind symbols.Kind, mk symbols.MethodKind, opts []MemberOption) *symbols.Symbol {
	m := &symbols.Symbol{
		Name:          name,
		Kind:          kind,
		MethodKind:    mk,
		Accessibility: symbols.AccessibilityPublic,
	}
	for _, opt := range opts {
		opt(m)
	}
	return b.add(m)
}

// Method declares an ordinary method
func (b *TypeBuilder) Method(name string, opts ...MemberOption) *symbols.Symbol {
	return b.member(name, symbols.KindMethod, symbols.MethodKindOrdinary, opts)
}

// Constructor declares an instance constructor
func (b *TypeBuilder) Constructor(opts ...MemberOption) *symbols.Symbol {
	return b.member(symbols.ConstructorName, symbols.KindMethod, symbols.MethodKindConstructor, opts)
}

// Field declares a field
func (b *TypeBuilder) Field(name string, opts ...MemberOption) *symbols.Symbol {
	return b.member(name, symbols.KindField, symbols.MethodKindNone, opts)
}

// Property declares a property
func (b *TypeBuilder) Property(name string, opts ...MemberOption) *symbols.Symbol {
	return b.member(name, symbols.KindProperty, symbols.MethodKindNone, opts)
}

// Event declares an event
func (b *TypeBuilder) Event(name string, opts ...MemberOption) *symbols.Symbol {
	return b.member(name, symbols.KindEvent, symbols.MethodKindNone, opts)
}

// Instantiate returns a constructed generic type whose original definition
// is def
func Instantiate(def *symbols.Symbol, args ...string) *symbols.Symbol {
	inst := *def
	inst.TypeArguments = args
	inst.OriginalDefinition = def
	return &inst
}

// Reduce returns the receiver-bound form of a static extension method
func Reduce(ext *symbols.Symbol) *symbols.Symbol {
	reduced := *ext
	reduced.IsStatic = false
	if len(reduced.Parameters) > 0 {
		reduced.Parameters = reduced.Parameters[1:]
	}
	reduced.ReducedFrom = ext
	return &reduced
}

// ArrayOf returns an array type over elem
func ArrayOf(elem *symbols.Symbol) *symbols.Symbol {
	return &symbols.Symbol{
		Name:        "Array",
		Kind:        symbols.KindType,
		TypeKind:    symbols.TypeKindArray,
		ElementType: elem,
	}
}

// Dynamic returns the untyped placeholder type
func Dynamic() *symbols.Symbol {
	return &symbols.Symbol{Name: "dynamic", Kind: symbols.KindType, TypeKind: symbols.TypeKindDynamic}
}

// NewUnit creates a translation unit over the given top-level types. The
// types are assigned to asm and stamped with the unit path.
func NewUnit(path string, asm *symbols.Symbol, types ...*TypeBuilder) *symbols.Unit {
	unit := &symbols.Unit{Path: path, Assembly: asm}
	for i, tb := range types {
		t := tb.Build()
		t.Assembly = asm
		t.DeclarationOrder = i
		unit.Types = append(unit.Types, t)
	}
	line := 1
	for _, s := range unit.Declared() {
		s.Location = symbols.Location{Path: path, Line: line, Column: 1}
		line++
	}
	return unit
}
