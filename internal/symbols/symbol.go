package symbols

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Constructor names follow the host analyzer convention for instance and
// static constructors.
const (
	ConstructorName       = ".ctor"
	StaticConstructorName = ".cctor"
)

// Location identifies where a symbol or attribute was declared
type Location struct {
	Path   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Path == "" {
		return ""
	}
	if l.Line == 0 {
		return l.Path
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

// Parameter is one formal parameter of a method or delegate
type Parameter struct {
	Name     string
	TypeName string
	Type     *Symbol
	IsParams bool
	IsThis   bool
}

// Symbol is a declared or referenced program entity supplied by the host
// analyzer. Identity is pointer identity: the analyzer hands out exactly one
// *Symbol per entity, and a generic instantiation or a reduced extension
// method is a distinct *Symbol that points back at its alias through
// OriginalDefinition or ReducedFrom.
//
// Symbols are built once by the analyzer and must not be mutated after they
// are handed to the engine.
type Symbol struct {
	Name          string
	Kind          Kind
	TypeKind      TypeKind
	MethodKind    MethodKind
	Accessibility Accessibility

	IsStatic          bool
	IsAbstract        bool
	IsExtensionMethod bool

	// Namespace is the dotted namespace of a top-level type.
	Namespace      string
	Assembly       *Symbol
	ContainingType *Symbol
	Members        []*Symbol
	Attributes     []Attribute
	Parameters     []Parameter
	TypeArguments  []string
	ElementType    *Symbol
	ConstantValue  string

	OriginalDefinition *Symbol
	ReducedFrom        *Symbol

	// DeclarationOrder is the position of the symbol among the members of its
	// containing type (or among the types of its unit).
	DeclarationOrder int
	Location         Location
}

// IsType reports whether the symbol is a type declaration
func (s *Symbol) IsType() bool {
	return s != nil && s.Kind == KindType
}

// IsMember reports whether the symbol is a member of a type
func (s *Symbol) IsMember() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case KindField, KindProperty, KindMethod, KindEvent:
		return true
	}
	return false
}

// IsEnumField reports whether the symbol is a field of an enum type
func (s *Symbol) IsEnumField() bool {
	return s != nil && s.Kind == KindField && s.ContainingType != nil && s.ContainingType.TypeKind == TypeKindEnum
}

// OutermostType returns the top-level type enclosing the symbol, or the
// symbol itself for top-level types. Assemblies return nil.
func (s *Symbol) OutermostType() *Symbol {
	if s == nil || s.Kind == KindAssembly {
		return nil
	}
	cur := s
	if !cur.IsType() {
		cur = cur.ContainingType
	}
	for cur != nil && cur.ContainingType != nil {
		cur = cur.ContainingType
	}
	return cur
}

// ContainingAssembly returns the assembly that declares the symbol. For
// nested symbols the assembly of the outermost type is used when the symbol
// itself carries none.
func (s *Symbol) ContainingAssembly() *Symbol {
	if s == nil {
		return nil
	}
	if s.Kind == KindAssembly {
		return s
	}
	for cur := s; cur != nil; cur = cur.ContainingType {
		if cur.Assembly != nil {
			return cur.Assembly
		}
	}
	return nil
}

// Siblings returns every other member of the containing type in declaration
// order.
func (s *Symbol) Siblings() []*Symbol {
	if s == nil || s.ContainingType == nil {
		return nil
	}
	out := make([]*Symbol, 0, len(s.ContainingType.Members))
	for _, m := range s.ContainingType.Members {
		if m != s {
			out = append(out, m)
		}
	}
	return out
}

// Aliases returns the distinct alternate identities a lookup must probe, in
// probe order: the original generic definition first, then the unreduced
// form of a reduced extension method.
func (s *Symbol) Aliases() []*Symbol {
	if s == nil {
		return nil
	}
	var out []*Symbol
	if s.OriginalDefinition != nil && s.OriginalDefinition != s {
		out = append(out, s.OriginalDefinition)
	}
	if s.ReducedFrom != nil && s.ReducedFrom != s && s.ReducedFrom != s.OriginalDefinition {
		out = append(out, s.ReducedFrom)
	}
	return out
}

// FullName returns the namespace-qualified name without type arguments,
// e.g. "System.Collections.Generic.List".
func (s *Symbol) FullName() string {
	if s == nil {
		return ""
	}
	if s.Kind == KindAssembly {
		return s.Name
	}
	var parts []string
	for cur := s; cur != nil; cur = cur.ContainingType {
		parts = append(parts, cur.Name)
		if cur.ContainingType == nil && cur.Namespace != "" {
			parts = append(parts, cur.Namespace)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// DisplayString returns the canonical display form of the symbol. It is the
// input of CanonicalHash and the text used in diagnostics.
func (s *Symbol) DisplayString() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindAssembly, KindNamespace:
		return s.Name
	case KindType:
		return s.typeDisplay()
	}

	var b strings.Builder
	if s.ContainingType != nil {
		b.WriteString(s.ContainingType.typeDisplay())
		b.WriteByte('.')
	}
	b.WriteString(s.Name)
	switch {
	case s.Kind == KindMethod:
		writeTypeArgs(&b, s.TypeArguments)
		writeParams(&b, s.Parameters, '(', ')')
	case s.Kind == KindProperty && len(s.Parameters) > 0:
		// indexer
		writeParams(&b, s.Parameters, '[', ']')
	}
	return b.String()
}

func writeParams(b *strings.Builder, params []Parameter, left, right byte) {
	b.WriteByte(left)
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Type != nil {
			b.WriteString(p.Type.DisplayString())
		} else {
			b.WriteString(p.TypeName)
		}
	}
	b.WriteByte(right)
}

func (s *Symbol) typeDisplay() string {
	if s.TypeKind == TypeKindArray && s.ElementType != nil {
		return s.ElementType.DisplayString() + "[]"
	}
	var b strings.Builder
	if s.ContainingType != nil {
		b.WriteString(s.ContainingType.typeDisplay())
		b.WriteByte('.')
	} else if s.Namespace != "" {
		b.WriteString(s.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(s.Name)
	writeTypeArgs(&b, s.TypeArguments)
	return b.String()
}

func writeTypeArgs(b *strings.Builder, args []string) {
	if len(args) == 0 {
		return
	}
	b.WriteByte('<')
	b.WriteString(strings.Join(args, ", "))
	b.WriteByte('>')
}

// Hash returns the canonical hash of the symbol's display string.
func (s *Symbol) Hash() string {
	return CanonicalHash(s.DisplayString())
}

func (s *Symbol) String() string {
	return s.DisplayString()
}

// CanonicalHash is the key used for override directives: the xxhash64 of a
// display string as 16 lower-case hex digits.
func CanonicalHash(display string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(display))
}

// Walk visits sym and, for types, every member and nested type depth-first
// in declaration order. Returning an error from fn stops the walk.
func Walk(sym *Symbol, fn func(*Symbol) error) error {
	if sym == nil {
		return nil
	}
	if err := fn(sym); err != nil {
		return err
	}
	if !sym.IsType() {
		return nil
	}
	for _, m := range sym.Members {
		if err := Walk(m, fn); err != nil {
			return err
		}
	}
	return nil
}
