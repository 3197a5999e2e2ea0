package symbols

import "context"

// Unit is one translation unit (a source file) under translation
type Unit struct {
	Path     string
	Assembly *Symbol
	// Types holds the top-level types declared in the unit in declaration
	// order. Nested types are reached through Members.
	Types []*Symbol
}

// Declared returns every type and member declared in the unit, depth-first
// in declaration order.
func (u *Unit) Declared() []*Symbol {
	if u == nil {
		return nil
	}
	var out []*Symbol
	for _, t := range u.Types {
		_ = Walk(t, func(s *Symbol) error {
			out = append(out, s)
			return nil
		})
	}
	return out
}

// Analyzer is the contract the engine consumes from the host semantic
// analyzer.
type Analyzer interface {
	// WalkReferences calls visit for every symbol referenced from the unit's
	// syntax. Implementations must poll ctx at each visited symbol and return
	// ctx.Err() when it is done.
	WalkReferences(ctx context.Context, unit *Unit, visit func(*Symbol) error) error

	// LibraryTypes returns every top-level type declared in the given library
	// assembly.
	LibraryTypes(assembly *Symbol) []*Symbol

	// StandardLibrary returns the designated standard library assembly, or nil.
	StandardLibrary() *Symbol
}

// NewAssembly creates an assembly symbol
func NewAssembly(name string, attrs ...Attribute) *Symbol {
	return &Symbol{
		Name:       name,
		Kind:       KindAssembly,
		Attributes: attrs,
	}
}
