package testhelpers

import (
	"context"
	"sync"

	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Host is an in-memory analyzer. References and library contents are
// registered up front; LibraryTypes calls are counted per assembly.
type Host struct {
	references map[*symbols.Unit][]*symbols.Symbol
	libraries  map[*symbols.Symbol][]*symbols.Symbol
	stdlib     *symbols.Symbol

	mu           sync.Mutex
	libraryCalls map[*symbols.Symbol]int
}

var _ symbols.Analyzer = (*Host)(nil)

// NewHost creates an empty in-memory analyzer
func NewHost() *Host {
	return &Host{
		references:   make(map[*symbols.Unit][]*symbols.Symbol),
		libraries:    make(map[*symbols.Symbol][]*symbols.Symbol),
		libraryCalls: make(map[*symbols.Symbol]int),
	}
}

// Reference records symbols referenced from unit's syntax
func (h *Host) Reference(unit *symbols.Unit, refs ...*symbols.Symbol) *Host {
	h.references[unit] = append(h.references[unit], refs...)
	return h
}

// Library registers the top-level types of a library assembly
func (h *Host) Library(asm *symbols.Symbol, types ...*TypeBuilder) *Host {
	for _, tb := range types {
		t := tb.Build()
		t.Assembly = asm
		t.DeclarationOrder = len(h.libraries[asm])
		h.libraries[asm] = append(h.libraries[asm], t)
	}
	if _, ok := h.libraries[asm]; !ok {
		h.libraries[asm] = nil
	}
	return h
}

// WithStandardLibrary designates the standard library assembly
func (h *Host) WithStandardLibrary(asm *symbols.Symbol) *Host {
	h.stdlib = asm
	return h
}

// WalkReferences implements symbols.Analyzer
func (h *Host) WalkReferences(ctx context.Context, unit *symbols.Unit, visit func(*symbols.Symbol) error) error {
	for _, ref := range h.references[unit] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := visit(ref); err != nil {
			return err
		}
	}
	return nil
}

// LibraryTypes implements symbols.Analyzer
func (h *Host) LibraryTypes(asm *symbols.Symbol) []*symbols.Symbol {
	h.mu.Lock()
	h.libraryCalls[asm]++
	h.mu.Unlock()
	return h.libraries[asm]
}

// StandardLibrary implements symbols.Analyzer
func (h *Host) StandardLibrary() *symbols.Symbol {
	return h.stdlib
}

// LibraryTypesCalls returns how many times the types of asm were enumerated
func (h *Host) LibraryTypesCalls(asm *symbols.Symbol) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.libraryCalls[asm]
}
