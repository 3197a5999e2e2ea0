package csharp

import (
	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

type partialKey struct {
	asm   *symbols.Symbol
	name  string
	arity int
}

// partialMerger folds the declarations of a partial type into its first
// declaration in input order, so the type is one symbol whose members keep
// their order across files.
type partialMerger struct {
	partial map[*symbols.Symbol]bool
	first   map[partialKey]*symbols.Symbol
}

func newPartialMerger(files []*file) *partialMerger {
	m := &partialMerger{
		partial: make(map[*symbols.Symbol]bool),
		first:   make(map[partialKey]*symbols.Symbol),
	}
	for _, f := range files {
		for t := range f.partial {
			m.partial[t] = true
		}
	}
	return m
}

// mergeTopLevel returns the types of one unit with later partial
// declarations removed and absorbed into the first.
func (m *partialMerger) mergeTopLevel(types []*symbols.Symbol) []*symbols.Symbol {
	out := types[:0]
	for _, t := range types {
		if m.partial[t] {
			key := partialKey{asm: t.Assembly, name: t.FullName(), arity: len(t.TypeArguments)}
			if into, ok := m.first[key]; ok {
				debug.LogCSharp("merging partial %s from %s\n", key.name, t.Location.Path)
				m.combine(into, t)
				continue
			}
			m.first[key] = t
		}
		m.collapse(t)
		t.DeclarationOrder = len(out)
		out = append(out, t)
	}
	return out
}

// collapse merges partial nested types declared more than once within t
func (m *partialMerger) collapse(t *symbols.Symbol) {
	members := t.Members
	t.Members = nil
	m.absorb(t, members)
}

func (m *partialMerger) combine(into, from *symbols.Symbol) {
	into.IsStatic = into.IsStatic || from.IsStatic
	into.IsAbstract = into.IsAbstract || from.IsAbstract
	into.Attributes = append(into.Attributes, from.Attributes...)
	m.absorb(into, from.Members)
	from.Members = nil
}

func (m *partialMerger) absorb(into *symbols.Symbol, members []*symbols.Symbol) {
	for _, mem := range members {
		if m.partial[mem] {
			if prev := m.nested(into, mem); prev != nil {
				m.combine(prev, mem)
				continue
			}
			m.collapse(mem)
		}
		mem.ContainingType = into
		mem.DeclarationOrder = len(into.Members)
		into.Members = append(into.Members, mem)
	}
}

func (m *partialMerger) nested(owner, t *symbols.Symbol) *symbols.Symbol {
	for _, mem := range owner.Members {
		if m.partial[mem] && mem.IsType() && mem.Name == t.Name && len(mem.TypeArguments) == len(t.TypeArguments) {
			return mem
		}
	}
	return nil
}
