package discovery

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/directives"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// LibraryCache memoizes the scriptable types of each library assembly. A
// cache may be shared by any number of discoverers; entries are computed
// outside any lock and installed with LoadOrStore, so concurrent first
// accesses may both compute but only one result is kept.
type LibraryCache struct {
	entries      sync.Map // *symbols.Symbol -> *libraryEntry
	computations atomic.Int64
}

type libraryEntry struct {
	types []*symbols.Symbol
	set   map[*symbols.Symbol]struct{}
}

// NewLibraryCache creates an empty cache
func NewLibraryCache() *LibraryCache {
	return &LibraryCache{}
}

// IsScriptable reports whether a type is eligible for translation
func IsScriptable(t *symbols.Symbol) bool {
	return !directives.GetFlagValue(t, directives.NonScriptable) &&
		!directives.GetFlagValue(t, directives.ScriptSkip)
}

func (c *LibraryCache) entry(a symbols.Analyzer, lib *symbols.Symbol) *libraryEntry {
	if cached, ok := c.entries.Load(lib); ok {
		return cached.(*libraryEntry)
	}

	c.computations.Add(1)
	computed := &libraryEntry{set: make(map[*symbols.Symbol]struct{})}
	for _, t := range a.LibraryTypes(lib) {
		if IsScriptable(t) {
			computed.types = append(computed.types, t)
			computed.set[t] = struct{}{}
		}
	}
	debug.LogDiscovery("library %s: %d scriptable types\n", lib.Name, len(computed.types))

	actual, _ := c.entries.LoadOrStore(lib, computed)
	return actual.(*libraryEntry)
}

// ScriptableTypes returns the scriptable top-level types of lib
func (c *LibraryCache) ScriptableTypes(a symbols.Analyzer, lib *symbols.Symbol) []*symbols.Symbol {
	return c.entry(a, lib).types
}

// Contains reports whether t is a scriptable top-level type of lib
func (c *LibraryCache) Contains(a symbols.Analyzer, lib, t *symbols.Symbol) bool {
	_, ok := c.entry(a, lib).set[t]
	return ok
}

// Computations returns how many library enumerations have been performed
func (c *LibraryCache) Computations() int64 {
	return c.computations.Load()
}
