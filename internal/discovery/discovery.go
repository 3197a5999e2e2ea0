// Package discovery finds the symbols a symbol table must describe: those
// declared in the units under translation, those referenced from them but
// declared elsewhere, and optionally every scriptable type of the
// referenced libraries.
package discovery

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Suggester is optionally implemented by analyzers that can propose a
// close match for an unresolved name.
type Suggester interface {
	Suggest(name string) string
}

// DiscoverDocument returns the assemblies of the units followed by every
// type and member declared in them, nested types included, in declaration
// order.
func DiscoverDocument(units []*symbols.Unit) []*symbols.Symbol {
	var out []*symbols.Symbol
	seen := make(map[*symbols.Symbol]bool)
	for _, u := range units {
		if u.Assembly != nil && !seen[u.Assembly] {
			seen[u.Assembly] = true
			out = append(out, u.Assembly)
		}
	}
	for _, u := range units {
		out = append(out, u.Declared()...)
	}
	return out
}

// Discoverer asks an analyzer for external symbols. It implements the
// external symbol provider consumed by the symbol table.
type Discoverer struct {
	analyzer    symbols.Analyzer
	mode        Mode
	cache       *LibraryCache
	parallelism int
}

// Option configures a Discoverer
type Option func(*Discoverer)

// WithCache shares a library cache between discoverers
func WithCache(c *LibraryCache) Option {
	return func(d *Discoverer) {
		if c != nil {
			d.cache = c
		}
	}
}

// WithParallelism bounds the number of units walked at once
func WithParallelism(n int) Option {
	return func(d *Discoverer) {
		d.parallelism = n
	}
}

// New creates a Discoverer. Without WithCache it owns a fresh cache.
func New(a symbols.Analyzer, mode Mode, opts ...Option) *Discoverer {
	d := &Discoverer{analyzer: a, mode: mode, cache: NewLibraryCache()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the discovery mode
func (d *Discoverer) Mode() Mode {
	return d.mode
}

// Cache returns the library cache
func (d *Discoverer) Cache() *LibraryCache {
	return d.cache
}

// DirectExternal walks the references of one unit and returns the symbols
// declared outside the unit's assembly, deduplicated in first-seen order.
// Arrays are unwrapped to their element type, placeholder types are
// dropped, and members bring their containing types and assembly along.
// References with no assembly are reported as unresolved.
func (d *Discoverer) DirectExternal(ctx context.Context, unit *symbols.Unit) (diagnostics.Outcome[[]*symbols.Symbol], error) {
	if d.mode == ModeDocumentOnly {
		return diagnostics.Outcome[[]*symbols.Symbol]{}, nil
	}

	var out []*symbols.Symbol
	var diags []diagnostics.Diagnostic
	seen := make(map[*symbols.Symbol]bool)
	add := func(s *symbols.Symbol) {
		if s != nil && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	err := d.analyzer.WalkReferences(ctx, unit, func(ref *symbols.Symbol) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for ref != nil && ref.TypeKind == symbols.TypeKindArray {
			ref = ref.ElementType
		}
		if ref == nil || ref.TypeKind.IsPlaceholder() || ref.Kind == symbols.KindNamespace {
			return nil
		}

		asm := ref.ContainingAssembly()
		if asm == nil {
			if !seen[ref] {
				seen[ref] = true
				diags = append(diags, d.unresolved(ref))
			}
			return nil
		}
		if isSameAssembly(asm, unit.Assembly) {
			return nil
		}

		add(asm)
		var chain []*symbols.Symbol
		for cur := ref.ContainingType; cur != nil; cur = cur.ContainingType {
			chain = append(chain, cur)
		}
		for i := len(chain) - 1; i >= 0; i-- {
			add(chain[i])
		}
		add(ref)
		return nil
	})
	if err != nil {
		return diagnostics.Outcome[[]*symbols.Symbol]{}, symerrors.AsCancelled("discover direct references", err)
	}
	debug.LogDiscovery("%s: %d direct external symbols\n", unit.Path, len(out))
	return diagnostics.Of(out, diags...), nil
}

func isSameAssembly(a, b *symbols.Symbol) bool {
	return a == b || (b != nil && a.Name == b.Name)
}

func (d *Discoverer) unresolved(ref *symbols.Symbol) diagnostics.Diagnostic {
	if s, ok := d.analyzer.(Suggester); ok {
		if suggestion := s.Suggest(ref.Name); suggestion != "" {
			return diagnostics.New(diagnostics.SeverityWarning, diagnostics.CodeUnresolvedReference, ref,
				"unresolved reference to %s; did you mean %s?", ref.Name, suggestion)
		}
	}
	return diagnostics.New(diagnostics.SeverityWarning, diagnostics.CodeUnresolvedReference, ref,
		"unresolved reference to %s", ref.Name)
}

// DiscoverDirectExternal runs DirectExternal over every unit in parallel
// and merges the results in unit order.
func (d *Discoverer) DiscoverDirectExternal(ctx context.Context, units []*symbols.Unit) (diagnostics.Outcome[[]*symbols.Symbol], error) {
	results := make([]diagnostics.Outcome[[]*symbols.Symbol], len(units))
	g, gctx := errgroup.WithContext(ctx)
	if d.parallelism > 0 {
		g.SetLimit(d.parallelism)
	}
	for i, unit := range units {
		g.Go(func() error {
			res, err := d.DirectExternal(gctx, unit)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return diagnostics.Outcome[[]*symbols.Symbol]{}, symerrors.AsCancelled("discover direct references", err)
	}

	var merged diagnostics.Outcome[[]*symbols.Symbol]
	seen := make(map[*symbols.Symbol]bool)
	for _, res := range results {
		for _, s := range res.Value {
			if !seen[s] {
				seen[s] = true
				merged.Value = append(merged.Value, s)
			}
		}
		merged.Diagnostics = append(merged.Diagnostics, res.Diagnostics...)
	}
	return merged, nil
}

// IndirectScope decides lazily whether a symbol belongs to the indirect
// tier.
type IndirectScope interface {
	Contains(sym *symbols.Symbol) bool
	Libraries() []*symbols.Symbol
}

// Scope is the IndirectScope of a Discoverer. It is computed once per
// table from the directly referenced symbols.
type Scope struct {
	analyzer  symbols.Analyzer
	cache     *LibraryCache
	libraries map[*symbols.Symbol]bool
}

// IndirectExternal returns the lazy indirect scope for a table whose direct
// tier holds direct. It is nil unless the mode is ModeAllLibraryTypes.
func (d *Discoverer) IndirectExternal(direct []*symbols.Symbol) IndirectScope {
	if scope := d.scope(direct); scope != nil {
		return scope
	}
	return nil
}

func (d *Discoverer) scope(direct []*symbols.Symbol) *Scope {
	if d.mode != ModeAllLibraryTypes {
		return nil
	}
	libs := make(map[*symbols.Symbol]bool)
	for _, s := range direct {
		if asm := s.ContainingAssembly(); asm != nil {
			libs[asm] = true
		}
	}
	if std := d.analyzer.StandardLibrary(); std != nil {
		libs[std] = true
	}
	return &Scope{analyzer: d.analyzer, cache: d.cache, libraries: libs}
}

// Contains reports whether sym is an assembly of an eligible library, or a
// scriptable type of one, or a member of such a type.
func (s *Scope) Contains(sym *symbols.Symbol) bool {
	if s == nil || sym == nil {
		return false
	}
	lib := sym.ContainingAssembly()
	if lib == nil || !s.libraries[lib] {
		return false
	}
	if sym.Kind == symbols.KindAssembly {
		return true
	}
	outer := sym.OutermostType()
	return outer != nil && s.cache.Contains(s.analyzer, lib, outer)
}

// Libraries returns the eligible libraries sorted by name
func (s *Scope) Libraries() []*symbols.Symbol {
	if s == nil {
		return nil
	}
	out := make([]*symbols.Symbol, 0, len(s.libraries))
	for lib := range s.libraries {
		out = append(out, lib)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DiscoverIndirectExternal eagerly enumerates what the indirect scope
// covers: every scriptable type of every eligible library and all of their
// members. It is empty unless the mode is ModeAllLibraryTypes.
func (d *Discoverer) DiscoverIndirectExternal(ctx context.Context, direct []*symbols.Symbol) ([]*symbols.Symbol, error) {
	scope := d.scope(direct)
	var out []*symbols.Symbol
	for _, lib := range scope.Libraries() {
		out = append(out, lib)
		for _, t := range d.cache.ScriptableTypes(d.analyzer, lib) {
			err := symbols.Walk(t, func(s *symbols.Symbol) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				out = append(out, s)
				return nil
			})
			if err != nil {
				return nil, symerrors.AsCancelled("discover library types", err)
			}
		}
	}
	return out, nil
}
