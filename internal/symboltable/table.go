// Package symboltable assembles per-symbol script metadata into a tiered,
// read-only lookup table.
//
// Tiers, highest precedence first: overrides, document symbols, directly
// referenced external symbols, and indirectly referenced external symbols.
// The indirect tier is filled lazily on lookup; everything else is fixed
// when Create returns.
package symboltable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scriptsym/internal/altsig"
	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/discovery"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/metadata"
	"github.com/standardbeagle/scriptsym/internal/naming"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Override patches computed metadata. Only the inline code of methods can
// be replaced today.
type Override struct {
	InlineCode *string
}

// ExternalSymbols supplies the symbols declared outside the units under
// translation. *discovery.Discoverer implements it.
type ExternalSymbols interface {
	// DirectExternal returns the external symbols referenced from one unit.
	DirectExternal(ctx context.Context, unit *symbols.Unit) (diagnostics.Outcome[[]*symbols.Symbol], error)
	// IndirectExternal returns the lazy indirect scope given every direct
	// symbol, or nil when the indirect tier is disabled.
	IndirectExternal(direct []*symbols.Symbol) discovery.IndirectScope
}

var errNoUnits = errors.New("at least one unit is required")

// Table is the symbol table. It is safe for concurrent use.
type Table struct {
	document  map[*symbols.Symbol]metadata.Metadata
	direct    map[*symbols.Symbol]metadata.Metadata
	order     []metadata.Metadata
	overrides map[string]Override
	namer     *naming.Namer
	diags     []diagnostics.Diagnostic

	scope        discovery.IndirectScope
	indirect     sync.Map // *symbols.Symbol -> metadata.Metadata
	computations atomic.Int64

	displayOnce sync.Once
	displays    []string
}

type unitResult struct {
	document []metadata.Metadata
	direct   []metadata.Metadata
	diags    []diagnostics.Diagnostic
}

// Create builds a table for units. external may be nil, in which case only
// document symbols are described. The returned error is a
// *errors.ConfigError when no units are given or a *errors.CancelledError
// when ctx is done; every other problem is reported as a diagnostic.
func Create(ctx context.Context, units []*symbols.Unit, overrides map[string]Override, external ExternalSymbols, opts ...Option) (diagnostics.Outcome[*Table], error) {
	if len(units) == 0 {
		return diagnostics.Outcome[*Table]{}, symerrors.NewConfigError("units", "0", errNoUnits)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	groups, err := altsig.BuildGroups(ctx, units, altsig.WithParallelism(o.parallelism))
	if err != nil {
		return diagnostics.Outcome[*Table]{}, err
	}
	namer := naming.New(o.rules,
		naming.WithGroups(groups.Value),
		naming.WithStandardLibrary(o.stdlib),
	)

	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	for i, unit := range units {
		g.Go(func() error {
			res, err := extractUnit(gctx, unit, namer, external)
			if err != nil {
				if symerrors.IsCancelled(err) || gctx.Err() != nil {
					return err
				}
				// isolate the failure to this unit
				res.diags = append(res.diags, diagnostics.Diagnostic{
					Severity: diagnostics.SeverityError,
					Code:     diagnostics.CodeExtractionFailed,
					Message:  fmt.Sprintf("extracting %s: %v", unit.Path, err),
					Location: symbols.Location{Path: unit.Path},
				})
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return diagnostics.Outcome[*Table]{}, symerrors.AsCancelled("create symbol table", err)
	}

	t := &Table{
		document:  make(map[*symbols.Symbol]metadata.Metadata),
		direct:    make(map[*symbols.Symbol]metadata.Metadata),
		overrides: overrides,
		namer:     namer,
	}
	diags := append([]diagnostics.Diagnostic(nil), groups.Diagnostics...)
	var directSyms []*symbols.Symbol
	for _, res := range results {
		for _, md := range res.document {
			t.install(t.document, md)
		}
		for _, md := range res.direct {
			if t.install(t.direct, md) {
				directSyms = append(directSyms, md.Base().SourceSymbol)
			}
		}
		diags = append(diags, res.diags...)
	}
	if external != nil {
		t.scope = external.IndirectExternal(directSyms)
	}
	t.diags = dedupe(diags)
	diagnostics.Sort(t.diags)

	debug.LogTable("created table: %d document, %d direct, %d diagnostics\n", len(t.document), len(t.direct), len(t.diags))
	return diagnostics.Of(t, t.diags...), nil
}

func (t *Table) install(tier map[*symbols.Symbol]metadata.Metadata, md metadata.Metadata) bool {
	sym := md.Base().SourceSymbol
	if _, exists := tier[sym]; exists {
		return false
	}
	tier[sym] = md
	t.order = append(t.order, md)
	return true
}

func extractUnit(ctx context.Context, unit *symbols.Unit, namer *naming.Namer, external ExternalSymbols) (unitResult, error) {
	var res unitResult
	build := func(syms []*symbols.Symbol, origin metadata.Origin) ([]metadata.Metadata, error) {
		var out []metadata.Metadata
		for _, sym := range syms {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			md, diags := metadata.Build(sym, namer, origin)
			if md != nil {
				out = append(out, md)
			}
			res.diags = append(res.diags, diags...)
		}
		return out, nil
	}

	var err error
	res.document, err = build(discovery.DiscoverDocument([]*symbols.Unit{unit}), metadata.OriginDocument)
	if err != nil {
		return res, symerrors.AsCancelled("extract "+unit.Path, err)
	}
	if external == nil {
		return res, nil
	}

	direct, err := external.DirectExternal(ctx, unit)
	if err != nil {
		return res, err
	}
	res.diags = append(res.diags, direct.Diagnostics...)
	res.direct, err = build(direct.Value, metadata.OriginDirectExternal)
	if err != nil {
		return res, symerrors.AsCancelled("extract "+unit.Path, err)
	}
	return res, nil
}

// dedupe drops repeated diagnostics. Alternate-signature failures are found
// both while grouping and while naming.
func dedupe(diags []diagnostics.Diagnostic) []diagnostics.Diagnostic {
	type key struct {
		code    diagnostics.Code
		symbol  string
		message string
	}
	seen := make(map[key]bool, len(diags))
	out := diags[:0]
	for _, d := range diags {
		k := key{d.Code, d.Symbol, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// Diagnostics returns the construction diagnostics
func (t *Table) Diagnostics() []diagnostics.Diagnostic {
	return t.diags
}

// Len returns the number of eagerly computed records
func (t *Table) Len() int {
	return len(t.order)
}

// Range calls fn for every eagerly computed record, document tier first,
// in discovery order. Returning false stops the iteration.
func (t *Table) Range(fn func(metadata.Metadata) bool) {
	for _, md := range t.order {
		if md.Base().Origin != metadata.OriginDocument {
			continue
		}
		if !fn(md) {
			return
		}
	}
	for _, md := range t.order {
		if md.Base().Origin == metadata.OriginDocument {
			continue
		}
		if !fn(md) {
			return
		}
	}
}

// IndirectComputations returns how many indirect-tier records have been
// computed so far
func (t *Table) IndirectComputations() int64 {
	return t.computations.Load()
}

// Namer returns the namer the table was built with
func (t *Table) Namer() *naming.Namer {
	return t.namer
}
