// Package altsig groups alternate-signature methods with the sibling that
// implements them.
package altsig

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/directives"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Group is one implementing method and the alternate signatures that borrow
// its name.
type Group struct {
	ImplementingMethod *symbols.Symbol
	AlternateMethods   []*symbols.Symbol
}

// Groups is the validated side table produced by BuildGroups. It is
// read-only after construction.
type Groups struct {
	byImplementing map[string]*Group
	byAlternate    map[*symbols.Symbol]*symbols.Symbol
}

func newGroups() *Groups {
	return &Groups{
		byImplementing: make(map[string]*Group),
		byAlternate:    make(map[*symbols.Symbol]*symbols.Symbol),
	}
}

// ImplementingMethod returns the implementing method recorded for an
// alternate-signature method.
func (g *Groups) ImplementingMethod(alt *symbols.Symbol) (*symbols.Symbol, bool) {
	if g == nil {
		return nil, false
	}
	impl, ok := g.byAlternate[alt]
	return impl, ok
}

// Group returns the group keyed by the implementing method's display string
func (g *Groups) Group(implementing string) (*Group, bool) {
	if g == nil {
		return nil, false
	}
	grp, ok := g.byImplementing[implementing]
	return grp, ok
}

// Len returns the number of valid groups
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.byImplementing)
}

// Keys returns the implementing-method keys in sorted order
func (g *Groups) Keys() []string {
	if g == nil {
		return nil
	}
	keys := make([]string, 0, len(g.byImplementing))
	for k := range g.byImplementing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (g *Groups) add(grp *Group) {
	g.byImplementing[grp.ImplementingMethod.DisplayString()] = grp
	for _, alt := range grp.AlternateMethods {
		g.byAlternate[alt] = grp.ImplementingMethod
	}
}

// IsAlternateSignature reports whether the method is marked as a
// signature-only declaration
func IsAlternateSignature(sym *symbols.Symbol) bool {
	return directives.HasDirective(sym, directives.AlternateSignature)
}

// canImplement reports whether a method may serve as the implementing
// method of a group
func canImplement(sym *symbols.Symbol) bool {
	return !IsAlternateSignature(sym) && !directives.HasDirective(sym, directives.InlineCode)
}

func sameGroup(a, b *symbols.Symbol) bool {
	return a.Kind == symbols.KindMethod && b.Kind == symbols.KindMethod &&
		a.Name == b.Name && a.IsStatic == b.IsStatic
}

// FindImplementing returns the unique sibling that implements an
// alternate-signature method: same name and staticness, not itself an
// alternate signature and without inline code. Zero or several candidates
// yield a *errors.NamingError.
func FindImplementing(alt *symbols.Symbol) (*symbols.Symbol, error) {
	var candidates []*symbols.Symbol
	for _, sib := range alt.Siblings() {
		if sameGroup(alt, sib) && canImplement(sib) {
			candidates = append(candidates, sib)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, symerrors.NewNamingError(symerrors.ReasonNoImplementingMethod, alt.DisplayString(), nil)
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.DisplayString()
		}
		return nil, symerrors.NewNamingError(symerrors.ReasonAmbiguousImplementingMethod, alt.DisplayString(), names)
	}
}

// Diagnostic converts an implementing-method failure into a construction
// diagnostic about sym.
func Diagnostic(sym *symbols.Symbol, err *symerrors.NamingError) diagnostics.Diagnostic {
	code := diagnostics.CodeNoImplementingMethod
	if err.Reason == symerrors.ReasonAmbiguousImplementingMethod {
		code = diagnostics.CodeAmbiguousImplementingMethod
	}
	return diagnostics.New(diagnostics.SeverityError, code, sym, "%s", err.Error())
}

// Option configures BuildGroups
type Option func(*buildOptions)

type buildOptions struct {
	parallelism int
}

// WithParallelism bounds the number of units processed at once. Values
// below one mean no limit.
func WithParallelism(n int) Option {
	return func(o *buildOptions) {
		o.parallelism = n
	}
}

type unitResult struct {
	groups []*Group
	diags  []diagnostics.Diagnostic
}

// BuildGroups scans every unit in parallel for methods that share a name
// and staticness within a type, where at least one is an alternate
// signature, and validates each such group. Invalid groups are reported as
// diagnostics; valid groups are returned. The only error is cancellation.
func BuildGroups(ctx context.Context, units []*symbols.Unit, opts ...Option) (diagnostics.Outcome[*Groups], error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	for i, unit := range units {
		g.Go(func() error {
			res, err := buildUnit(gctx, unit)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return diagnostics.Outcome[*Groups]{}, symerrors.AsCancelled("build alternate signature groups", err)
	}

	groups := newGroups()
	var diags []diagnostics.Diagnostic
	for _, res := range results {
		for _, grp := range res.groups {
			groups.add(grp)
		}
		diags = append(diags, res.diags...)
	}
	debug.LogAltSig("built %d groups from %d units (%d diagnostics)\n", groups.Len(), len(units), len(diags))
	return diagnostics.Of(groups, diags...), nil
}

type groupKey struct {
	owner    *symbols.Symbol
	name     string
	isStatic bool
}

func buildUnit(ctx context.Context, unit *symbols.Unit) (unitResult, error) {
	var res unitResult
	var order []groupKey
	members := make(map[groupKey][]*symbols.Symbol)

	for _, sym := range unit.Declared() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if sym.Kind != symbols.KindMethod || !sym.MethodKind.IsOverloadable() || sym.ContainingType == nil {
			continue
		}
		key := groupKey{owner: sym.ContainingType, name: sym.Name, isStatic: sym.IsStatic}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], sym)
	}

	for _, key := range order {
		methods := members[key]
		if len(methods) < 2 {
			continue
		}
		var alternates, implementing []*symbols.Symbol
		for _, m := range methods {
			if IsAlternateSignature(m) {
				alternates = append(alternates, m)
			} else if canImplement(m) {
				implementing = append(implementing, m)
			}
		}
		if len(alternates) == 0 {
			continue
		}
		if len(implementing) == 1 {
			res.groups = append(res.groups, &Group{ImplementingMethod: implementing[0], AlternateMethods: alternates})
			continue
		}
		for _, alt := range alternates {
			_, err := FindImplementing(alt)
			var nerr *symerrors.NamingError
			if errors.As(err, &nerr) {
				res.diags = append(res.diags, Diagnostic(alt, nerr))
			}
		}
	}
	return res, nil
}
